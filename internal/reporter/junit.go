package reporter

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/focusconform/validator/internal/results"
)

// JUnitReporter emits one <testcase> per rule, classname set to the
// dataset name. There is no ecosystem JUnit-XML encoder in the example
// corpus that improves on encoding/xml for this shape (a flat
// attribute/child-element tree); DESIGN.md records this as a
// standard-library justification, as it does for the JSON and web
// reporters.
type JUnitReporter struct{}

type junitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	ClassName string         `xml:"classname,attr"`
	Name      string         `xml:"name,attr"`
	Failure   *junitFailure  `xml:"failure,omitempty"`
	Error     *junitFailure  `xml:"error,omitempty"`
	Skipped   *junitSkipped  `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr"`
}

// Write renders vr as a JUnit-XML test suite named for datasetName.
func (JUnitReporter) Write(w io.Writer, datasetName string, vr *results.ValidationResults) error {
	suite := junitTestSuite{Name: datasetName}

	for _, v := range vr.ByIdx {
		if v == nil {
			continue
		}
		tc := junitTestCase{ClassName: datasetName, Name: v.RuleID}
		suite.Tests++

		switch {
		case v.Errored():
			suite.Errors++
			tc.Error = &junitFailure{Message: v.Message(), Text: stringField(v.Details["error"])}
		case v.Skipped():
			suite.Skipped++
			tc.Skipped = &junitSkipped{Message: v.Message()}
		case !v.OK:
			suite.Failures++
			tc.Failure = &junitFailure{Message: v.Message(), Text: stringField(v.Details["violations"])}
		}

		suite.TestCases = append(suite.TestCases, tc)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(suite)
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
