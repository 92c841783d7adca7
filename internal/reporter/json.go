package reporter

import (
	"encoding/json"
	"io"

	"github.com/focusconform/validator/internal/results"
)

// JSONReporter emits the verdict set as a single JSON document. No
// third-party encoder in the example corpus improves on encoding/json
// for a flat, already-typed struct tree; recorded as a stdlib
// justification in DESIGN.md alongside the JUnit reporter.
type JSONReporter struct{}

type jsonVerdict struct {
	RuleID    string `json:"rule_id"`
	Status    string `json:"status"`
	CheckType string `json:"check_type,omitempty"`
	Message   string `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

type jsonReport struct {
	DatasetName string          `json:"dataset_name"`
	Summary     results.Summary `json:"summary"`
	Verdicts    []jsonVerdict   `json:"verdicts"`
}

// Write renders vr as indented JSON.
func (JSONReporter) Write(w io.Writer, datasetName string, vr *results.ValidationResults) error {
	report := jsonReport{
		DatasetName: datasetName,
		Summary:     results.Summarize(vr),
	}
	for _, v := range vr.ByIdx {
		if v == nil {
			continue
		}
		status := "PASSED"
		switch {
		case v.Errored():
			status = "ERRORED"
		case v.Skipped():
			status = "SKIPPED"
		case !v.OK:
			status = "FAILED"
		}
		report.Verdicts = append(report.Verdicts, jsonVerdict{
			RuleID:    v.RuleID,
			Status:    status,
			CheckType: v.CheckType(),
			Message:   v.Message(),
			Details:   v.Details,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
