package reporter

import (
	"html/template"
	"io"
	"sort"

	"github.com/focusconform/validator/internal/results"
)

// WebReporter renders a single self-contained HTML report, grounded on
// the original outputter_web.py page shape: a per-rule row table with
// pass/fail coloring and a collapsible violation-detail cell.
type WebReporter struct{}

type webRow struct {
	RuleID    string
	Status    string
	CSSClass  string
	CheckType string
	Message   string
	Detail    string
}

type webPageData struct {
	DatasetName string
	Summary     results.Summary
	Rows        []webRow
}

var webPageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>FOCUS Conformance Report - {{.DatasetName}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
.pass { color: #16a34a; font-weight: bold; }
.fail { color: #dc2626; font-weight: bold; }
.skip { color: #ea580c; font-weight: bold; }
.error { color: #dc2626; font-weight: bold; text-decoration: underline; }
details { cursor: pointer; }
</style>
</head>
<body>
<h1>FOCUS Conformance Report — {{.DatasetName}}</h1>
<p>{{.Summary.Passed}} passed, {{.Summary.Failed}} failed, {{.Summary.Skipped}} skipped, {{.Summary.Errored}} errored (of {{.Summary.Total}})</p>
<table>
<thead><tr><th>Rule</th><th>Status</th><th>Check</th><th>Message</th></tr></thead>
<tbody>
{{range .Rows}}
<tr>
<td>{{.RuleID}}</td>
<td class="{{.CSSClass}}">{{.Status}}</td>
<td>{{.CheckType}}</td>
<td>{{.Message}}{{if .Detail}}<details><summary>detail</summary><pre>{{.Detail}}</pre></details>{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
</body>
</html>
`))

// Write renders vr as a self-contained HTML document.
func (WebReporter) Write(w io.Writer, datasetName string, vr *results.ValidationResults) error {
	data := webPageData{DatasetName: datasetName, Summary: results.Summarize(vr)}

	var verdicts []*results.Verdict
	for _, v := range vr.ByIdx {
		if v != nil {
			verdicts = append(verdicts, v)
		}
	}
	sort.Slice(verdicts, func(i, j int) bool { return verdicts[i].RuleID < verdicts[j].RuleID })

	for _, v := range verdicts {
		row := webRow{
			RuleID:    v.RuleID,
			CheckType: v.CheckType(),
			Message:   v.Message(),
		}
		switch {
		case v.Errored():
			row.Status, row.CSSClass = "ERROR", "error"
			row.Detail = stringField(v.Details["error"])
		case v.Skipped():
			row.Status, row.CSSClass = "SKIPPED", "skip"
		case v.OK:
			row.Status, row.CSSClass = "PASSED", "pass"
		default:
			row.Status, row.CSSClass = "FAILED", "fail"
			row.Detail = stringField(v.Details["violations"])
		}
		data.Rows = append(data.Rows, row)
	}

	return webPageTemplate.Execute(w, data)
}
