// Package reporter renders a ValidationResults set for each of the
// collaborator output surfaces named in spec §1/§4.11: console text,
// JUnit-XML, web HTML, and a Graphviz DOT plan-graph export. No reporter
// re-interprets failure semantics; each renders the reason/error/message
// fields verbatim (spec §7).
package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/focusconform/validator/internal/results"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true)
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ea580c")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb")).Bold(true)
)

// ConsoleReporter renders a colorized, layered text summary.
type ConsoleReporter struct{}

// Write renders vr's verdicts, sorted errors first, then failures, then
// skips, then passes, followed by a pass/fail/skip/error summary line.
func (ConsoleReporter) Write(w io.Writer, datasetName string, vr *results.ValidationResults) error {
	useColors := isTTY(w)

	header := fmt.Sprintf("FOCUS Conformance - %s", datasetName)
	if useColors {
		header = headerStyle.Render(header)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w)

	sorted := make([]*results.Verdict, 0, len(vr.ByIdx))
	for _, v := range vr.ByIdx {
		if v != nil {
			sorted = append(sorted, v)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i]) < rank(sorted[j])
	})

	for _, v := range sorted {
		printVerdict(w, v, useColors)
	}

	fmt.Fprintln(w)
	printSummary(w, results.Summarize(vr), useColors)
	return nil
}

func rank(v *results.Verdict) int {
	switch {
	case v.Errored():
		return 0
	case !v.OK:
		return 1
	case v.Skipped():
		return 2
	default:
		return 3
	}
}

func printVerdict(w io.Writer, v *results.Verdict, useColors bool) {
	icon := statusIcon(v, useColors)
	ruleID := v.RuleID
	if useColors {
		ruleID = mutedStyle.Render(ruleID)
	}
	fmt.Fprintf(w, "%s %s: %s\n", icon, ruleID, v.Message())
	if v.Errored() {
		errMsg := fmt.Sprintf("     error: %v", v.Details["error"])
		fmt.Fprintln(w, errMsg)
	}
}

func statusIcon(v *results.Verdict, useColors bool) string {
	var label string
	var style lipgloss.Style
	switch {
	case v.Errored():
		label, style = "[ERROR]", errorStyle
	case v.Skipped():
		label, style = "[SKIP]", skipStyle
	case v.OK:
		label, style = "[PASS]", passStyle
	default:
		label, style = "[FAIL]", failStyle
	}
	if useColors {
		return style.Render(label)
	}
	return label
}

func printSummary(w io.Writer, s results.Summary, useColors bool) {
	format := func(n int, label string, style lipgloss.Style) string {
		text := fmt.Sprintf("%d %s", n, label)
		if useColors && n > 0 {
			return style.Render(text)
		}
		return text
	}
	fmt.Fprintf(w, "Summary: %s, %s, %s, %s (of %d)\n",
		format(s.Passed, "passed", passStyle),
		format(s.Failed, "failed", failStyle),
		format(s.Skipped, "skipped", skipStyle),
		format(s.Errored, "errored", errorStyle),
		s.Total,
	)
}

func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
