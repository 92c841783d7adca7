package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/focusconform/validator/internal/planner"
	"github.com/focusconform/validator/internal/results"
)

// GraphReporter exports a plan graph as Graphviz DOT, grounded on the
// original implementation's rule_dependency_resolver.py export_dot /
// export_scc_dot helpers: one node per rule, one edge per plan-graph
// edge labeled with its kind, nodes colored by verdict when available.
type GraphReporter struct{}

// Write renders graph as a directed DOT document. If vr is non-nil,
// nodes are colored by verdict (pass/fail/skip/error); otherwise every
// node is rendered uncolored.
func (GraphReporter) Write(w io.Writer, datasetName string, graph *planner.PlanGraph, vr *results.ValidationResults) error {
	fmt.Fprintf(w, "digraph %s {\n", dotID(datasetName))
	fmt.Fprintln(w, `  rankdir=LR;`)
	fmt.Fprintln(w, `  node [shape=box, style=filled, fontname="monospace"];`)

	for _, id := range graph.SortedNodeIDs() {
		fmt.Fprintf(w, "  %s [label=%q, fillcolor=%q];\n", dotID(id), id, nodeColor(id, vr))
	}

	for _, parentID := range graph.SortedNodeIDs() {
		children := make([]string, 0, len(graph.Children[parentID]))
		for childID := range graph.Children[parentID] {
			children = append(children, childID)
		}
		sort.Strings(children)
		for _, childID := range children {
			ec, _ := graph.EdgeBetween(parentID, childID)
			fmt.Fprintf(w, "  %s -> %s [label=%q];\n", dotID(parentID), dotID(childID), string(ec.Kind))
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}

func nodeColor(ruleID string, vr *results.ValidationResults) string {
	if vr == nil {
		return "#e5e7eb"
	}
	v, ok := vr.ByRuleID[ruleID]
	if !ok || v == nil {
		return "#e5e7eb"
	}
	switch {
	case v.Errored():
		return "#fecaca"
	case v.Skipped():
		return "#fed7aa"
	case v.OK:
		return "#bbf7d0"
	default:
		return "#fca5a5"
	}
}

// dotID quotes an arbitrary rule ID as a DOT identifier. Rule IDs may
// contain characters DOT treats specially, so every reference uses the
// quoted form rather than a sanitized bareword.
func dotID(s string) string {
	return fmt.Sprintf("%q", s)
}
