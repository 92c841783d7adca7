// Package results maps the Executor's per-node outputs into the per-rule
// verdict structure reporters consume (spec §4.7).
package results

import (
	"github.com/focusconform/validator/internal/catalog"
)

// Verdict is the final per-rule outcome (spec §3). Details carries, at
// minimum, "violations" (int64 >= 0) for executed checks, "skipped"
// (bool), "reason" (string, present when skipped or errored),
// "check_type" (string), "message" (string), and "error" (string,
// present on engine error).
type Verdict struct {
	OK      bool
	RuleID  string
	Details map[string]any
}

// Violations returns the verdict's violation count, or 0 if absent
// (skipped/errored verdicts carry no violations entry).
func (v *Verdict) Violations() int64 {
	if n, ok := v.Details["violations"].(int64); ok {
		return n
	}
	return 0
}

// Skipped reports whether the verdict's details mark it skipped.
func (v *Verdict) Skipped() bool {
	b, _ := v.Details["skipped"].(bool)
	return b
}

// Errored reports whether the verdict carries an engine error.
func (v *Verdict) Errored() bool {
	_, ok := v.Details["error"]
	return ok
}

// CheckType returns the verdict's recorded check_type, for diagnostics.
func (v *Verdict) CheckType() string {
	s, _ := v.Details["check_type"].(string)
	return s
}

// Message returns the verdict's human-readable message.
func (v *Verdict) Message() string {
	s, _ := v.Details["message"].(string)
	return s
}

// ValidationResults is the Result Aggregator's output: three views
// sufficient for every downstream reporter (console, web HTML,
// JUnit-XML, graph visualization).
type ValidationResults struct {
	ByIdx    []*Verdict
	ByRuleID map[string]*Verdict
	Rules    map[string]*catalog.Rule
}

// Aggregate builds a ValidationResults from the Executor's indexed
// verdict slice (one entry per plan node, in plan order) and the rule
// records the plan was built over.
func Aggregate(verdicts []*Verdict, rules map[string]*catalog.Rule) *ValidationResults {
	byRuleID := make(map[string]*Verdict, len(verdicts))
	for _, v := range verdicts {
		if v == nil {
			continue
		}
		byRuleID[v.RuleID] = v
	}
	return &ValidationResults{
		ByIdx:    verdicts,
		ByRuleID: byRuleID,
		Rules:    rules,
	}
}

// Summary tallies pass/fail/skip/error counts across every verdict, for
// the console reporter's header and the CLI's process exit code.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errored int
}

// Summarize reduces a ValidationResults into pass/fail/skip/error
// counts.
func Summarize(vr *ValidationResults) Summary {
	var s Summary
	for _, v := range vr.ByIdx {
		if v == nil {
			continue
		}
		s.Total++
		switch {
		case v.Errored():
			s.Errored++
		case v.Skipped():
			s.Skipped++
		case v.OK:
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}
