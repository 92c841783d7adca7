package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/compiler"
	"github.com/focusconform/validator/internal/results"
	"github.com/focusconform/validator/internal/scheduler"
)

func childItem(id string) catalog.Requirement {
	return catalog.Requirement{Kind: catalog.KindCheckConformanceRule, ConformanceRuleID: id}
}

func planWithVerdicts(ids []string, verdicts []*results.Verdict) *scheduler.ValidationPlan {
	idToIdx := make(map[string]int, len(ids))
	for i, id := range ids {
		idToIdx[id] = i
	}
	return &scheduler.ValidationPlan{IDToIndex: idToIdx}
}

// TestEvaluateComposite_AND covers property 8: AND passes iff every
// referenced child is PASSED or SKIPPED.
func TestEvaluateComposite_AND(t *testing.T) {
	e := &Executor{}
	rule := &catalog.Rule{RuleID: "Composite"}
	check := &compiler.CompiledCheck{
		CompositeKind:  catalog.KindAnd,
		CompositeItems: []catalog.Requirement{childItem("A"), childItem("B")},
	}

	ids := []string{"A", "B"}
	plan := planWithVerdicts(ids, nil)
	verdicts := []*results.Verdict{
		{RuleID: "A", OK: true, Details: map[string]any{}},
		{RuleID: "B", OK: true, Details: map[string]any{}},
	}
	got := e.evaluateComposite(rule, check, plan, verdicts)
	assert.True(t, got.OK)

	verdicts[1] = &results.Verdict{RuleID: "B", OK: false, Details: map[string]any{}}
	got = e.evaluateComposite(rule, check, plan, verdicts)
	assert.False(t, got.OK)
}

// TestEvaluateComposite_AND_SkippedChildCountsAsPass covers the AND
// skip-tolerance clause of property 8.
func TestEvaluateComposite_AND_SkippedChildCountsAsPass(t *testing.T) {
	e := &Executor{}
	rule := &catalog.Rule{RuleID: "Composite"}
	check := &compiler.CompiledCheck{
		CompositeKind:  catalog.KindAnd,
		CompositeItems: []catalog.Requirement{childItem("A"), childItem("B")},
	}
	ids := []string{"A", "B"}
	plan := planWithVerdicts(ids, nil)
	verdicts := []*results.Verdict{
		{RuleID: "A", OK: true, Details: map[string]any{}},
		{RuleID: "B", OK: true, Details: map[string]any{"skipped": true}},
	}
	got := e.evaluateComposite(rule, check, plan, verdicts)
	assert.True(t, got.OK)
}

// TestEvaluateComposite_OR covers property 9: OR passes iff at least one
// referenced child is PASSED.
func TestEvaluateComposite_OR(t *testing.T) {
	e := &Executor{}
	rule := &catalog.Rule{RuleID: "Composite"}
	check := &compiler.CompiledCheck{
		CompositeKind:  catalog.KindOr,
		CompositeItems: []catalog.Requirement{childItem("A"), childItem("B")},
	}
	ids := []string{"A", "B"}
	plan := planWithVerdicts(ids, nil)
	verdicts := []*results.Verdict{
		{RuleID: "A", OK: false, Details: map[string]any{}},
		{RuleID: "B", OK: true, Details: map[string]any{}},
	}
	got := e.evaluateComposite(rule, check, plan, verdicts)
	assert.True(t, got.OK)

	verdicts[1] = &results.Verdict{RuleID: "B", OK: false, Details: map[string]any{}}
	got = e.evaluateComposite(rule, check, plan, verdicts)
	assert.False(t, got.OK)
}

func TestEvaluateComposite_ConformanceReferencePassesThrough(t *testing.T) {
	e := &Executor{}
	rule := &catalog.Rule{RuleID: "RefRule"}
	check := &compiler.CompiledCheck{
		CompositeKind:  catalog.KindCheckConformanceRule,
		CompositeItems: []catalog.Requirement{childItem("Target")},
	}
	ids := []string{"Target"}
	plan := planWithVerdicts(ids, nil)
	verdicts := []*results.Verdict{
		{RuleID: "Target", OK: true, Details: map[string]any{}},
	}
	got := e.evaluateComposite(rule, check, plan, verdicts)
	assert.True(t, got.OK)
	assert.Equal(t, "conformance_rule_reference", got.CheckType())
}

func TestEvaluateComposite_MissingChildVerdictFailsClosed(t *testing.T) {
	e := &Executor{}
	rule := &catalog.Rule{RuleID: "Composite"}
	check := &compiler.CompiledCheck{
		CompositeKind:  catalog.KindAnd,
		CompositeItems: []catalog.Requirement{childItem("Ghost")},
	}
	plan := &scheduler.ValidationPlan{IDToIndex: map[string]int{}}
	got := e.evaluateComposite(rule, check, plan, []*results.Verdict{})
	assert.False(t, got.OK)
}
