package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focusconform/validator/internal/catalog"
)

func TestVerdict_Accessors(t *testing.T) {
	v := &Verdict{
		RuleID: "R-1",
		Details: map[string]any{
			"violations": int64(3),
			"skipped":    false,
			"check_type": "CheckValue",
			"message":    "3 rows violate",
		},
	}
	assert.Equal(t, int64(3), v.Violations())
	assert.False(t, v.Skipped())
	assert.False(t, v.Errored())
	assert.Equal(t, "CheckValue", v.CheckType())
	assert.Equal(t, "3 rows violate", v.Message())
}

func TestVerdict_Accessors_AbsentKeysDefault(t *testing.T) {
	v := &Verdict{RuleID: "R-1", Details: map[string]any{}}
	assert.Equal(t, int64(0), v.Violations())
	assert.False(t, v.Skipped())
	assert.False(t, v.Errored())
	assert.Equal(t, "", v.CheckType())
	assert.Equal(t, "", v.Message())
}

func TestVerdict_Errored(t *testing.T) {
	v := &Verdict{RuleID: "R-1", Details: map[string]any{"error": "duckdb: connection refused"}}
	assert.True(t, v.Errored())
}

func TestAggregate_BuildsByRuleIDAndSkipsNil(t *testing.T) {
	rules := map[string]*catalog.Rule{"A": {RuleID: "A"}, "B": {RuleID: "B"}}
	verdicts := []*Verdict{
		{RuleID: "A", OK: true, Details: map[string]any{}},
		nil,
		{RuleID: "B", OK: false, Details: map[string]any{}},
	}

	vr := Aggregate(verdicts, rules)
	assert.Len(t, vr.ByIdx, 3)
	assert.Len(t, vr.ByRuleID, 2)
	assert.Same(t, rules["A"], vr.Rules["A"])
	assert.True(t, vr.ByRuleID["A"].OK)
	assert.False(t, vr.ByRuleID["B"].OK)
}

func TestSummarize_TalliesAllFourBuckets(t *testing.T) {
	verdicts := []*Verdict{
		{RuleID: "Pass", OK: true, Details: map[string]any{}},
		{RuleID: "Fail", OK: false, Details: map[string]any{}},
		{RuleID: "Skip", OK: true, Details: map[string]any{"skipped": true}},
		{RuleID: "Err", OK: false, Details: map[string]any{"error": "boom"}},
		nil,
	}
	vr := Aggregate(verdicts, map[string]*catalog.Rule{})
	summary := Summarize(vr)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Errored)
}

func TestSummarize_ErroredTakesPrecedenceOverSkipped(t *testing.T) {
	verdicts := []*Verdict{
		{RuleID: "Both", OK: false, Details: map[string]any{"skipped": true, "error": "boom"}},
	}
	vr := Aggregate(verdicts, map[string]*catalog.Rule{})
	summary := Summarize(vr)
	assert.Equal(t, 1, summary.Errored)
	assert.Equal(t, 0, summary.Skipped)
}
