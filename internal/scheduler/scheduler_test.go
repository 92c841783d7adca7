package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/engineerrors"
	"github.com/focusconform/validator/internal/planner"
)

func rule(id string, entityType catalog.EntityType) *catalog.Rule {
	return &catalog.Rule{RuleID: id, EntityType: entityType}
}

func allActive() *planner.RuntimeContext {
	return &planner.RuntimeContext{ActiveTags: map[string]bool{"ALL": true}}
}

// TestSchedule_TopologicalOrder covers invariant 2: for every directed
// edge p -> c, p must precede c in the resulting node order.
func TestSchedule_TopologicalOrder(t *testing.T) {
	graph := planner.NewPlanGraph()
	graph.AddEdge("A", "B", planner.EdgeCtx{Kind: planner.EdgeDataDep})
	graph.AddEdge("B", "C", planner.EdgeCtx{Kind: planner.EdgeDataDep})

	rules := map[string]*catalog.Rule{
		"A": rule("A", catalog.EntityColumn),
		"B": rule("B", catalog.EntityColumn),
		"C": rule("C", catalog.EntityColumn),
	}

	plan, err := Schedule(graph, rules, allActive())
	require.NoError(t, err)

	require.Len(t, plan.Nodes, 3)
	assert.Less(t, plan.IDToIndex["A"], plan.IDToIndex["B"])
	assert.Less(t, plan.IDToIndex["B"], plan.IDToIndex["C"])
}

// TestSchedule_TieBreakDeterministic covers invariant 3: two runs over the
// same plan produce identical ordering.
func TestSchedule_TieBreakDeterministic(t *testing.T) {
	graph := planner.NewPlanGraph()
	graph.EnsureNode("Zebra-C-010-M", rule("Zebra-C-010-M", catalog.EntityColumn))
	graph.EnsureNode("Alpha-D-000-M", rule("Alpha-D-000-M", catalog.EntityDataset))
	graph.EnsureNode("Mid-A-005-M", rule("Mid-A-005-M", catalog.EntityAttribute))

	rules := map[string]*catalog.Rule{
		"Zebra-C-010-M": rule("Zebra-C-010-M", catalog.EntityColumn),
		"Alpha-D-000-M": rule("Alpha-D-000-M", catalog.EntityDataset),
		"Mid-A-005-M":   rule("Mid-A-005-M", catalog.EntityAttribute),
	}

	first, err := Schedule(graph, rules, allActive())
	require.NoError(t, err)
	second, err := Schedule(graph, rules, allActive())
	require.NoError(t, err)

	firstOrder := make([]string, len(first.Nodes))
	for i, n := range first.Nodes {
		firstOrder[i] = n.RuleID
	}
	secondOrder := make([]string, len(second.Nodes))
	for i, n := range second.Nodes {
		secondOrder[i] = n.RuleID
	}
	assert.Equal(t, firstOrder, secondOrder)

	// The "000" sequence is zero-boosted ahead of non-"000" sequences,
	// and Dataset < Column < Attribute entity ordinals break remaining ties.
	assert.Equal(t, "Alpha-D-000-M", firstOrder[0])
}

func TestSchedule_ApplicabilityPredicateGatesInDegree(t *testing.T) {
	graph := planner.NewPlanGraph()
	graph.AddEdge("A", "B", planner.EdgeCtx{
		Kind:      planner.EdgeApplicability,
		Predicate: func(ctx *planner.RuntimeContext) bool { return ctx.Active("US") },
	})
	rules := map[string]*catalog.Rule{
		"A": rule("A", catalog.EntityColumn),
		"B": rule("B", catalog.EntityColumn),
	}

	ctx := &planner.RuntimeContext{ActiveTags: map[string]bool{"EU": true}}
	plan, err := Schedule(graph, rules, ctx)
	require.NoError(t, err)

	// With the gating predicate inactive, B's in-degree never depends on
	// A, so both nodes land in the same (first) layer.
	assert.Equal(t, 1, len(plan.Layers))
	assert.Len(t, plan.Layers[0], 2)
}

// TestSchedule_CycleReturnsPlanErrorWithUsablePlan covers the boundary
// behavior: cycle members are appended as a final flagged layer so the
// executor can still produce verdicts for the acyclic remainder.
func TestSchedule_CycleReturnsPlanErrorWithUsablePlan(t *testing.T) {
	graph := planner.NewPlanGraph()
	graph.AddEdge("Root", "A", planner.EdgeCtx{Kind: planner.EdgeDataDep})
	graph.AddEdge("A", "B", planner.EdgeCtx{Kind: planner.EdgeDataDep})
	graph.AddEdge("B", "A", planner.EdgeCtx{Kind: planner.EdgeDataDep})

	rules := map[string]*catalog.Rule{
		"Root": rule("Root", catalog.EntityColumn),
		"A":    rule("A", catalog.EntityColumn),
		"B":    rule("B", catalog.EntityColumn),
	}

	plan, err := Schedule(graph, rules, allActive())
	require.Error(t, err)
	assert.True(t, engineerrors.IsPlanError(err))

	// The acyclic remainder (Root) is still scheduled.
	require.Len(t, plan.Nodes, 3)
	assert.Contains(t, plan.IDToIndex, "Root")
	assert.ElementsMatch(t, []string{"A", "B"}, plan.ResidualRuleIDs)

	// Residual nodes form the final layer.
	lastLayer := plan.Layers[len(plan.Layers)-1]
	var lastLayerIDs []string
	for _, idx := range lastLayer {
		lastLayerIDs = append(lastLayerIDs, plan.Nodes[idx].RuleID)
	}
	assert.ElementsMatch(t, []string{"A", "B"}, lastLayerIDs)
}

func TestSchedule_NoNodes(t *testing.T) {
	graph := planner.NewPlanGraph()
	plan, err := Schedule(graph, map[string]*catalog.Rule{}, allActive())
	require.NoError(t, err)
	assert.Empty(t, plan.Nodes)
	assert.Empty(t, plan.Layers)
}

func TestExtractSequence(t *testing.T) {
	tests := []struct {
		ruleID  string
		wantSeq string
		wantNum int
		wantOK  bool
	}{
		{"BilledCost-C-001-M", "001", 1, true},
		{"BilledCost-D-000-M", "000", 0, true},
		{"NoSequenceHere", "", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.ruleID, func(t *testing.T) {
			seq, num, ok := extractSequence(tt.ruleID)
			assert.Equal(t, tt.wantSeq, seq)
			assert.Equal(t, tt.wantNum, num)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
