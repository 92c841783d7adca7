package scheduler

import (
	"sort"

	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/engineerrors"
	"github.com/focusconform/validator/internal/planner"
)

// ExecNode is a single node of a compiled, execution-ready ValidationPlan:
// its index, its rule, and the indices/edge-contexts of its parents,
// aligned pairwise.
type ExecNode struct {
	Index         int
	RuleID        string
	Rule          *catalog.Rule
	ParentIndices []int
	ParentEdges   []planner.EdgeCtx
}

// ValidationPlan is the compiled, execution-ready view of a plan graph:
// a topologically ordered node list, a rule_id -> index map, and a
// layered schedule for optional per-layer parallel execution.
type ValidationPlan struct {
	Nodes     []ExecNode
	IDToIndex map[string]int
	Layers    [][]int
	Graph     *planner.PlanGraph
	Rules     map[string]*catalog.Rule

	// ResidualRuleIDs lists nodes that could not be placed by Kahn's
	// algorithm because they participate in an unresolved cycle. They
	// are still appended to Nodes/Layers (as a final, flagged layer) so
	// the executor can produce verdicts for the acyclic remainder and
	// surface these separately, per the diagnostic-plus-continue policy.
	ResidualRuleIDs []string
}

// Schedule runs Kahn's algorithm with deterministic tie-breaking over the
// plan graph, gating edges at runtime via ctx. If a residual set remains
// after the frontier drains, it returns a *engineerrors.PlanError
// alongside a ValidationPlan that still carries every node — the
// residual nodes appended as a final flagged layer — so the caller may
// choose to continue scheduling around the cycle rather than abort.
func Schedule(graph *planner.PlanGraph, rules map[string]*catalog.Rule, ctx *planner.RuntimeContext) (*ValidationPlan, error) {
	activeInDegree := make(map[string]int, len(graph.Nodes))
	activeChildren := make(map[string][]string, len(graph.Nodes))

	for id := range graph.Nodes {
		activeInDegree[id] = 0
	}
	for id, children := range graph.Children {
		childIDs := make([]string, 0, len(children))
		for childID := range children {
			childIDs = append(childIDs, childID)
		}
		sort.Strings(childIDs)
		for _, childID := range childIDs {
			ec, _ := graph.EdgeBetween(id, childID)
			if !ec.Active(ctx) {
				continue
			}
			activeChildren[id] = append(activeChildren[id], childID)
			activeInDegree[childID]++
		}
	}

	frontier := newOrderedFrontier()
	for id := range graph.Nodes {
		if activeInDegree[id] == 0 {
			frontier.push(id, defaultKey(id, rules[id]))
		}
	}

	var layers [][]string
	visited := make(map[string]bool, len(graph.Nodes))

	for !frontier.empty() {
		var layer []string
		var waveIDs []frontierSeed
		for !frontier.empty() {
			id := frontier.pop()
			layer = append(layer, id)
			visited[id] = true
		}
		for _, id := range layer {
			for _, childID := range activeChildren[id] {
				activeInDegree[childID]--
				if activeInDegree[childID] == 0 && !visited[childID] {
					waveIDs = append(waveIDs, frontierSeed{id: childID})
				}
			}
		}
		layers = append(layers, layer)
		for _, seed := range waveIDs {
			frontier.push(seed.id, defaultKey(seed.id, rules[seed.id]))
		}
	}

	var residual []string
	for id := range graph.Nodes {
		if !visited[id] {
			residual = append(residual, id)
		}
	}
	sort.Slice(residual, func(i, j int) bool {
		return less(defaultKey(residual[i], rules[residual[i]]), defaultKey(residual[j], rules[residual[j]]))
	})

	plan := &ValidationPlan{
		IDToIndex:       make(map[string]int),
		Graph:           graph,
		Rules:           rules,
		ResidualRuleIDs: residual,
	}

	order := make([]string, 0, len(graph.Nodes))
	layerIdx := make([][]string, 0, len(layers)+1)
	layerIdx = append(layerIdx, layers...)
	if len(residual) > 0 {
		layerIdx = append(layerIdx, residual)
	}
	for _, layer := range layerIdx {
		order = append(order, layer...)
	}

	for i, id := range order {
		plan.IDToIndex[id] = i
	}

	plan.Nodes = make([]ExecNode, len(order))
	for i, id := range order {
		node := graph.Nodes[id]
		en := ExecNode{Index: i, RuleID: id, Rule: rules[id]}
		if node != nil {
			for _, parentID := range node.Parents {
				pIdx, ok := plan.IDToIndex[parentID]
				if !ok {
					continue
				}
				en.ParentIndices = append(en.ParentIndices, pIdx)
				en.ParentEdges = append(en.ParentEdges, node.ParentEdges[parentID])
			}
		}
		plan.Nodes[i] = en
	}

	plan.Layers = make([][]int, len(layerIdx))
	for li, layer := range layerIdx {
		idxs := make([]int, len(layer))
		for j, id := range layer {
			idxs[j] = plan.IDToIndex[id]
		}
		plan.Layers[li] = idxs
	}

	if len(residual) > 0 {
		return plan, &engineerrors.PlanError{
			Cycle:   residual,
			Message: "unresolved cycle: nodes could not be topologically ordered",
		}
	}
	return plan, nil
}

type frontierSeed struct{ id string }
