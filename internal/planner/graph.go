// Package planner expands composite rules and explicit dependencies into
// a plan graph, grounded on the original implementation's
// plan_builder.py (PlanNode/PlanGraph/PlanBuilder).
package planner

import (
	"sort"

	"github.com/focusconform/validator/internal/catalog"
)

// EdgeKind names the reason an edge exists in the plan graph.
type EdgeKind string

const (
	EdgeStructural    EdgeKind = "structural"
	EdgeDataDep       EdgeKind = "data_dep"
	EdgeApplicability EdgeKind = "applicability"
	EdgeOrdering      EdgeKind = "ordering"
)

// RuntimeContext is the runtime information an edge's gating predicate may
// consult: the set of applicability tags active for this run.
type RuntimeContext struct {
	ActiveTags map[string]bool
}

// Active reports whether tag is active, honoring the distinguished tag
// "ALL" which expands to every known tag.
func (c *RuntimeContext) Active(tag string) bool {
	if c == nil {
		return true
	}
	if c.ActiveTags["ALL"] {
		return true
	}
	return c.ActiveTags[tag]
}

// Predicate gates whether an edge counts toward its child's in-degree
// during scheduling. A nil predicate means the edge is always active.
type Predicate func(ctx *RuntimeContext) bool

// EdgeCtx is the immutable tuple attached to a plan-graph edge.
type EdgeCtx struct {
	Kind      EdgeKind
	Note      string
	Predicate Predicate
}

// Active evaluates the edge's predicate, defaulting to true when absent.
func (e EdgeCtx) Active(ctx *RuntimeContext) bool {
	if e.Predicate == nil {
		return true
	}
	return e.Predicate(ctx)
}

// PlanNode is a single rule's position in the plan graph: the rule it
// wraps, its parents in insertion-deterministic order, and the edge
// context for each parent.
type PlanNode struct {
	RuleID      string
	Rule        *catalog.Rule
	Parents     []string
	ParentEdges map[string]EdgeCtx
}

type edgeKey struct {
	parent string
	child  string
}

// PlanGraph is the directed graph the Scheduler consumes: nodes, forward
// and reverse adjacency, and the per-edge context. Self-edges are
// silently dropped on add; adding an edge between the same pair again
// overwrites the prior edge context.
type PlanGraph struct {
	Nodes    map[string]*PlanNode
	Children map[string]map[string]bool
	Parents  map[string]map[string]bool
	Edges    map[edgeKey]EdgeCtx
}

// NewPlanGraph returns an empty plan graph.
func NewPlanGraph() *PlanGraph {
	return &PlanGraph{
		Nodes:    make(map[string]*PlanNode),
		Children: make(map[string]map[string]bool),
		Parents:  make(map[string]map[string]bool),
		Edges:    make(map[edgeKey]EdgeCtx),
	}
}

// EnsureNode returns the node for ruleID, creating it (without parents)
// if absent.
func (g *PlanGraph) EnsureNode(ruleID string, rule *catalog.Rule) *PlanNode {
	n, ok := g.Nodes[ruleID]
	if !ok {
		n = &PlanNode{RuleID: ruleID, Rule: rule, ParentEdges: make(map[string]EdgeCtx)}
		g.Nodes[ruleID] = n
		g.Children[ruleID] = make(map[string]bool)
		g.Parents[ruleID] = make(map[string]bool)
	}
	return n
}

// AddEdge adds a parent -> child edge. Self-edges are silently dropped.
// Adding an edge between the same pair again overwrites the existing
// edge context; the parent-order list is updated in place rather than
// duplicated.
func (g *PlanGraph) AddEdge(parent, child string, ctx EdgeCtx) {
	if parent == child {
		return
	}
	g.EnsureNode(parent, nil)
	childNode := g.EnsureNode(child, nil)

	key := edgeKey{parent: parent, child: child}
	_, existed := g.Edges[key]
	g.Edges[key] = ctx

	g.Children[parent][child] = true
	g.Parents[child][parent] = true

	if !existed {
		childNode.Parents = append(childNode.Parents, parent)
	}
	childNode.ParentEdges[parent] = ctx
}

// WrapInboundPredicate rewrites every edge whose child is ruleID by
// composing its existing predicate (if any) with an additional gate,
// per Plan Builder's condition-gating of inbound edges for rules with
// non-empty applicability criteria.
func (g *PlanGraph) WrapInboundPredicate(ruleID string, gate Predicate) {
	node, ok := g.Nodes[ruleID]
	if !ok {
		return
	}
	for _, parent := range node.Parents {
		key := edgeKey{parent: parent, child: ruleID}
		ctx := g.Edges[key]
		ctx.Predicate = composePredicate(ctx.Predicate, gate)
		g.Edges[key] = ctx
		node.ParentEdges[parent] = ctx
	}
}

func composePredicate(existing, additional Predicate) Predicate {
	if existing == nil {
		return additional
	}
	if additional == nil {
		return existing
	}
	return func(ctx *RuntimeContext) bool {
		return existing(ctx) && additional(ctx)
	}
}

// EdgeBetween returns the edge context for parent -> child, if present.
func (g *PlanGraph) EdgeBetween(parent, child string) (EdgeCtx, bool) {
	ctx, ok := g.Edges[edgeKey{parent: parent, child: child}]
	return ctx, ok
}

// SortedNodeIDs returns the graph's node IDs in a stable, sorted order.
func (g *PlanGraph) SortedNodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
