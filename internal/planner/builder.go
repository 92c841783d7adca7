package planner

import (
	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/resolver"
)

// Builder expands a resolver result into a PlanGraph via memoized
// recursive node expansion, mirroring plan_builder.py's PlanBuilder.
type Builder struct {
	rules   map[string]*catalog.Rule
	graph   *PlanGraph
	visited map[string]bool
	visitng map[string]bool
}

// NewBuilder constructs a Builder over the resolver's working rule set.
func NewBuilder(result *resolver.Result) *Builder {
	return &Builder{
		rules:   result.Rules,
		graph:   NewPlanGraph(),
		visited: make(map[string]bool),
		visitng: make(map[string]bool),
	}
}

// Build expands every root (and transitively, every rule reachable via
// declared dependencies or composite items) into the plan graph. It is
// safe to call with roots that participate in a cycle: the in-flight
// marker prevents unbounded recursion, leaving cycle detection itself to
// the Scheduler.
func (b *Builder) Build(roots []string) *PlanGraph {
	for _, root := range roots {
		b.buildNode(root)
	}
	return b.graph
}

func (b *Builder) buildNode(ruleID string) {
	if b.visited[ruleID] || b.visitng[ruleID] {
		return
	}
	rule, ok := b.rules[ruleID]
	if !ok {
		return
	}
	b.visitng[ruleID] = true
	b.graph.EnsureNode(ruleID, rule)

	if rule.Requirement.Kind.IsComposite() {
		for _, item := range rule.Requirement.Items {
			if item.Kind != catalog.KindCheckConformanceRule {
				continue
			}
			childID := item.ConformanceRuleID
			b.buildNode(childID)
			b.graph.AddEdge(childID, ruleID, EdgeCtx{
				Kind: EdgeStructural,
				Note: "composite item of " + ruleID,
			})
		}
	}

	for _, dep := range rule.Dependencies {
		b.buildNode(dep)
		b.graph.AddEdge(dep, ruleID, EdgeCtx{
			Kind: EdgeDataDep,
			Note: ruleID + " depends on " + dep,
		})
	}

	if cond := rule.EffectiveCondition(); cond != nil {
		_ = cond // condition affects SQL compilation, not edge gating directly
	}

	if len(rule.ApplicabilityCriteria) > 0 {
		criteria := append([]string{}, rule.ApplicabilityCriteria...)
		b.graph.WrapInboundPredicate(ruleID, func(ctx *RuntimeContext) bool {
			for _, tag := range criteria {
				if ctx.Active(tag) {
					return true
				}
			}
			return false
		})
	}

	b.visitng[ruleID] = false
	b.visited[ruleID] = true
}
