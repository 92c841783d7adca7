// Package resolver computes the transitive closure of rules relevant to a
// target dataset and an optional rule_id prefix, propagates inherited
// preconditions from composite rules to their referenced children, and
// builds the dependency graph the Plan Builder expands. It is grounded on
// the original implementation's rule_dependency_resolver.py: breadth-first
// collection, Tarjan SCC diagnostics, and a sample simple-cycle trace.
package resolver

import (
	"sort"

	"go.uber.org/zap"

	"github.com/focusconform/validator/internal/catalog"
)

const zeroPrereqSampleSize = 5

// Graph is the dependency graph produced by Resolve: rule_id → set of
// dependency rule_ids, restricted to the working set, plus the derived
// in-degree and reverse-adjacency views the Scheduler needs.
type Graph struct {
	Nodes      []string            // deterministic (sorted) node order
	Deps       map[string][]string // rule_id -> dependency rule_ids (sorted)
	InDegree   map[string]int
	ReverseAdj map[string][]string // rule_id -> rule_ids that depend on it
}

// Cycle is a strongly-connected component of size > 1, reported with one
// example simple-cycle path through its members.
type Cycle struct {
	Members []string
	Example []string
}

// Diagnostics carries the resolver's required diagnostic output (spec
// §4.2): structural counts, a sample of zero-prerequisite nodes, and any
// strongly-connected components of size greater than one.
type Diagnostics struct {
	NodeCount        int
	EdgeCount        int
	ZeroPrereqSample []string
	Cycles           []Cycle
}

// Result is the resolver's output: the working rule set (by rule_id,
// already precondition-propagated), the dependency graph, and
// diagnostics.
type Result struct {
	Rules       map[string]*catalog.Rule
	Graph       *Graph
	Diagnostics Diagnostics
}

// Resolve runs the four resolver responsibilities in order: collection,
// precondition propagation, prefix filtering, and graph construction.
// rawRules is the full rule mapping (accepted independently of Catalog so
// callers may resolve against a filtered or synthesized view); logger
// receives a line for every dataset-declared rule_id absent from
// rawRules, per spec §4.2 step 1.
func Resolve(rawRules map[string]*catalog.Rule, datasetRuleIDs []string, prefix string, logger *zap.SugaredLogger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	collected := collect(rawRules, datasetRuleIDs, logger)

	if err := propagatePreconditions(collected); err != nil {
		return nil, err
	}

	working := collected
	if prefix != "" {
		working = filterByPrefix(collected, prefix)
	}

	graph := buildGraph(working)
	diag := diagnose(graph)

	return &Result{Rules: working, Graph: graph, Diagnostics: diag}, nil
}

// collect performs the breadth-first walk over dependencies starting from
// the dataset's declared rule list, retaining every reachable rule
// regardless of applicability.
func collect(rawRules map[string]*catalog.Rule, datasetRuleIDs []string, logger *zap.SugaredLogger) map[string]*catalog.Rule {
	result := make(map[string]*catalog.Rule)
	queue := append([]string{}, datasetRuleIDs...)
	seen := make(map[string]bool)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true

		rule, ok := rawRules[id]
		if !ok {
			logger.Warnw("resolver: rule named but not present in raw mapping, ignoring", "rule_id", id)
			continue
		}
		result[id] = rule
		queue = append(queue, rule.Dependencies...)
		queue = append(queue, compositeChildIDs(rule)...)
	}
	return result
}

// compositeChildIDs returns the rule_ids a Composite rule's
// CheckConformanceRule items reference, so the collection walk also
// follows structural (not just data_dep) edges.
func compositeChildIDs(rule *catalog.Rule) []string {
	if !rule.Requirement.Kind.IsComposite() {
		return nil
	}
	var ids []string
	for _, item := range rule.Requirement.Items {
		if item.Kind == catalog.KindCheckConformanceRule {
			ids = append(ids, item.ConformanceRuleID)
		}
	}
	return ids
}

// propagatePreconditions implements spec §4.2 step 2: for every composite
// rule with a non-empty condition, set each CheckConformanceRule child's
// inherited_precondition to that condition.
func propagatePreconditions(rules map[string]*catalog.Rule) error {
	ids := sortedKeys(rules)
	for _, id := range ids {
		rule := rules[id]
		if !rule.Requirement.Kind.IsComposite() || rule.Condition == nil {
			continue
		}
		for _, item := range rule.Requirement.Items {
			if item.Kind != catalog.KindCheckConformanceRule {
				continue
			}
			child, ok := rules[item.ConformanceRuleID]
			if !ok {
				continue
			}
			if err := child.SetInheritedPrecondition(*rule.Condition); err != nil {
				return err
			}
		}
	}
	return nil
}

// filterByPrefix restricts the working set to rules whose rule_id starts
// with prefix, plus the transitive closure of their dependencies within
// the already-collected set.
func filterByPrefix(collected map[string]*catalog.Rule, prefix string) map[string]*catalog.Rule {
	working := make(map[string]*catalog.Rule)
	var queue []string
	for id := range collected {
		if hasPrefix(id, prefix) {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := working[id]; ok {
			continue
		}
		rule, ok := collected[id]
		if !ok {
			continue
		}
		working[id] = rule
		queue = append(queue, rule.Dependencies...)
		queue = append(queue, compositeChildIDs(rule)...)
	}
	return working
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// buildGraph emits the dependency graph restricted to the working set:
// rule_id -> dependency rule_ids (both declared Dependencies and
// structural composite-item references), plus in-degree and reverse
// adjacency.
func buildGraph(working map[string]*catalog.Rule) *Graph {
	g := &Graph{
		Nodes:      sortedKeys(working),
		Deps:       make(map[string][]string, len(working)),
		InDegree:   make(map[string]int, len(working)),
		ReverseAdj: make(map[string][]string, len(working)),
	}

	for _, id := range g.Nodes {
		g.InDegree[id] = 0
	}

	for _, id := range g.Nodes {
		rule := working[id]
		depSet := make(map[string]bool)
		for _, dep := range rule.Dependencies {
			if _, ok := working[dep]; ok {
				depSet[dep] = true
			}
		}
		for _, dep := range compositeChildIDs(rule) {
			if _, ok := working[dep]; ok {
				depSet[dep] = true
			}
		}
		deps := make([]string, 0, len(depSet))
		for d := range depSet {
			deps = append(deps, d)
		}
		sort.Strings(deps)
		g.Deps[id] = deps

		for _, dep := range deps {
			g.InDegree[id]++
			g.ReverseAdj[dep] = append(g.ReverseAdj[dep], id)
		}
	}
	for _, id := range g.Nodes {
		sort.Strings(g.ReverseAdj[id])
	}

	return g
}

func diagnose(g *Graph) Diagnostics {
	edgeCount := 0
	for _, deps := range g.Deps {
		edgeCount += len(deps)
	}

	var zeroPrereq []string
	for _, id := range g.Nodes {
		if g.InDegree[id] == 0 {
			zeroPrereq = append(zeroPrereq, id)
		}
	}
	if len(zeroPrereq) > zeroPrereqSampleSize {
		zeroPrereq = zeroPrereq[:zeroPrereqSampleSize]
	}

	sccs := tarjanSCC(g)
	var cycles []Cycle
	for _, scc := range sccs {
		if len(scc) <= 1 {
			continue
		}
		cycles = append(cycles, Cycle{
			Members: scc,
			Example: findSimpleCycle(g, scc),
		})
	}

	return Diagnostics{
		NodeCount:        len(g.Nodes),
		EdgeCount:        edgeCount,
		ZeroPrereqSample: zeroPrereq,
		Cycles:           cycles,
	}
}

func sortedKeys(m map[string]*catalog.Rule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
