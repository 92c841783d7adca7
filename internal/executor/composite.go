package executor

import (
	"strings"

	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/compiler"
	"github.com/focusconform/validator/internal/results"
	"github.com/focusconform/validator/internal/scheduler"
)

// evaluateComposite reduces an AND/OR rule over its already-computed
// child verdicts. AND passes iff every referenced child is PASSED or
// SKIPPED; OR passes iff at least one referenced child is PASSED
// (testable properties 8 and 9). A CheckConformanceRule "rule" (one not
// nested in a composite, referencing a single other rule directly) is
// evaluated as a straight pass-through of that rule's verdict.
func (e *Executor) evaluateComposite(rule *catalog.Rule, check *compiler.CompiledCheck, plan *scheduler.ValidationPlan, verdicts []*results.Verdict) *results.Verdict {
	if check.CompositeKind == catalog.KindCheckConformanceRule {
		return evaluateConformanceReference(rule, check.CompositeItems[0], plan, verdicts)
	}

	var determining []string
	ok := check.CompositeKind == catalog.KindAnd

	for _, item := range check.CompositeItems {
		if item.Kind != catalog.KindCheckConformanceRule {
			continue
		}
		childVerdict := lookupVerdict(item.ConformanceRuleID, plan, verdicts)
		passed := childVerdict != nil && childVerdict.OK && !childVerdict.Skipped()
		skipped := childVerdict != nil && childVerdict.Skipped()

		switch check.CompositeKind {
		case catalog.KindAnd:
			if !(passed || skipped) {
				ok = false
				determining = append(determining, item.ConformanceRuleID)
			}
		case catalog.KindOr:
			if passed {
				ok = true
				determining = append(determining, item.ConformanceRuleID)
			}
		}
	}

	if len(determining) == 0 {
		determining = compositeChildRuleIDs(check.CompositeItems)
	}

	return &results.Verdict{
		OK:     ok,
		RuleID: rule.RuleID,
		Details: map[string]any{
			"skipped":    false,
			"check_type": check.CheckType,
			"message":    compositeMessage(check.CompositeKind, determining),
		},
	}
}

func evaluateConformanceReference(rule *catalog.Rule, item catalog.Requirement, plan *scheduler.ValidationPlan, verdicts []*results.Verdict) *results.Verdict {
	child := lookupVerdict(item.ConformanceRuleID, plan, verdicts)
	ok := child != nil && child.OK
	return &results.Verdict{
		OK:     ok,
		RuleID: rule.RuleID,
		Details: map[string]any{
			"skipped":    false,
			"check_type": "conformance_rule_reference",
			"message":    "references " + item.ConformanceRuleID,
		},
	}
}

func lookupVerdict(ruleID string, plan *scheduler.ValidationPlan, verdicts []*results.Verdict) *results.Verdict {
	idx, ok := plan.IDToIndex[ruleID]
	if !ok || idx >= len(verdicts) {
		return nil
	}
	return verdicts[idx]
}

func compositeChildRuleIDs(items []catalog.Requirement) []string {
	var ids []string
	for _, item := range items {
		if item.Kind == catalog.KindCheckConformanceRule {
			ids = append(ids, item.ConformanceRuleID)
		}
	}
	return ids
}

func compositeMessage(kind catalog.Kind, determining []string) string {
	return string(kind) + " determined by: " + strings.Join(determining, ", ")
}
