package compiler

import (
	"fmt"

	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/engineerrors"
)

// conditionSupportedKinds lists the requirement kinds that can be
// inverted into a row-level predicate, per spec §4.5's condition-mode
// restriction.
var conditionSupportedKinds = map[catalog.Kind]bool{
	catalog.KindCheckValue:                   true,
	catalog.KindCheckNotValue:                true,
	catalog.KindCheckSameValue:               true,
	catalog.KindCheckNotSameValue:            true,
	catalog.KindCheckGreaterOrEqualThanValue: true,
}

// Compile dispatches rule to its check-kind compiler and applies
// permission gating, applicability gating, and condition wrapping, in
// that order, per spec §4.5.
func Compile(rule *catalog.Rule, activeTags map[string]bool) (*CompiledCheck, error) {
	if rule.Keyword.IsPermissive() {
		return &CompiledCheck{
			Mode:       ModeSkipped,
			Skipped:    true,
			SkipReason: fmt.Sprintf("Rule skipped - keyword %s is MAY/OPTIONAL", rule.Keyword),
			CheckType:  string(rule.Requirement.Kind),
		}, nil
	}

	if len(rule.ApplicabilityCriteria) > 0 && !anyTagActive(rule.ApplicabilityCriteria, activeTags) {
		return &CompiledCheck{
			Mode:       ModeSkipped,
			Skipped:    true,
			SkipReason: "Rule skipped - not applicable to current dataset or configuration",
			CheckType:  string(rule.Requirement.Kind),
		}, nil
	}

	kind := rule.Requirement.Kind

	if kind.IsComposite() {
		return &CompiledCheck{
			Mode:           ModeComposite,
			CheckType:      "composite_" + string(kind),
			CompositeKind:  kind,
			CompositeItems: rule.Requirement.Items,
		}, nil
	}

	if kind == catalog.KindCheckConformanceRule {
		return &CompiledCheck{
			Mode:           ModeComposite,
			CheckType:      "conformance_rule_reference",
			CompositeKind:  kind,
			CompositeItems: []catalog.Requirement{rule.Requirement},
		}, nil
	}

	if kind == catalog.KindColumnPresent {
		return &CompiledCheck{
			Mode:      ModeSchemaProbe,
			CheckType: "column_presence",
			Column:    rule.Requirement.ColumnName,
		}, nil
	}

	if kind == catalog.KindCheckDistinctCount {
		condPredicate := ""
		if cond := rule.EffectiveCondition(); cond != nil {
			sql, supported, err := compileConditionMode(*cond)
			if err != nil {
				return nil, &engineerrors.CheckCompileError{RuleID: rule.RuleID, Reason: "condition_unsupported", Message: err.Error()}
			}
			if !supported {
				return nil, &engineerrors.CheckCompileError{
					RuleID:  rule.RuleID,
					Reason:  "condition_unsupported",
					Message: fmt.Sprintf("condition kind %q does not support condition mode", cond.Kind),
				}
			}
			condPredicate = sql
		}
		sql, err := compileDistinctCountSQL(rule.Requirement, condPredicate)
		if err != nil {
			return nil, &engineerrors.CheckCompileError{RuleID: rule.RuleID, Reason: "bad_parameters", Message: err.Error()}
		}
		return &CompiledCheck{
			Mode:      ModeRequirement,
			SQL:       sql,
			CheckType: string(kind),
		}, nil
	}

	fn, ok := predicateTable[kind]
	if !ok {
		return nil, &engineerrors.CheckCompileError{
			RuleID: rule.RuleID,
			Reason: "unknown_check_function",
			Message: fmt.Sprintf("no compiler registered for CheckFunction %q", kind),
		}
	}

	result, err := fn(rule.Requirement)
	if err != nil {
		return nil, &engineerrors.CheckCompileError{RuleID: rule.RuleID, Reason: "bad_parameters", Message: err.Error()}
	}

	violation := result.Requirement
	check := &CompiledCheck{
		Mode:      ModeRequirement,
		CheckType: string(kind),
	}

	cond := rule.EffectiveCondition()
	if cond != nil {
		condResult, condSupported, err := compileConditionMode(*cond)
		if err != nil {
			return nil, &engineerrors.CheckCompileError{RuleID: rule.RuleID, Reason: "condition_unsupported", Message: err.Error()}
		}
		if !condSupported {
			return nil, &engineerrors.CheckCompileError{
				RuleID:  rule.RuleID,
				Reason:  "condition_unsupported",
				Message: fmt.Sprintf("condition kind %q does not support condition mode", cond.Kind),
			}
		}
		violation = fmt.Sprintf("(%s) AND (%s)", condResult, violation)
	}

	check.SQL = requirementSkeleton(violation)
	return check, nil
}

// CompileCondition compiles req in condition mode, for use by callers
// (e.g. the Executor resolving an inherited precondition independently
// of a full rule). It returns engineerrors.CheckCompileError when the
// kind does not support condition mode.
func CompileCondition(req catalog.Requirement) (string, error) {
	sql, supported, err := compileConditionMode(req)
	if err != nil {
		return "", err
	}
	if !supported {
		return "", &engineerrors.CheckCompileError{Reason: "condition_unsupported", Message: fmt.Sprintf("condition kind %q does not support condition mode", req.Kind)}
	}
	return sql, nil
}

func compileConditionMode(req catalog.Requirement) (string, bool, error) {
	if !conditionSupportedKinds[req.Kind] {
		return "", false, nil
	}
	fn, ok := predicateTable[req.Kind]
	if !ok {
		return "", false, nil
	}
	result, err := fn(req)
	if err != nil {
		return "", false, err
	}
	if !result.ConditionSupported {
		return "", false, nil
	}
	return result.Condition, true, nil
}

func requirementSkeleton(violationPredicate string) string {
	return fmt.Sprintf(
		"WITH invalid AS (SELECT 1 FROM {table_name} WHERE %s)\nSELECT COUNT(*) AS violations FROM invalid",
		violationPredicate,
	)
}

func compileDistinctCountSQL(req catalog.Requirement, condPredicate string) (string, error) {
	if req.ColumnAName == "" || req.ColumnBName == "" {
		return "", fmt.Errorf("CheckDistinctCount requires ColumnAName and ColumnBName")
	}
	where := ""
	if condPredicate != "" {
		where = fmt.Sprintf(" WHERE %s", condPredicate)
	}
	return fmt.Sprintf(
		"WITH grouped AS (SELECT %s FROM {table_name}%s GROUP BY %s HAVING COUNT(DISTINCT %s) <> %d)\nSELECT COUNT(*) AS violations FROM grouped",
		req.ColumnAName, where, req.ColumnAName, req.ColumnBName, req.ExpectedCount,
	), nil
}

func anyTagActive(criteria []string, activeTags map[string]bool) bool {
	if activeTags["ALL"] {
		return true
	}
	for _, tag := range criteria {
		if activeTags[tag] {
			return true
		}
	}
	return false
}
