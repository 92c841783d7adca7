// Package engineerrors defines the error taxonomy the rule engine raises.
// Each kind is a distinct struct type rather than a sentinel so callers can
// carry structured context (rule IDs, cycle members) through to reporters.
package engineerrors

import (
	"fmt"
	"strings"
)

// CatalogError indicates a structural problem in the rule catalog
// document: an unknown dataset, a missing referenced rule, or an
// unrecognized requirement tag. CatalogError aborts the run.
type CatalogError struct {
	RuleID  string
	Message string
}

func (e *CatalogError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("catalog error for rule %s: %s", e.RuleID, e.Message)
	}
	return fmt.Sprintf("catalog error: %s", e.Message)
}

// IsCatalogError returns true if err is a *CatalogError.
func IsCatalogError(err error) bool {
	_, ok := err.(*CatalogError)
	return ok
}

// PlanError indicates a cycle that Kahn's algorithm could not order, or
// a plan invariant violation such as setting inherited_precondition
// twice. A double-set during resolution aborts the run; a cycle reported
// by scheduler.Schedule comes with a usable plan, and pipeline.Run logs
// it and continues.
type PlanError struct {
	Cycle   []string
	Message string
}

func (e *PlanError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("plan error: %s [%s]", e.Message, strings.Join(e.Cycle, " -> "))
	}
	return fmt.Sprintf("plan error: %s", e.Message)
}

// IsPlanError returns true if err is a *PlanError.
func IsPlanError(err error) bool {
	_, ok := err.(*PlanError)
	return ok
}

// CheckCompileError indicates a specific rule could not be compiled:
// an unknown CheckFunction, an unsupported condition kind, or a missing
// required parameter. It localizes to the offending rule's verdict and
// never aborts the run.
type CheckCompileError struct {
	RuleID  string
	Reason  string
	Message string
}

func (e *CheckCompileError) Error() string {
	return fmt.Sprintf("check compile error for rule %s (%s): %s", e.RuleID, e.Reason, e.Message)
}

// IsCheckCompileError returns true if err is a *CheckCompileError.
func IsCheckCompileError(err error) bool {
	_, ok := err.(*CheckCompileError)
	return ok
}

// CheckRuntimeError indicates SQL execution or schema probing failed
// for a rule. It localizes to the offending rule's verdict and never
// aborts the run.
type CheckRuntimeError struct {
	RuleID  string
	Message string
}

func (e *CheckRuntimeError) Error() string {
	return fmt.Sprintf("check runtime error for rule %s: %s", e.RuleID, e.Message)
}

// IsCheckRuntimeError returns true if err is a *CheckRuntimeError.
func IsCheckRuntimeError(err error) bool {
	_, ok := err.(*CheckRuntimeError)
	return ok
}

// IntegrityError indicates the SQL engine returned a value for a
// requirement-mode check's "violations" column that was not a
// non-negative integer. This signals a compiler bug and aborts the run.
type IntegrityError struct {
	RuleID  string
	Message string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error for rule %s: %s", e.RuleID, e.Message)
}

// IsIntegrityError returns true if err is an *IntegrityError.
func IsIntegrityError(err error) bool {
	_, ok := err.(*IntegrityError)
	return ok
}
