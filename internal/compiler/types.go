// Package compiler turns a catalog rule into an executable check: either a
// full SQL query returning a violation count ("requirement mode") or a
// boolean SQL predicate suitable for a WHERE clause ("condition mode").
// It is grounded on the original implementation's
// focus_to_duckdb_converter.py, one generator class per CheckFunction.
package compiler

import "github.com/focusconform/validator/internal/catalog"

// Mode distinguishes the two ways a compiled check can run.
type Mode string

const (
	ModeRequirement Mode = "requirement"
	ModeCondition   Mode = "condition"
	ModeComposite   Mode = "composite"
	ModeSchemaProbe Mode = "schema_probe"
	ModeSkipped     Mode = "skipped"
)

// CompiledCheck is the Check Compiler's output for one rule.
type CompiledCheck struct {
	Mode Mode

	// SQL is populated for ModeRequirement (a full query with the
	// {table_name} placeholder) and ModeCondition (a bare predicate
	// fragment).
	SQL string

	CheckType string

	// Column is set for ModeSchemaProbe (ColumnPresent checks).
	Column string

	// CompositeKind and CompositeItems are set for ModeComposite.
	CompositeKind   catalog.Kind
	CompositeItems  []catalog.Requirement

	Skipped    bool
	SkipReason string
}
