// Package schemaprobe extracts the declared logical type for each column
// named by a catalog's Type* rules, for external loaders to coerce input
// data (spec §4.8, §6), and surfaces column-existence information back
// to the engine via the SQL Engine Adapter. Grounded on the original
// implementation's per-column type table derived from the same Type rule
// family (dimension_configurations.py).
package schemaprobe

import (
	"context"
	"sort"

	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/sqlengine"
)

// LogicalType is the coercion target a loader should use for a column.
type LogicalType string

const (
	TypeString      LogicalType = "string"
	TypeFloat64     LogicalType = "float64"
	TypeInt64       LogicalType = "int64"
	TypeDateTimeUTC LogicalType = "datetime-utc"
)

// Probe is the column -> logical-type map for one dataset's working rule
// set, plus a connection for live column-existence probing.
type Probe struct {
	ColumnTypes map[string]LogicalType
	conn        *sqlengine.Conn
}

// Build scans rules for TypeString, TypeDecimal, and TypeDateTime
// requirements (including ones nested in an AND/OR composite's items,
// since a composite may itself assert a type alongside other checks) and
// derives the column -> logical-type map external loaders consume.
func Build(rules map[string]*catalog.Rule, conn *sqlengine.Conn) *Probe {
	p := &Probe{ColumnTypes: make(map[string]LogicalType), conn: conn}
	for _, rule := range rules {
		scanRequirement(rule.Requirement, p.ColumnTypes)
	}
	return p
}

func scanRequirement(req catalog.Requirement, out map[string]LogicalType) {
	switch req.Kind {
	case catalog.KindTypeString:
		out[req.ColumnName] = TypeString
	case catalog.KindTypeDecimal:
		out[req.ColumnName] = TypeFloat64
	case catalog.KindTypeDateTime:
		out[req.ColumnName] = TypeDateTimeUTC
	}
	for _, item := range req.Items {
		scanRequirement(item, out)
	}
}

// Columns returns the probed column names in sorted order, for stable
// reporter output.
func (p *Probe) Columns() []string {
	cols := make([]string, 0, len(p.ColumnTypes))
	for c := range p.ColumnTypes {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// ColumnExists surfaces live column-existence information back to the
// engine for ColumnPresent checks, delegating to the SQL Engine Adapter's
// information_schema probe.
func (p *Probe) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	return p.conn.ColumnExists(ctx, table, column)
}
