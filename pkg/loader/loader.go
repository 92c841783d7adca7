// Package loader ingests a CSV or Parquet file into the SQL engine ahead
// of a validation run. It is an external collaborator per spec §1: the
// core never imports it and never parses raw files itself. Coercion is
// the loader's concern; it consults the Schema Probe's column -> logical
// type map but does not attempt heuristic delimiter detection or
// "fix" malformed data.
package loader

import (
	"context"

	"github.com/focusconform/validator/internal/schemaprobe"
	"github.com/focusconform/validator/internal/sqlengine"
)

// TableLoader registers a file's contents as a named table in the SQL
// engine.
type TableLoader interface {
	Load(ctx context.Context, conn *sqlengine.Conn, path, tableName string, columnTypes map[string]schemaprobe.LogicalType) error
}

// duckDBType maps a schema-probe logical type to the DuckDB column type
// used in explicit read_csv/read_parquet type hints.
func duckDBType(t schemaprobe.LogicalType) string {
	switch t {
	case schemaprobe.TypeFloat64:
		return "DOUBLE"
	case schemaprobe.TypeInt64:
		return "BIGINT"
	case schemaprobe.TypeDateTimeUTC:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}
