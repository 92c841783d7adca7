package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/focusconform/validator/internal/schemaprobe"
	"github.com/focusconform/validator/internal/sqlengine"
)

// CSVLoader ingests an RFC 4180 CSV file via DuckDB's native
// read_csv_auto. No delimiter sniffing is performed (spec §1 Non-goal):
// the delimiter is fixed to a comma and the file must have a header row.
type CSVLoader struct{}

// Load creates tableName from path, applying explicit DuckDB column
// types for every column the Schema Probe identified, and leaving the
// rest to DuckDB's own type inference.
func (CSVLoader) Load(ctx context.Context, conn *sqlengine.Conn, path, tableName string, columnTypes map[string]schemaprobe.LogicalType) error {
	columnsClause := ""
	if len(columnTypes) > 0 {
		names := make([]string, 0, len(columnTypes))
		for name := range columnTypes {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("'%s': '%s'", name, duckDBType(columnTypes[name]))
		}
		columnsClause = fmt.Sprintf(", types = {%s}", strings.Join(parts, ", "))
	}

	stmt := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s', header = true, delim = ','%s)",
		tableName, escapeSingleQuotes(path), columnsClause,
	)

	_, err := conn.DB().ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("load csv %s into %s: %w", path, tableName, err)
	}
	return nil
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
