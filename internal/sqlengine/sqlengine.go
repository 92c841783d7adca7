// Package sqlengine adapts a database/sql connection backed by DuckDB
// (github.com/marcboeker/go-duckdb) to the narrow contract the Executor
// needs: running a requirement-mode query and probing column existence.
// DuckDB is the engine of record because its dialect natively supports
// typeof(), POSIX regex via ~, CTEs, and information_schema.columns —
// exactly what the Check Compiler's SQL assumes.
package sqlengine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Conn wraps a SQL connection bound to one loaded table for the duration
// of a validation run.
type Conn struct {
	db    *sql.DB
	owned bool
}

// Open starts an in-memory DuckDB database. The returned Conn owns it and
// will close it on Close.
func Open(ctx context.Context) (*Conn, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return &Conn{db: db, owned: true}, nil
}

// FromDB adapts a caller-supplied *sql.DB (e.g. wired up by the CLI for a
// shared connection). The Conn does not close it.
func FromDB(db *sql.DB) *Conn {
	return &Conn{db: db, owned: false}
}

// DB exposes the underlying handle for the table loader's ingestion
// statements.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Close releases the connection if this Conn owns it. Safe to call on a
// borrowed connection (no-op), per the shared-resource policy in spec §5.
func (c *Conn) Close() error {
	if !c.owned || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// QueryViolations executes a requirement-mode query (with {table_name}
// already bound by the caller) and returns its single "violations"
// column. The caller is responsible for verifying the value is a
// non-negative integer — a row-scan error here is itself a
// CheckRuntimeError condition.
func (c *Conn) QueryViolations(ctx context.Context, sqlText string) (int64, error) {
	row := c.db.QueryRowContext(ctx, sqlText)
	var violations int64
	if err := row.Scan(&violations); err != nil {
		return 0, err
	}
	return violations, nil
}

// ColumnExists reports whether column is present on table, backed by
// information_schema.columns, for ColumnPresent schema-probe checks.
func (c *Conn) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	const q = `SELECT COUNT(*) FROM information_schema.columns WHERE table_name = ? AND column_name = ?`
	row := c.db.QueryRowContext(ctx, q, table, column)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// TableColumns returns every column name registered for table, in
// declaration order. The Schema Probe does not call it; ColumnPresent
// checks go through ColumnExists.
func (c *Conn) TableColumns(ctx context.Context, table string) ([]string, error) {
	const q = `SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`
	rows, err := c.db.QueryContext(ctx, q, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// BindTableName substitutes the {table_name} placeholder the compiler
// leaves in requirement-mode SQL. It is the only injection point into
// the template, per spec §4.5.
func BindTableName(sqlText, tableName string) string {
	return strings.ReplaceAll(sqlText, "{table_name}", tableName)
}
