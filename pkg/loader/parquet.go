package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/focusconform/validator/internal/schemaprobe"
	"github.com/focusconform/validator/internal/sqlengine"
)

// ParquetLoader ingests a Parquet file with DuckDB's native read_parquet
// after opening it with Apache Arrow's pqarrow reader to check its
// schema. columnTypes is not consulted: Parquet already carries a
// physical schema, so no column-type override is applied at read time
// (spec §1 Non-goal: the core/loader does not "fix" data).
type ParquetLoader struct{}

// Load creates tableName from path using DuckDB's read_parquet, after
// verifying the file opens and its Arrow schema is readable (surfacing a
// clear error before DuckDB itself would report one).
func (ParquetLoader) Load(ctx context.Context, conn *sqlengine.Conn, path, tableName string, columnTypes map[string]schemaprobe.LogicalType) error {
	if err := verifyParquetSchema(path); err != nil {
		return fmt.Errorf("read parquet schema %s: %w", path, err)
	}

	stmt := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_parquet('%s')",
		tableName, escapeSingleQuotes(path),
	)
	if _, err := conn.DB().ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("load parquet %s into %s: %w", path, tableName, err)
	}
	return nil
}

// verifyParquetSchema opens path with the Arrow Parquet reader and
// confirms its schema converts cleanly, exercising
// github.com/apache/arrow-go/v18/parquet independently of DuckDB's own
// reader so schema errors are attributable to the file, not the engine.
func verifyParquetSchema(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader, err := file.NewParquetReader(f)
	if err != nil {
		return err
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	schema, err := arrowReader.Schema()
	if err != nil {
		return err
	}
	if schema.NumFields() == 0 {
		return fmt.Errorf("parquet file %s declares no columns", path)
	}
	return nil
}
