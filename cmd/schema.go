package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusconform/validator/internal/pipeline"
)

var (
	schemaCatalog string
	schemaDataset string
	schemaPrefix  string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the column -> logical-type map for a dataset's rule set",
	Long: `Runs only the Schema Probe: resolves the working rule set for
--dataset and prints the column name -> logical type each Type* rule
requires, for external loaders to consume ahead of a validate run.`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaCatalog, "catalog", "catalog.json", "path to the rule catalog JSON document")
	schemaCmd.Flags().StringVar(&schemaDataset, "dataset", "", "dataset name to probe (required)")
	schemaCmd.Flags().StringVar(&schemaPrefix, "prefix", "", "restrict the working rule set to this rule_id prefix")
	_ = schemaCmd.MarkFlagRequired("dataset")

	RootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	probe, err := pipeline.ProbeSchema(pipeline.SchemaOptions{
		CatalogPath: schemaCatalog,
		DatasetName: schemaDataset,
		Prefix:      schemaPrefix,
	})
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	for _, col := range probe.Columns() {
		fmt.Printf("%s\t%s\n", col, probe.ColumnTypes[col])
	}
	return nil
}
