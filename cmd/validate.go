package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/focusconform/validator/internal/pipeline"
	"github.com/focusconform/validator/internal/reporter"
	"github.com/focusconform/validator/internal/results"
)

var (
	validateCatalog          string
	validateDataset          string
	validateTableFile        string
	validateTableName        string
	validatePrefix           string
	validateTags             []string
	validateFormat           string
	validateGraphOut         string
	validateParallel         int
	validateStopOnFirstError bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a FOCUS dataset against the rule catalog",
	Long: `Runs the full conformance pipeline: loads the rule catalog, resolves
the working rule set for --dataset, builds and schedules the dependency
plan, executes each check against --table, and reports
PASSED/FAILED/SKIPPED/ERRORED per rule.

Examples:
  # Validate a CSV export against the AP dataset rules
  focusconform validate --catalog catalog.json --dataset AP --table billing.csv

  # Validate a Parquet file, write JUnit XML for CI
  focusconform validate --catalog catalog.json --dataset AP --table billing.parquet --format junit > report.xml

  # Restrict to a rule_id prefix and run checks in parallel
  focusconform validate --catalog catalog.json --dataset AP --table billing.csv --prefix Bil --parallel 4`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateCatalog, "catalog", "catalog.json", "path to the rule catalog JSON document")
	validateCmd.Flags().StringVar(&validateDataset, "dataset", "", "dataset name to validate against (required)")
	validateCmd.Flags().StringVar(&validateTableFile, "table", "", "path to the dataset file to load, .csv or .parquet (required)")
	validateCmd.Flags().StringVar(&validateTableName, "table-name", "focus_data", "SQL table name the dataset is registered under")
	validateCmd.Flags().StringVar(&validatePrefix, "prefix", "", "restrict the working rule set to this rule_id prefix")
	validateCmd.Flags().StringSliceVar(&validateTags, "tag", []string{"ALL"}, "applicability tags active for this run (ALL means every tag)")
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "output format: text, json, junit, html")
	validateCmd.Flags().StringVar(&validateGraphOut, "graph", "", "also write the plan graph as Graphviz DOT to this path")
	validateCmd.Flags().IntVarP(&validateParallel, "parallel", "p", 0, "max concurrent checks per plan layer (0 = sequential)")
	validateCmd.Flags().BoolVar(&validateStopOnFirstError, "stop-on-error", false, "abort scheduling further layers after a runtime error")
	_ = validateCmd.MarkFlagRequired("dataset")
	_ = validateCmd.MarkFlagRequired("table")

	RootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Flags take precedence; an unset flag falls back to the loaded
	// --config file's run defaults.
	tableName, parallel, stopOnFirstError := validateTableName, validateParallel, validateStopOnFirstError
	tags := validateTags
	if runConfig != nil {
		if !cmd.Flags().Changed("table-name") && runConfig.TableName != "" {
			tableName = runConfig.TableName
		}
		if !cmd.Flags().Changed("parallel") {
			parallel = runConfig.Parallel
		}
		if !cmd.Flags().Changed("stop-on-error") {
			stopOnFirstError = runConfig.StopOnFirstError
		}
		if !cmd.Flags().Changed("tag") && len(runConfig.ActiveTags) > 0 {
			tags = runConfig.ActiveTags
		}
	}

	outcome, err := pipeline.Run(ctx, pipeline.Options{
		CatalogPath:      validateCatalog,
		DatasetName:      validateDataset,
		DataPath:         validateTableFile,
		TableName:        tableName,
		Prefix:           validatePrefix,
		ActiveTags:       tags,
		Parallel:         parallel,
		StopOnFirstError: stopOnFirstError,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if validateGraphOut != "" {
		f, err := os.Create(validateGraphOut)
		if err != nil {
			return fmt.Errorf("create graph output %s: %w", validateGraphOut, err)
		}
		defer f.Close()
		if err := (reporter.GraphReporter{}).Write(f, validateDataset, outcome.Graph, outcome.Results); err != nil {
			return fmt.Errorf("write graph: %w", err)
		}
	}

	if err := writeReport(os.Stdout, validateFormat, validateDataset, outcome.Results); err != nil {
		return err
	}

	if outcome.PlanErr != nil {
		logger.Warnw("plan had an unresolved cycle", "error", outcome.PlanErr)
	}

	summary := results.Summarize(outcome.Results)
	if summary.Failed > 0 || summary.Errored > 0 {
		os.Exit(1)
	}
	return nil
}

func writeReport(w *os.File, format, datasetName string, vr *results.ValidationResults) error {
	switch format {
	case "json":
		return (reporter.JSONReporter{}).Write(w, datasetName, vr)
	case "junit":
		return (reporter.JUnitReporter{}).Write(w, datasetName, vr)
	case "html":
		return (reporter.WebReporter{}).Write(w, datasetName, vr)
	case "text", "":
		return (reporter.ConsoleReporter{}).Write(w, datasetName, vr)
	default:
		return fmt.Errorf("unknown format %q: want text, json, junit, or html", format)
	}
}
