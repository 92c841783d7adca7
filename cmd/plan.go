package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/focusconform/validator/internal/pipeline"
)

var (
	planCatalog string
	planDataset string
	planPrefix  string
	planTags    []string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build and print the dependency plan without executing checks",
	Long: `Exercises the Dependency Resolver and Scheduler alone: resolves the
working rule set for --dataset, builds the plan graph, schedules it into
layers, and prints the layers plus any cycle diagnostics. No SQL engine
is opened and no checks are executed.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planCatalog, "catalog", "catalog.json", "path to the rule catalog JSON document")
	planCmd.Flags().StringVar(&planDataset, "dataset", "", "dataset name to plan for (required)")
	planCmd.Flags().StringVar(&planPrefix, "prefix", "", "restrict the working rule set to this rule_id prefix")
	planCmd.Flags().StringSliceVar(&planTags, "tag", []string{"ALL"}, "applicability tags active for this run (ALL means every tag)")
	_ = planCmd.MarkFlagRequired("dataset")

	RootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	outcome, err := pipeline.BuildPlan(pipeline.PlanOptions{
		CatalogPath: planCatalog,
		DatasetName: planDataset,
		Prefix:      planPrefix,
		ActiveTags:  planTags,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	diag := outcome.Resolved.Diagnostics
	fmt.Printf("nodes: %d  edges: %d\n", diag.NodeCount, diag.EdgeCount)
	if len(diag.Cycles) > 0 {
		fmt.Printf("cycles detected: %d\n", len(diag.Cycles))
		for _, c := range diag.Cycles {
			fmt.Printf("  members: %v\n  example: %v\n", c.Members, c.Example)
		}
	}

	for i, layer := range outcome.Plan.Layers {
		fmt.Printf("layer %d (%d rules):\n", i, len(layer))
		for _, idx := range layer {
			fmt.Printf("  %s\n", outcome.Plan.Nodes[idx].RuleID)
		}
	}

	if len(outcome.Plan.ResidualRuleIDs) > 0 {
		fmt.Printf("residual (unresolved cycle, %d rules): %v\n", len(outcome.Plan.ResidualRuleIDs), outcome.Plan.ResidualRuleIDs)
	}

	if outcome.PlanErr != nil {
		os.Exit(1)
	}
	return nil
}
