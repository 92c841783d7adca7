// Package cmd wires the focusconform CLI: a cobra root command plus the
// validate, plan, and schema subcommands, grounded on the teacher's
// cmd/root.go and cmd/check.go conventions (persistent --verbose flag,
// zap logger wired through internal/config, thin RunE handlers that
// delegate to an internal package).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/focusconform/validator/internal/build"
	"github.com/focusconform/validator/internal/config"
)

var (
	verbose    bool
	configPath string
	logger     *zap.SugaredLogger
	runConfig  *config.Config

	// RootCmd is the focusconform CLI entrypoint.
	RootCmd = &cobra.Command{
		Use:     "focusconform",
		Short:   "Validate FOCUS billing datasets against the conformance rule catalog.",
		Long:    `focusconform evaluates a FOCUS billing/cost dataset against a JSON rule catalog, reporting PASSED/FAILED/SKIPPED/ERRORED per rule.`,
		Version: build.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.Verbose = verbose
			config.Logging.SetVerbose(verbose)
			runConfig = cfg
			logger = cfg.Logger
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML run configuration file")
	RootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)
}

// Execute runs the CLI and exits the process with the appropriate code.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
