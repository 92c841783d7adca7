package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the run configuration for the validator. It is
// optional: every field has a sane default so the CLI works with no
// config file at all.
type Config struct {
	// TableName is the name the loaded dataset is registered under in
	// the SQL engine. Matches the catalog's external-interface contract.
	TableName string `yaml:"table_name"`

	// ActiveTags lists the applicability criteria tags considered
	// active for a run. The distinguished tag "ALL" expands to every
	// tag declared by the catalog.
	ActiveTags []string `yaml:"active_tags"`

	// Parallel is the maximum number of nodes executed concurrently
	// within a single plan layer. 0 or 1 means sequential.
	Parallel int `yaml:"parallel"`

	// StopOnFirstError aborts scheduling further layers once any node
	// in the current layer reports a runtime error.
	StopOnFirstError bool `yaml:"stop_on_first_error"`

	// QueryTimeout is parsed from the config file but is not passed to
	// the pipeline or the SQL engine adapter, so no per-query timeout is
	// applied whatever its value (spec.md §5: timeouts are delegated to
	// the SQL engine's own configuration).
	QueryTimeout time.Duration `yaml:"query_timeout"`

	Verbose bool               `yaml:"-"`
	Logger  *zap.SugaredLogger `yaml:"-"`

	// RunID is a per-run correlation ID stamped into every log line via
	// Logger's "run_id" field. No reporter writes it into its output.
	RunID string `yaml:"-"`
}

// DefaultConfig returns a Config with the engine's documented defaults,
// wired to the package's shared zap logger (internal/config/logging.go)
// rather than constructing a private one.
func DefaultConfig() (*Config, error) {
	runID := newRunID()
	return &Config{
		TableName:  "focus_data",
		ActiveTags: []string{"ALL"},
		Parallel:   0,
		Logger:     Logging.Logger.With("run_id", runID),
		RunID:      runID,
	}, nil
}

func newRunID() string {
	return uuid.NewString()
}

// Load reads and parses a YAML run configuration, falling back to
// defaults for any field the file does not set.
func Load(path string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.ActiveTags) == 0 {
		cfg.ActiveTags = []string{"ALL"}
	}
	if cfg.TableName == "" {
		cfg.TableName = "focus_data"
	}
	return cfg, nil
}

// Validate checks invariants a loaded configuration must satisfy.
func (c *Config) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("table_name is required")
	}
	if c.Parallel < 0 {
		return fmt.Errorf("parallel must be >= 0")
	}
	return nil
}
