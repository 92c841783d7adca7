// Package pipeline wires the eight core components named in spec §2 end
// to end (Rule Catalog Loader, Dependency Resolver, Plan Builder,
// Scheduler, Check Compiler, Executor, Result Aggregator, Schema Probe)
// together with the SQL Engine Adapter and the Table Loader. It is
// the thin orchestration layer cmd/ subcommands call into, grounded on
// the teacher's internal/check.Runner (load -> evaluate -> summarize).
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/executor"
	"github.com/focusconform/validator/internal/planner"
	"github.com/focusconform/validator/internal/resolver"
	"github.com/focusconform/validator/internal/results"
	"github.com/focusconform/validator/internal/schemaprobe"
	"github.com/focusconform/validator/internal/scheduler"
	"github.com/focusconform/validator/internal/sqlengine"
	"github.com/focusconform/validator/pkg/loader"
)

// Options configures a single validation run.
type Options struct {
	CatalogPath       string
	DatasetName       string
	DataPath          string
	TableName         string
	Prefix            string
	ActiveTags        []string
	Parallel          int
	StopOnFirstError  bool
	Logger            *zap.SugaredLogger
}

// Outcome carries everything a reporter needs: the compiled plan (for
// the graph exporter), the aggregated results, and the cycle diagnostic
// (if any) from scheduling, which is surfaced but does not abort the run
// per the diagnostic-plus-continue policy (spec §4.2/§4.4).
type Outcome struct {
	Catalog  *catalog.Catalog
	Resolved *resolver.Result
	Graph    *planner.PlanGraph
	Plan     *scheduler.ValidationPlan
	PlanErr  error
	Results  *results.ValidationResults
}

// Run executes the full pipeline: load the catalog, resolve the working
// rule set for opts.DatasetName, build the plan graph, schedule it,
// load opts.DataPath into an in-memory SQL engine, execute the plan, and
// aggregate verdicts.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	raw, err := os.ReadFile(opts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", opts.CatalogPath, err)
	}
	cat, err := catalog.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	datasetRuleIDs, err := cat.RulesForDataset(opts.DatasetName)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset %s: %w", opts.DatasetName, err)
	}

	resolved, err := resolver.Resolve(cat.Rules, datasetRuleIDs, opts.Prefix, logger)
	if err != nil {
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}

	builder := planner.NewBuilder(resolved)
	graph := builder.Build(datasetRuleIDs)

	activeTags := make(map[string]bool, len(opts.ActiveTags))
	for _, t := range opts.ActiveTags {
		activeTags[t] = true
	}
	if len(activeTags) == 0 {
		activeTags["ALL"] = true
	}
	rtCtx := &planner.RuntimeContext{ActiveTags: activeTags}

	plan, planErr := scheduler.Schedule(graph, resolved.Rules, rtCtx)
	if planErr != nil {
		logger.Warnw("dependency cycle detected; continuing with acyclic remainder", "error", planErr)
	}

	conn, err := sqlengine.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open sql engine: %w", err)
	}
	defer conn.Close()

	probe := schemaprobe.Build(resolved.Rules, conn)

	tableLoader := selectLoader(opts.DataPath)
	tableName := opts.TableName
	if tableName == "" {
		tableName = "focus_data"
	}
	if err := tableLoader.Load(ctx, conn, opts.DataPath, tableName, probe.ColumnTypes); err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", opts.DataPath, err)
	}

	exec := executor.New(conn, probe, executor.Options{
		TableName:        tableName,
		ActiveTags:       activeTags,
		Parallel:         opts.Parallel,
		StopOnFirstError: opts.StopOnFirstError,
		Logger:           logger,
	})

	verdicts, err := exec.Run(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("execute plan: %w", err)
	}

	vr := results.Aggregate(verdicts, resolved.Rules)

	return &Outcome{
		Catalog:  cat,
		Resolved: resolved,
		Graph:    graph,
		Plan:     plan,
		PlanErr:  planErr,
		Results:  vr,
	}, nil
}

// PlanOptions configures a plan-only run: resolution and scheduling
// without loading data or executing checks.
type PlanOptions struct {
	CatalogPath string
	DatasetName string
	Prefix      string
	ActiveTags  []string
	Logger      *zap.SugaredLogger
}

// PlanOutcome is the result of BuildPlan: the resolved rule set, the
// plan graph, the scheduled plan, and any cycle diagnostic.
type PlanOutcome struct {
	Catalog  *catalog.Catalog
	Resolved *resolver.Result
	Graph    *planner.PlanGraph
	Plan     *scheduler.ValidationPlan
	PlanErr  error
}

// BuildPlan runs the Dependency Resolver and Scheduler alone, without
// opening a SQL engine or loading data, for `focusconform plan`.
func BuildPlan(opts PlanOptions) (*PlanOutcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	raw, err := os.ReadFile(opts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", opts.CatalogPath, err)
	}
	cat, err := catalog.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	datasetRuleIDs, err := cat.RulesForDataset(opts.DatasetName)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset %s: %w", opts.DatasetName, err)
	}

	resolved, err := resolver.Resolve(cat.Rules, datasetRuleIDs, opts.Prefix, logger)
	if err != nil {
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}

	builder := planner.NewBuilder(resolved)
	graph := builder.Build(datasetRuleIDs)

	activeTags := make(map[string]bool, len(opts.ActiveTags))
	for _, t := range opts.ActiveTags {
		activeTags[t] = true
	}
	if len(activeTags) == 0 {
		activeTags["ALL"] = true
	}

	plan, planErr := scheduler.Schedule(graph, resolved.Rules, &planner.RuntimeContext{ActiveTags: activeTags})

	return &PlanOutcome{
		Catalog:  cat,
		Resolved: resolved,
		Graph:    graph,
		Plan:     plan,
		PlanErr:  planErr,
	}, nil
}

// SchemaOptions configures a schema-probe-only run.
type SchemaOptions struct {
	CatalogPath string
	DatasetName string
	Prefix      string
}

// ProbeSchema loads the catalog, resolves opts.DatasetName's working
// rule set, and runs the Schema Probe alone (no SQL engine connection,
// since ColumnExists is never called), for `focusconform schema`.
func ProbeSchema(opts SchemaOptions) (*schemaprobe.Probe, error) {
	raw, err := os.ReadFile(opts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", opts.CatalogPath, err)
	}
	cat, err := catalog.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	datasetRuleIDs, err := cat.RulesForDataset(opts.DatasetName)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset %s: %w", opts.DatasetName, err)
	}

	resolved, err := resolver.Resolve(cat.Rules, datasetRuleIDs, opts.Prefix, zap.NewNop().Sugar())
	if err != nil {
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}

	return schemaprobe.Build(resolved.Rules, nil), nil
}

// selectLoader picks a TableLoader by file extension, defaulting to CSV
// for any extension the loader package doesn't recognize as Parquet.
func selectLoader(path string) loader.TableLoader {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return loader.ParquetLoader{}
	}
	return loader.CSVLoader{}
}
