// Package executor walks a compiled validation plan one layer at a time,
// compiling and running each rule's check, evaluating composites from
// already-computed child verdicts, and publishing verdicts before the
// next layer begins. Its optional per-layer concurrency is grounded on
// the teacher's internal/runner/parallel.go worker-pool pattern: a
// semaphore channel bounds concurrent SQL executions and a WaitGroup
// forms the barrier between layers.
package executor

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/focusconform/validator/internal/compiler"
	"github.com/focusconform/validator/internal/engineerrors"
	"github.com/focusconform/validator/internal/results"
	"github.com/focusconform/validator/internal/schemaprobe"
	"github.com/focusconform/validator/internal/scheduler"
	"github.com/focusconform/validator/internal/sqlengine"
)

// Options configures a Run.
type Options struct {
	TableName        string
	ActiveTags       map[string]bool
	Parallel         int // max concurrent node executions within a layer; <=1 means sequential
	StopOnFirstError bool
	Logger           *zap.SugaredLogger
}

// Executor runs a ValidationPlan against a loaded table.
type Executor struct {
	conn  *sqlengine.Conn
	probe *schemaprobe.Probe
	opts  Options
}

// New constructs an Executor. conn and probe are owned by the caller;
// the executor never opens or closes a connection. pipeline.Run opens
// the connection for a run and closes it when Run returns.
func New(conn *sqlengine.Conn, probe *schemaprobe.Probe, opts Options) *Executor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.ActiveTags == nil {
		opts.ActiveTags = map[string]bool{"ALL": true}
	}
	if opts.TableName == "" {
		opts.TableName = "focus_data"
	}
	return &Executor{conn: conn, probe: probe, opts: opts}
}

// Run walks plan.Layers in order, publishing every node's verdict before
// the next layer starts. It returns the indexed verdict slice (aligned
// with plan.Nodes) and an error only for run-abort conditions
// (*engineerrors.IntegrityError); per-rule compile/runtime errors are
// localized into that node's verdict instead.
func (e *Executor) Run(ctx context.Context, plan *scheduler.ValidationPlan) ([]*results.Verdict, error) {
	verdicts := make([]*results.Verdict, len(plan.Nodes))

	for _, layer := range plan.Layers {
		if ctx.Err() != nil {
			break
		}

		if err := e.runLayer(ctx, plan, layer, verdicts); err != nil {
			return verdicts, err
		}

		if e.opts.StopOnFirstError {
			stop := false
			for _, idx := range layer {
				if v := verdicts[idx]; v != nil && v.Errored() {
					stop = true
					break
				}
			}
			if stop {
				e.opts.Logger.Warnw("executor: stopping after layer with errored verdict")
				break
			}
		}
	}

	return verdicts, nil
}

func (e *Executor) runLayer(ctx context.Context, plan *scheduler.ValidationPlan, layer []int, verdicts []*results.Verdict) error {
	workers := e.opts.Parallel
	if workers <= 1 {
		for _, idx := range layer {
			if ctx.Err() != nil {
				return nil
			}
			v, err := e.runNode(ctx, plan, idx, verdicts)
			if err != nil {
				return err
			}
			verdicts[idx] = v
		}
		return nil
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, idx := range layer {
		if ctx.Err() != nil {
			break
		}
		idx := idx
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			v, err := e.runNode(ctx, plan, idx, verdicts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
				return
			}
			verdicts[idx] = v
		}()
	}
	wg.Wait()
	return firstErr
}

func (e *Executor) runNode(ctx context.Context, plan *scheduler.ValidationPlan, idx int, verdicts []*results.Verdict) (*results.Verdict, error) {
	node := plan.Nodes[idx]
	rule := node.Rule

	check, err := compiler.Compile(rule, e.opts.ActiveTags)
	if err != nil {
		return errorVerdict(rule.RuleID, "", err), nil
	}

	switch check.Mode {
	case compiler.ModeSkipped:
		return &results.Verdict{
			OK:     true,
			RuleID: rule.RuleID,
			Details: map[string]any{
				"skipped":    true,
				"reason":     check.SkipReason,
				"check_type": check.CheckType,
				"message":    check.SkipReason,
			},
		}, nil

	case compiler.ModeComposite:
		return e.evaluateComposite(rule, check, plan, verdicts), nil

	case compiler.ModeSchemaProbe:
		exists, err := e.probe.ColumnExists(ctx, e.opts.TableName, check.Column)
		if err != nil {
			return errorVerdict(rule.RuleID, check.CheckType, &engineerrors.CheckRuntimeError{RuleID: rule.RuleID, Message: err.Error()}), nil
		}
		violations := int64(0)
		if !exists {
			violations = 1
		}
		return &results.Verdict{
			OK:     exists,
			RuleID: rule.RuleID,
			Details: map[string]any{
				"violations": violations,
				"skipped":    false,
				"check_type": check.CheckType,
				"message":    columnPresenceMessage(check.Column, exists),
			},
		}, nil

	case compiler.ModeRequirement:
		bound := sqlengine.BindTableName(check.SQL, e.opts.TableName)
		violations, err := e.conn.QueryViolations(ctx, bound)
		if err != nil {
			return errorVerdict(rule.RuleID, check.CheckType, &engineerrors.CheckRuntimeError{RuleID: rule.RuleID, Message: err.Error()}), nil
		}
		if violations < 0 {
			return nil, &engineerrors.IntegrityError{
				RuleID:  rule.RuleID,
				Message: fmt.Sprintf("violations must be a non-negative integer, got %d", violations),
			}
		}
		return &results.Verdict{
			OK:     violations == 0,
			RuleID: rule.RuleID,
			Details: map[string]any{
				"violations": violations,
				"skipped":    false,
				"check_type": check.CheckType,
				"message":    requirementMessage(rule.RuleID, violations),
			},
		}, nil
	}

	return errorVerdict(rule.RuleID, check.CheckType, &engineerrors.CheckCompileError{
		RuleID:  rule.RuleID,
		Reason:  "unknown_mode",
		Message: fmt.Sprintf("compiled check has unrecognized mode %q", check.Mode),
	}), nil
}

func errorVerdict(ruleID, checkType string, err error) *results.Verdict {
	return &results.Verdict{
		OK:     false,
		RuleID: ruleID,
		Details: map[string]any{
			"skipped":    false,
			"reason":     err.Error(),
			"check_type": checkType,
			"message":    err.Error(),
			"error":      err.Error(),
		},
	}
}

func columnPresenceMessage(column string, exists bool) string {
	if exists {
		return fmt.Sprintf("column %q is present", column)
	}
	return fmt.Sprintf("column %q is missing", column)
}

func requirementMessage(ruleID string, violations int64) string {
	if violations == 0 {
		return fmt.Sprintf("%s: no violations", ruleID)
	}
	return fmt.Sprintf("%s: %d violation(s)", ruleID, violations)
}
