package workflow

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine drives a fixed set of configured steps through the transactional
// lifecycle described in the package doc. One Engine instance is built per
// workflow definition and may run Install, Uninstall or Repair any number
// of times; each call gets its own Context and its own executed journal.
type Engine struct {
	steps   []ConfiguredStep
	options WorkflowOptions
	logger  Logger
	sink    ProgressSink

	installationPath string

	isElevated func() bool
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithLogger attaches a logging sink. Omitted, the engine logs nowhere.
func WithLogger(logger Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithProgressSink attaches a progress sink shared by every step.
func WithProgressSink(sink ProgressSink) EngineOption {
	return func(e *Engine) { e.sink = sink }
}

// WithInstallationPath sets Context.InstallationPath for every run.
func WithInstallationPath(path string) EngineOption {
	return func(e *Engine) { e.installationPath = path }
}

// WithElevationCheck overrides the privilege gate's predicate; primarily a
// test seam, since the default reads process UID/environment.
func WithElevationCheck(fn func() bool) EngineOption {
	return func(e *Engine) { e.isElevated = fn }
}

// NewEngine builds an Engine over a fixed, ordered set of configured steps.
// A nil or empty steps slice is a caller error.
func NewEngine(steps []ConfiguredStep, options WorkflowOptions, opts ...EngineOption) (*Engine, error) {
	if len(steps) == 0 {
		return nil, newError(KindCallerError, "workflow requires at least one step", nil)
	}
	e := &Engine{
		steps:      steps,
		options:    options,
		logger:     nopLogger{},
		isElevated: defaultIsElevated,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func defaultIsElevated() bool {
	if os.Geteuid() == 0 {
		return true
	}
	user := os.Getenv("USER")
	euid := os.Getenv("EUID")
	return strings.EqualFold(user, "root") || euid == "0"
}

func (e *Engine) newContext() *Context {
	return NewContext(e.installationPath, e.logger, e.sink)
}

// Install runs the workflow forward. The returned error is non-nil only
// when the caller's context was cancelled; in that case the summary is the
// zero value and must not be consulted.
func (e *Engine) Install(ctx context.Context) (WorkflowSummary, error) {
	return e.runForward(ctx, "install", nil)
}

// Uninstall walks the configured steps in reverse order invoking each
// step's Rollback directly: no validation phase, no retries, no per-step
// timeout, and cancellation is not honoured. Like compensation, an
// uninstall that has begun runs to completion.
func (e *Engine) Uninstall(ctx context.Context) (WorkflowSummary, error) {
	runID := uuid.NewString()
	started := time.Now()
	cctx := e.newContext()
	cctx.IsUninstall = true

	summary := WorkflowSummary{RunID: runID, Operation: "uninstall", Success: true}

	total := len(e.steps)
	for i := total - 1; i >= 0; i-- {
		step := e.steps[i]
		name := step.EffectiveName()
		cctx.setCurrentStep(total-i, total, name)
		e.logger.Info("rollback step starting", "step", name)

		result := e.safeRollback(step, cctx)
		summary.recordStep(name, result)
		if !result.Success {
			level := "critical"
			if step.Policy.ContinueOnError {
				level = "tolerated"
			}
			e.logger.Warn("rollback step failed", "step", name, "severity", level, "error", result.Err)
			if !step.Policy.ContinueOnError {
				summary.Success = false
				if summary.FailedStep == "" {
					summary.FailedStep = name
				}
			}
		} else {
			e.logger.Info("rollback step completed", "step", name)
		}
	}

	e.disposeAll(e.steps)
	summary.Duration = time.Since(started)
	if summary.Success {
		summary.Status = StatusCompleted
		summary.Message = "uninstall completed"
	} else {
		summary.Status = StatusFailed
		summary.Message = fmt.Sprintf("uninstall failed at step %s", summary.FailedStep)
	}
	return summary, nil
}

// Repair runs the forward flow restricted to the configured steps whose
// effective name matches one of names, case-insensitively. An empty names
// list means every step.
func (e *Engine) Repair(ctx context.Context, names ...string) (WorkflowSummary, error) {
	if len(names) == 0 {
		return e.runForward(ctx, "repair", nil)
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(n)] = true
	}
	var subset []ConfiguredStep
	for _, step := range e.steps {
		if wanted[strings.ToLower(step.EffectiveName())] {
			subset = append(subset, step)
		}
	}
	if len(subset) == 0 {
		return WorkflowSummary{
			RunID:     uuid.NewString(),
			Operation: "repair",
			Status:    StatusFailed,
			Success:   false,
			Message:   "No matching steps found for repair",
		}, nil
	}
	return e.runForward(ctx, "repair", subset)
}

// safeRollback invokes step.Rollback, converting a panic into a failure
// result so a misbehaving step can never abort the reverse walk.
func (e *Engine) safeRollback(step ConfiguredStep, cctx *Context) (result StepResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("rollback panicked", "step", step.EffectiveName(), "panic", r, "stack", string(debug.Stack()))
			result = Fail("rollback panicked", newError(KindRollbackIncomplete, fmt.Sprintf("panic: %v", r), nil))
		}
	}()
	return step.Step.Rollback(cctx)
}

// safeDispose invokes step.Dispose, converting a panic into a logged
// warning; dispose must never abort the sweep.
func (e *Engine) safeDispose(step ConfiguredStep) (result StepResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("dispose panicked", "step", step.EffectiveName(), "panic", r)
			result = Fail("dispose panicked", newError(KindDisposalLeak, fmt.Sprintf("panic: %v", r), nil))
		}
	}()
	return step.Step.Dispose()
}

func (e *Engine) disposeAll(steps []ConfiguredStep) {
	for _, step := range steps {
		result := e.safeDispose(step)
		if !result.Success {
			e.logger.Warn("step disposal failed, resource may be orphaned", "step", step.EffectiveName(), "error", result.Err)
		}
	}
}

// runForward executes the algorithm in order: privilege gate, validation
// phase, deadline derivation, execution phase with journal, compensation,
// disposal. steps, when non-nil, restricts the run to a subset (Repair);
// nil means the engine's full configured set (Install).
func (e *Engine) runForward(ctx context.Context, operation string, steps []ConfiguredStep) (WorkflowSummary, error) {
	active := e.steps
	if steps != nil {
		active = steps
	}
	runID := uuid.NewString()
	started := time.Now()

	if e.options.RequireAdministrator && !e.isElevated() {
		e.logger.Error("privilege gate failed", "operation", operation)
		return WorkflowSummary{
			RunID:     runID,
			Operation: operation,
			Status:    StatusFailed,
			Success:   false,
			Message:   "administrator privileges required",
			Err:       newError(KindPrivilegeDenied, "process is not elevated", nil),
		}, nil
	}

	cctx := e.newContext()
	cctx.setCancellation(ctx)
	total := len(active)
	summary := WorkflowSummary{RunID: runID, Operation: operation}

	if e.options.ValidateFirst {
		for i, step := range active {
			name := step.EffectiveName()
			cctx.setCurrentStep(i+1, total, name)
			select {
			case <-ctx.Done():
				e.logger.Warn("cancelled during validation", "step", name)
				summary.Status = StatusCancelled
				summary.Success = false
				summary.Message = "cancelled during validation"
				summary.Err = newError(KindCancelled, "workflow cancelled during validation", ctx.Err())
				summary.Duration = time.Since(started)
				return summary, nil
			default:
			}
			if step.shouldSkip(cctx) {
				e.logger.Info("step skipped", "step", name, "phase", "validate")
				continue
			}
			result := step.Step.Validate(cctx)
			if result.Success {
				continue
			}
			if step.Policy.ContinueOnError {
				e.logger.Warn("validation failed, continuing", "step", name, "error", result.Err)
				continue
			}
			e.logger.Error("validation failed", "step", name, "error", result.Err)
			summary.Status = StatusFailed
			summary.Success = false
			summary.FailedStep = name
			summary.Message = fmt.Sprintf("validation failed at step %s", name)
			summary.Err = wrapf(KindValidationFailed, result.Err, "step %s", name)
			summary.Duration = time.Since(started)
			return summary, nil
		}
	}

	deadline := e.options.Deadline
	if deadline <= 0 {
		deadline = DefaultWorkflowOptions().Deadline
	}
	runCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()
	cctx.setCancellation(runCtx)

	e.logger.Info("workflow starting", "operation", operation, "steps", total)

	var executed []ConfiguredStep

	for i, step := range active {
		name := step.EffectiveName()

		select {
		case <-runCtx.Done():
			if ctx.Err() != nil {
				return e.finishCancelled(ctx, cctx, executed)
			}
			return e.finishTimeout(cctx, executed, summary, started, deadline)
		default:
		}

		if step.shouldSkip(cctx) {
			e.logger.Info("step skipped", "step", name, "phase", "execute")
			continue
		}

		cctx.setCurrentStep(i+1, total, name)
		chain := buildExecutor(step, e.logger)

		e.logger.Info("step starting", "step", name, "description", step.EffectiveDescription())
		result := chain(runCtx, cctx)
		executed = append(executed, step)
		summary.recordStep(name, result)

		if result.Success {
			e.logger.Info("step succeeded", "step", name)
			continue
		}
		if step.Policy.ContinueOnError {
			e.logger.Warn("step failed, continuing", "step", name, "error", result.Err)
			continue
		}

		// A failure observed while the linked cancellation is down is
		// classified by which source fired, not as an execution failure:
		// the step merely surfaced the signal cooperatively.
		if runCtx.Err() != nil {
			if ctx.Err() != nil {
				return e.finishCancelled(ctx, cctx, executed)
			}
			return e.finishTimeout(cctx, executed, summary, started, deadline)
		}

		e.logger.Error("step failed", "step", name, "error", result.Err)
		summary.Status = StatusFailed
		summary.Success = false
		summary.FailedStep = name
		summary.Message = fmt.Sprintf("execution failed at step %s", name)
		summary.Err = wrapf(KindExecutionFailed, result.Err, "step %s", name)

		if e.options.RollbackOnFailure {
			e.compensate(cctx, executed)
			summary.Status = StatusRolledBack
		}
		summary.Duration = time.Since(started)
		e.disposeAll(executed)
		return summary, nil
	}

	summary.Status = StatusCompleted
	summary.Success = true
	summary.Message = fmt.Sprintf("%s completed", operation)
	summary.Duration = time.Since(started)
	e.disposeAll(executed)
	return summary, nil
}

func (e *Engine) finishTimeout(cctx *Context, executed []ConfiguredStep, summary WorkflowSummary, started time.Time, deadline time.Duration) (WorkflowSummary, error) {
	e.logger.Warn("workflow timed out", "after", deadline)
	summary.Status = StatusFailed
	if e.options.RollbackOnFailure {
		e.compensate(cctx, executed)
		summary.Status = StatusRolledBack
	}
	summary.Success = false
	summary.Message = fmt.Sprintf("workflow timed out after %s", deadline)
	summary.Err = newError(KindTimeout, summary.Message, nil)
	summary.Duration = time.Since(started)
	e.disposeAll(executed)
	return summary, nil
}

func (e *Engine) finishCancelled(outer context.Context, cctx *Context, executed []ConfiguredStep) (WorkflowSummary, error) {
	e.logger.Warn("workflow cancelled", "error", outer.Err())
	if e.options.RollbackOnFailure {
		e.compensate(cctx, executed)
	}
	e.disposeAll(executed)
	return WorkflowSummary{}, newError(KindCancelled, "workflow cancelled", outer.Err())
}

// compensate walks executed in reverse order, invoking Rollback on each.
// Neither cancellation nor per-step timeouts apply once compensation has
// begun; it always runs to completion.
func (e *Engine) compensate(cctx *Context, executed []ConfiguredStep) {
	cctx.setCancellation(context.Background())
	for i := len(executed) - 1; i >= 0; i-- {
		step := executed[i]
		name := step.EffectiveName()
		e.logger.Info("rollback starting", "step", name)
		result := e.safeRollback(step, cctx)
		if result.Success {
			e.logger.Info("rollback succeeded", "step", name)
		} else {
			e.logger.Warn("rollback failed", "step", name, "error", result.Err)
		}
	}
	e.logger.Info("Rollback completed (best-effort)")
}
