package workflow

import (
	"context"
	"fmt"
)

// Logger is the structured logging sink the engine and steps write to. It
// mirrors the leveled interface charmbracelet/log exposes, so an
// *internal/logging.Logger satisfies it directly; see internal/logging.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}

// nopLogger discards everything. Used when Context is built without an
// explicit logger so the engine never needs a nil check.
type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}
func (nopLogger) Error(any, ...any) {}

// Progress is published to the progress sink after every sub-step report.
type Progress struct {
	StepNumber         int
	TotalSteps         int
	CurrentStepName    string
	SubStepDescription string
	PercentComplete    int // 0..100, within the current step
	OverallPercent     int // derived, 0..100, across the whole workflow
}

// ProgressSink is an optional consumer of Progress values. Publication is
// best-effort: a sink must not panic, and the engine does not retry a
// failed publish.
type ProgressSink interface {
	Publish(Progress)
}

// cursor is the engine-owned, single-writer position within a run. Steps
// never write it directly; they call Context.ReportStepProgress, which
// derives a Progress value from the cursor the engine last set.
type cursor struct {
	stepNumber      int
	totalSteps      int
	currentStepName string
}

// Context is the per-run shared state passed to every lifecycle call. It is
// not thread-safe: steps run sequentially and no two lifecycle calls
// overlap, so no locking is required.
type Context struct {
	// Properties is the one shared mutable surface between steps. The
	// engine never writes to it; steps read and write their own entries.
	Properties map[string]any

	Logger   Logger
	Progress ProgressSink

	InstallationPath string
	IsUninstall      bool

	cur    cursor
	cancel context.Context
}

// NewContext builds a Context with sane defaults. logger and progress may
// be nil; a nil logger is replaced with a no-op sink so callers never need
// a nil check.
func NewContext(installationPath string, logger Logger, progress ProgressSink) *Context {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Context{
		Properties:       make(map[string]any),
		Logger:           logger,
		Progress:         progress,
		InstallationPath: installationPath,
		cancel:           context.Background(),
	}
}

// setCurrentStep is the engine-only cursor write between steps.
func (c *Context) setCurrentStep(n, total int, name string) {
	c.cur = cursor{stepNumber: n, totalSteps: total, currentStepName: name}
}

// setCancellation is the engine-only write of the linked cancellation
// token a step observes for the remainder of the current phase.
func (c *Context) setCancellation(ctx context.Context) {
	c.cancel = ctx
}

// Done returns a channel a step can select on to observe the workflow's
// cancellation or deadline. During compensation and disposal this reports
// the engine's own unlinked background context and so never fires.
func (c *Context) Done() <-chan struct{} {
	return c.cancel.Done()
}

// Err mirrors context.Context.Err() for the current cancellation token.
func (c *Context) Err() error {
	return c.cancel.Err()
}

// GoContext returns the current cancellation token as a context.Context,
// for steps that must hand one to an API expecting it directly (os/exec,
// a database/sql call, a Docker client method). Steps must not retain it
// past the lifecycle call that received it: the engine may swap in a new
// token (e.g. a per-step timeout's child) around that single call.
func (c *Context) GoContext() context.Context {
	return c.cancel
}

// ReportStepProgress publishes a Progress value derived from the engine's
// current cursor plus a step-supplied sub-step description and percentage.
// percent outside 0..100 is a caller error, reported as a failed result
// of KindCallerError rather than published.
func (c *Context) ReportStepProgress(subStep string, percent int) StepResult {
	if percent < 0 || percent > 100 {
		return Fail(fmt.Sprintf("percent %d out of range 0..100", percent),
			newError(KindCallerError, "invalid progress percent", nil))
	}
	if c.Progress == nil {
		return Ok("progress sink not configured")
	}
	overall := 0
	if c.cur.totalSteps > 0 {
		overall = ((c.cur.stepNumber-1)*100 + percent) / c.cur.totalSteps
	}
	c.Progress.Publish(Progress{
		StepNumber:         c.cur.stepNumber,
		TotalSteps:         c.cur.totalSteps,
		CurrentStepName:    c.cur.currentStepName,
		SubStepDescription: subStep,
		PercentComplete:    percent,
		OverallPercent:     overall,
	})
	return Ok("progress reported")
}
