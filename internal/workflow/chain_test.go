package workflow

import (
	"context"
	"testing"
	"time"
)

type countingLogger struct {
	warnings int
}

func (countingLogger) Debug(any, ...any) {}
func (countingLogger) Info(any, ...any)  {}
func (l *countingLogger) Warn(any, ...any) { l.warnings++ }
func (countingLogger) Error(any, ...any) {}

func TestRetryDecorator_StopsAtFirstSuccess(t *testing.T) {
	attempts := 0
	base := executor(func(ctx context.Context, cctx *Context) StepResult {
		attempts++
		if attempts < 3 {
			return Fail("not yet", nil)
		}
		return Ok("done")
	})

	logger := &countingLogger{}
	chain := retryDecorator(StepPolicy{Retries: 5}, logger, base)
	result := chain(context.Background(), NewContext("", nil, nil))
	if !result.Success {
		t.Fatalf("expected eventual success, got %q", result.Message)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if logger.warnings != 2 {
		t.Errorf("warnings = %d, want 2", logger.warnings)
	}
}

func TestRetryDecorator_DoesNotRetryCancellation(t *testing.T) {
	attempts := 0
	base := executor(func(ctx context.Context, cctx *Context) StepResult {
		attempts++
		return Fail("cancelled", wrapf(KindCancelled, context.Canceled, "cancelled mid step"))
	})

	chain := retryDecorator(StepPolicy{Retries: 5}, &countingLogger{}, base)
	result := chain(context.Background(), NewContext("", nil, nil))
	if result.Success {
		t.Fatal("expected failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on cancellation)", attempts)
	}
}

func TestTimeoutDecorator_FiresLocalTimeout(t *testing.T) {
	base := executor(func(ctx context.Context, cctx *Context) StepResult {
		time.Sleep(100 * time.Millisecond)
		return Ok("too slow to matter")
	})

	chain := timeoutDecorator(StepPolicy{Timeout: 10 * time.Millisecond}, base)
	result := chain(context.Background(), NewContext("", nil, nil))
	if result.Success {
		t.Fatal("expected timeout failure")
	}
	if !IsKind(result.Err, KindTimeout) {
		t.Errorf("expected KindTimeout, got %v", result.Err)
	}
}

func TestTimeoutDecorator_PassesThroughQuickSuccess(t *testing.T) {
	base := executor(func(ctx context.Context, cctx *Context) StepResult {
		return Ok("fast")
	})
	chain := timeoutDecorator(StepPolicy{Timeout: time.Second}, base)
	result := chain(context.Background(), NewContext("", nil, nil))
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
}

func TestTimeoutDecorator_ZeroTimeoutPassesThrough(t *testing.T) {
	called := false
	base := executor(func(ctx context.Context, cctx *Context) StepResult {
		called = true
		return Ok("ok")
	})
	chain := timeoutDecorator(StepPolicy{}, base)
	chain(context.Background(), NewContext("", nil, nil))
	if !called {
		t.Fatal("expected base executor to run when no timeout is configured")
	}
}

func TestBaseExecutor_RecoversPanic(t *testing.T) {
	step := NewConfiguredStep(panicStep{}, DefaultPolicy())
	chain := baseExecutor(step)
	result := chain(context.Background(), NewContext("", nil, nil))
	if result.Success {
		t.Fatal("expected failure from panic recovery")
	}
	if !IsKind(result.Err, KindExecutionFailed) {
		t.Errorf("expected KindExecutionFailed, got %v", result.Err)
	}
}

type panicStep struct{}

func (panicStep) Name() string        { return "panic-step" }
func (panicStep) Description() string { return "always panics" }
func (panicStep) Validate(*Context) StepResult { return Ok("ok") }
func (panicStep) Execute(*Context) StepResult {
	panic("boom")
}
func (panicStep) Rollback(*Context) StepResult { return Ok("ok") }
func (panicStep) Dispose() StepResult          { return Ok("ok") }
