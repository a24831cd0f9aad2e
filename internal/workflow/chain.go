package workflow

import (
	"context"
	"fmt"
)

// executor runs a single lifecycle call against a configured step. The
// engine builds one executor chain per step invocation: retry wraps
// timeout wraps the base call, so a timed-out attempt can still be
// retried, and a retried attempt is still individually bounded.
type executor func(ctx context.Context, cctx *Context) StepResult

// baseExecutor adapts a Step's Execute method into an executor, observing
// cancellation before the call is made. It does not re-check cancellation
// after Execute returns: a step that raced past the deadline still reports
// its actual result.
func baseExecutor(step ConfiguredStep) executor {
	return func(ctx context.Context, cctx *Context) (result StepResult) {
		select {
		case <-ctx.Done():
			return Fail("cancelled before execute", wrapf(KindCancelled, ctx.Err(), "step %s", step.EffectiveName()))
		default:
		}
		defer func() {
			if r := recover(); r != nil {
				result = Fail("step panicked", wrapf(KindExecutionFailed, fmt.Errorf("panic: %v", r), "step %s", step.EffectiveName()))
			}
		}()
		return step.Step.Execute(cctx)
	}
}

// timeoutDecorator bounds next with policy.Timeout, distinguishing a local
// timeout (reported as KindTimeout) from the outer context's own
// cancellation (reported as KindCancelled) so retry can tell them apart.
func timeoutDecorator(policy StepPolicy, next executor) executor {
	if policy.Timeout <= 0 {
		return next
	}
	return func(ctx context.Context, cctx *Context) StepResult {
		child, cancel := context.WithTimeout(ctx, policy.Timeout)
		defer cancel()

		outerToken := cctx.cancel
		cctx.setCancellation(child)
		defer cctx.setCancellation(outerToken)

		done := make(chan StepResult, 1)
		go func() { done <- next(child, cctx) }()

		select {
		case result := <-done:
			return result
		case <-child.Done():
			if ctx.Err() != nil {
				return Fail("cancelled", wrapf(KindCancelled, ctx.Err(), "step timed out or cancelled"))
			}
			return Fail(fmt.Sprintf("step timed out after %s", policy.Timeout),
				wrapf(KindTimeout, child.Err(), "exceeded %s", policy.Timeout))
		}
	}
}

// retryDecorator attempts next up to policy.Retries+1 times. Cancellation
// is never retried: once the outer context is done, or an attempt reports
// KindCancelled, the decorator returns immediately.
func retryDecorator(policy StepPolicy, logger Logger, next executor) executor {
	if policy.Retries <= 0 {
		return next
	}
	return func(ctx context.Context, cctx *Context) StepResult {
		var last StepResult
		for attempt := 0; attempt <= policy.Retries; attempt++ {
			if ctx.Err() != nil {
				return Fail("cancelled before retry", wrapf(KindCancelled, ctx.Err(), "retry loop"))
			}
			last = next(ctx, cctx)
			if last.Success || IsKind(last.Err, KindCancelled) {
				return last
			}
			if attempt < policy.Retries {
				logger.Warn("step attempt failed, retrying", "attempt", attempt+1, "of", policy.Retries+1, "error", last.Err)
			}
		}
		return last
	}
}

// buildExecutor assembles the retry(timeout(base)) chain for one
// configured step.
func buildExecutor(step ConfiguredStep, logger Logger) executor {
	return retryDecorator(step.Policy, logger, timeoutDecorator(step.Policy, baseExecutor(step)))
}
