package workflow

import "time"

// StepPolicy is per-step configuration attached at assembly time. A zero
// value StepPolicy is valid and behaves as DefaultPolicy.
type StepPolicy struct {
	// NameOverride, if set, replaces Step.Name() as the effective name used
	// for repair targeting and as the StepResults key.
	NameOverride string

	// DescriptionOverride, if set, replaces Step.Description() in logs.
	DescriptionOverride string

	// ContinueOnError, when true, lets the workflow proceed past a failed
	// validate or execute instead of triggering compensation.
	ContinueOnError bool

	// SkipIf, when non-nil, is evaluated before validate and before
	// execute; a true result skips the step entirely (no validate, no
	// execute, no rollback, no dispose).
	SkipIf func(ctx *Context) bool

	// Timeout bounds a single execute attempt. Zero means no per-step
	// deadline beyond the workflow's own.
	Timeout time.Duration

	// Retries is the number of additional attempts after the first. Zero
	// means execute is attempted exactly once.
	Retries int
}

// DefaultPolicy returns the zero-value policy (no overrides, no retries,
// fail the workflow on any error, no per-step timeout).
func DefaultPolicy() StepPolicy {
	return StepPolicy{}
}

// ConfiguredStep pairs a Step with its StepPolicy. It carries no runtime
// state of its own.
type ConfiguredStep struct {
	Step   Step
	Policy StepPolicy
}

// NewConfiguredStep pairs a step with a policy.
func NewConfiguredStep(step Step, policy StepPolicy) ConfiguredStep {
	return ConfiguredStep{Step: step, Policy: policy}
}

// EffectiveName returns policy.NameOverride if set, else step.Name().
func (c ConfiguredStep) EffectiveName() string {
	if c.Policy.NameOverride != "" {
		return c.Policy.NameOverride
	}
	return c.Step.Name()
}

// EffectiveDescription returns policy.DescriptionOverride if set, else
// step.Description().
func (c ConfiguredStep) EffectiveDescription() string {
	if c.Policy.DescriptionOverride != "" {
		return c.Policy.DescriptionOverride
	}
	return c.Step.Description()
}

// shouldSkip evaluates the skip predicate against the context, treating a
// nil predicate as "never skip".
func (c ConfiguredStep) shouldSkip(ctx *Context) bool {
	if c.Policy.SkipIf == nil {
		return false
	}
	return c.Policy.SkipIf(ctx)
}

// WorkflowOptions are the global knobs governing one workflow run.
type WorkflowOptions struct {
	// RollbackOnFailure triggers reverse-order compensation when a fatal
	// step failure occurs during execution.
	RollbackOnFailure bool

	// ValidateFirst runs the validation phase before execution begins.
	ValidateFirst bool

	// Deadline bounds the entire execution phase, independent of any
	// per-step timeout.
	Deadline time.Duration

	// RequireAdministrator gates the whole run behind an elevation check.
	RequireAdministrator bool
}

// DefaultWorkflowOptions returns the conservative defaults a workflow runs
// with unless overridden: rollback on failure, validate before executing,
// a 30 minute deadline, and no administrator requirement.
func DefaultWorkflowOptions() WorkflowOptions {
	return WorkflowOptions{
		RollbackOnFailure: true,
		ValidateFirst:     true,
		Deadline:          30 * time.Minute,
	}
}
