// Package workflow implements transactional installation workflows: an
// ordered sequence of steps driven through validate, execute, rollback and
// dispose with all-or-nothing semantics. Either every step succeeds, or
// every completed step is undone and the machine is left as it found it.
package workflow

import (
	"time"
)

// Step is the polymorphic unit of work the engine drives. A step instance
// is single-use per workflow run: it may hold state between Execute and its
// matching Rollback/Dispose, so the same instance must never be shared
// across concurrent workflows.
type Step interface {
	// Name is the step's stable identity, used for repair targeting and as
	// the key into WorkflowSummary.StepResults (unless overridden by policy).
	Name() string

	// Description is human-readable text shown in logs and progress.
	Description() string

	// Validate performs a read-only prerequisite check. It must not mutate
	// the system, though it may allocate and clean up temporary probe
	// resources before returning on every path.
	Validate(ctx *Context) StepResult

	// Execute performs the mutation. It is invoked at most once per
	// workflow run and must be safe to abort at any point, provided
	// Rollback and Dispose are subsequently called.
	Execute(ctx *Context) StepResult

	// Rollback is best-effort compensation. It must tolerate being called
	// after any partial Execute, including one that panicked, and must
	// never panic across the boundary itself.
	Rollback(ctx *Context) StepResult

	// Dispose releases any temporary artefacts (backups, probe files,
	// handles) regardless of whether Execute succeeded, Rollback ran, or
	// neither did. It must be idempotent and must never panic.
	Dispose() StepResult
}

// StepResult is the immutable outcome of one lifecycle call.
type StepResult struct {
	Success bool
	Message string
	Err     error
	Data    map[string]any
}

// Ok builds a successful StepResult.
func Ok(message string) StepResult {
	return StepResult{Success: true, Message: message}
}

// OkWithData builds a successful StepResult carrying structured output.
func OkWithData(message string, data map[string]any) StepResult {
	return StepResult{Success: true, Message: message, Data: data}
}

// Fail builds an unsuccessful StepResult wrapping err.
func Fail(message string, err error) StepResult {
	return StepResult{Success: false, Message: message, Err: err}
}

// RunStatus is the terminal state of a workflow run.
type RunStatus string

const (
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
	StatusRolledBack RunStatus = "rolledback"
	StatusCancelled  RunStatus = "cancelled"
)

// WorkflowSummary is the terminal value returned from Install, Uninstall or
// Repair (except when the caller's cancellation propagates instead).
type WorkflowSummary struct {
	RunID          string
	Operation      string
	Status         RunStatus
	Success        bool
	Message        string
	Err            error
	StepResults    map[string]StepResult
	StepOrder      []string // effective names in the order they were recorded, for stable display
	Duration       time.Duration
	CompletedSteps int
	FailedStep     string
}

// recordStep stores a result under its effective name, preserving first
// insertion order for display while allowing duplicate names to overwrite
// (a caller error per the data model's invariants, not corrupted state).
func (s *WorkflowSummary) recordStep(name string, result StepResult) {
	if s.StepResults == nil {
		s.StepResults = make(map[string]StepResult)
	}
	if _, exists := s.StepResults[name]; !exists {
		s.StepOrder = append(s.StepOrder, name)
	}
	s.StepResults[name] = result
	if result.Success {
		s.CompletedSteps++
	}
}
