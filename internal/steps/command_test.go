package steps

import (
	"testing"

	"txinstall/internal/workflow"
)

func TestCommandStep_ExecuteSucceeds(t *testing.T) {
	step := NewCommandStep("echo", "echo hello", "", "", false)
	ctx := workflow.NewContext("", nil, nil)

	if result := step.Validate(ctx); !result.Success {
		t.Fatalf("validate failed: %s", result.Message)
	}
	result := step.Execute(ctx)
	if !result.Success {
		t.Fatalf("execute failed: %s", result.Message)
	}
	if step.lastResult.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", step.lastResult.ExitCode)
	}
}

func TestCommandStep_ExecuteFailsOnNonZeroExit(t *testing.T) {
	step := NewCommandStep("fail", "exit 7", "", "", false)
	ctx := workflow.NewContext("", nil, nil)

	result := step.Execute(ctx)
	if result.Success {
		t.Fatal("expected execute to fail on non-zero exit")
	}
	if step.lastResult.ExitCode != 7 {
		t.Errorf("exit code = %d, want 7", step.lastResult.ExitCode)
	}
}

func TestCommandStep_RollbackNoOpWithoutUndoCommand(t *testing.T) {
	step := NewCommandStep("noop", "true", "", "", false)
	ctx := workflow.NewContext("", nil, nil)

	result := step.Rollback(ctx)
	if !result.Success {
		t.Fatalf("expected no-op rollback to succeed, got %s", result.Message)
	}
}

func TestCommandStep_RollbackRunsUndoCommand(t *testing.T) {
	step := NewCommandStep("create-then-undo", "true", "exit 0", "", false)
	ctx := workflow.NewContext("", nil, nil)

	result := step.Rollback(ctx)
	if !result.Success {
		t.Fatalf("rollback failed: %s", result.Message)
	}
}

func TestCommandStep_RollbackReportsUndoFailure(t *testing.T) {
	step := NewCommandStep("bad-undo", "true", "exit 3", "", false)
	ctx := workflow.NewContext("", nil, nil)

	result := step.Rollback(ctx)
	if result.Success {
		t.Fatal("expected rollback to fail when the undo command exits non-zero")
	}
}
