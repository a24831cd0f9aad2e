package steps

import (
	"fmt"

	"txinstall/internal/shell"
	"txinstall/internal/workflow"
)

// CommandStep runs a shell command as the install action (invoking a
// package manager, running a post-install script) and an optional
// caller-supplied undo command as compensation. It runs through
// internal/shell in its deterministic, non-interactive form: no user-shell
// rc sourcing, since the same command must behave identically regardless
// of who is installing.
type CommandStep struct {
	name        string
	command     string
	rollbackCmd string
	dir         string
	interactive bool

	lastResult shell.Result
}

// NewCommandStep constructs a command step. rollbackCmd may be empty, in
// which case Rollback is a no-op success. interactive runs the command
// attached to a pseudo-terminal (internal/shell.RunInteractive) for tools
// that behave differently when they detect a TTY.
func NewCommandStep(name, command, rollbackCmd, dir string, interactive bool) *CommandStep {
	return &CommandStep{name: name, command: command, rollbackCmd: rollbackCmd, dir: dir, interactive: interactive}
}

func (s *CommandStep) Name() string        { return s.name }
func (s *CommandStep) Description() string { return fmt.Sprintf("run %q", s.command) }

// Validate is a no-op: whether a shell command will succeed cannot be
// determined without running it, so this step defers all checking to
// Execute.
func (s *CommandStep) Validate(ctx *workflow.Context) workflow.StepResult {
	return workflow.Ok("validated")
}

func (s *CommandStep) Execute(ctx *workflow.Context) workflow.StepResult {
	var result shell.Result
	if s.interactive {
		result = shell.RunInteractive(ctx.GoContext(), s.command, s.dir)
	} else {
		result = shell.Run(ctx.GoContext(), s.command, s.dir)
	}
	s.lastResult = result
	if result.ExitCode != 0 {
		return workflow.Fail(fmt.Sprintf("command exited %d", result.ExitCode),
			fmt.Errorf("%s", result.Output))
	}
	return workflow.OkWithData("command succeeded", map[string]any{
		"output":   result.Output,
		"duration": result.Duration.String(),
	})
}

// Rollback runs the caller-supplied undo command, if any. A step with no
// rollback command has nothing to compensate with; this is a caller
// decision (some installed side effects, e.g. a one-shot migration, may
// genuinely be irreversible), not an engine error.
func (s *CommandStep) Rollback(ctx *workflow.Context) workflow.StepResult {
	if s.rollbackCmd == "" {
		return workflow.Ok("no rollback command configured")
	}
	result := shell.Run(ctx.GoContext(), s.rollbackCmd, s.dir)
	if result.ExitCode != 0 {
		return workflow.Fail(fmt.Sprintf("rollback command exited %d", result.ExitCode),
			fmt.Errorf("%s", result.Output))
	}
	return workflow.Ok("rollback command succeeded")
}

// Dispose is a no-op: a command step holds no temporary artefacts.
func (s *CommandStep) Dispose() workflow.StepResult {
	return workflow.Ok("nothing to dispose")
}

var _ workflow.Step = (*CommandStep)(nil)
