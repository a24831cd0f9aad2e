package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
)

// RunInteractive runs command attached to a pseudo-terminal so programs
// that detect a TTY (progress bars, colorized package manager output)
// behave the same as when run by hand. Used by CommandStep when its
// interactive option is set.
func RunInteractive(ctx context.Context, command, dir string) Result {
	start := time.Now()

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return Result{Command: command, Output: "failed to start pty: " + err.Error(), ExitCode: -1, Duration: time.Since(start), Timestamp: start}
	}
	defer ptmx.Close()

	var output bytes.Buffer
	done := make(chan error, 1)
	go func() {
		io.Copy(&output, ptmx)
		done <- cmd.Wait()
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		cmd.Process.Kill()
		err = ctx.Err()
	}

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return Result{
		Command:   command,
		Output:    output.String(),
		ExitCode:  exitCode,
		Duration:  time.Since(start),
		Timestamp: start,
	}
}
