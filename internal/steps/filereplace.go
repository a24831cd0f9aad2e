// Package steps provides concrete Step implementations: file replacement,
// directory creation, shell command execution, and service lifecycle
// management. Each illustrates the workflow.Step contract against a real
// resource.
package steps

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"txinstall/internal/workflow"
)

// AtomicFileReplace copies sourcePath over destinationPath, keeping a
// backup so the replacement can be undone. It is the reference step: every
// contract obligation (write-probe during validate, reversible mutation
// during execute, best-effort restore during rollback, orphan cleanup
// during dispose) is exercised here.
type AtomicFileReplace struct {
	sourcePath      string
	destinationPath string
	overwrite       bool

	backupPath               string
	destinationExistedBefore bool
}

// NewAtomicFileReplace constructs a file-replace step. overwrite controls
// whether a pre-existing destination is permitted.
func NewAtomicFileReplace(sourcePath, destinationPath string, overwrite bool) *AtomicFileReplace {
	return &AtomicFileReplace{sourcePath: sourcePath, destinationPath: destinationPath, overwrite: overwrite}
}

func (s *AtomicFileReplace) Name() string { return fmt.Sprintf("replace:%s", s.destinationPath) }

func (s *AtomicFileReplace) Description() string {
	return fmt.Sprintf("replace %s with %s", s.destinationPath, s.sourcePath)
}

// Validate confirms the source is readable and the destination's parent
// directory is writable, probed by creating and removing a uniquely named
// file. It never mutates destinationPath itself.
func (s *AtomicFileReplace) Validate(ctx *workflow.Context) workflow.StepResult {
	if _, err := os.Stat(s.sourcePath); err != nil {
		return workflow.Fail(fmt.Sprintf("source %s is not accessible", s.sourcePath), err)
	}

	destExists := false
	if _, err := os.Stat(s.destinationPath); err == nil {
		destExists = true
	}
	if destExists && !s.overwrite {
		return workflow.Fail(fmt.Sprintf("destination %s already exists and overwrite is false", s.destinationPath), nil)
	}

	dir := filepath.Dir(s.destinationPath)
	probe := filepath.Join(dir, ".probe-"+uuid.NewString())
	f, err := os.Create(probe)
	if err != nil {
		return workflow.Fail(fmt.Sprintf("destination directory %s is not writable", dir), err)
	}
	f.Close()
	os.Remove(probe)

	return workflow.Ok("validated")
}

// Execute backs up a pre-existing destination, then copies source over it.
func (s *AtomicFileReplace) Execute(ctx *workflow.Context) workflow.StepResult {
	if _, err := os.Stat(s.destinationPath); err == nil {
		s.destinationExistedBefore = true
	}

	if s.destinationExistedBefore && s.overwrite {
		backup := s.destinationPath + ".bak-" + uuid.NewString()
		if err := copyFile(s.destinationPath, backup); err != nil {
			return workflow.Fail("failed to back up existing destination", err)
		}
		s.backupPath = backup
	}

	if err := copyFile(s.sourcePath, s.destinationPath); err != nil {
		if s.backupPath != "" {
			os.Remove(s.backupPath)
			s.backupPath = ""
		}
		return workflow.Fail(fmt.Sprintf("failed to copy %s to %s", s.sourcePath, s.destinationPath), err)
	}

	ctx.ReportStepProgress("copy complete", 100)
	return workflow.OkWithData("replaced", map[string]any{"backupPath": s.backupPath})
}

// Rollback restores the backup over the destination, or removes the
// destination if this step created it from nothing.
func (s *AtomicFileReplace) Rollback(ctx *workflow.Context) workflow.StepResult {
	if s.backupPath != "" {
		if _, err := os.Stat(s.backupPath); err == nil {
			if err := copyFile(s.backupPath, s.destinationPath); err != nil {
				return workflow.Fail("failed to restore backup over destination", err)
			}
			os.Remove(s.backupPath)
			s.backupPath = ""
			return workflow.Ok("restored from backup")
		}
	}
	if !s.destinationExistedBefore {
		if _, err := os.Stat(s.destinationPath); err == nil {
			if err := os.Remove(s.destinationPath); err != nil {
				return workflow.Fail("failed to remove destination created by execute", err)
			}
		}
		return workflow.Ok("removed created destination")
	}
	return workflow.Ok("nothing to roll back")
}

// Dispose removes a lingering backup file. Idempotent: a second call finds
// nothing and reports success.
func (s *AtomicFileReplace) Dispose() workflow.StepResult {
	if s.backupPath == "" {
		return workflow.Ok("nothing to dispose")
	}
	if _, err := os.Stat(s.backupPath); err == nil {
		if err := os.Remove(s.backupPath); err != nil {
			return workflow.Fail("failed to remove backup", err)
		}
	}
	s.backupPath = ""
	return workflow.Ok("disposed")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

var _ workflow.Step = (*AtomicFileReplace)(nil)
