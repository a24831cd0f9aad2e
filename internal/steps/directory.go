package steps

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"txinstall/internal/workflow"
)

// DirectoryStep creates a directory tree, illustrating the contract against
// a resource whose rollback is conditional on whether it pre-existed: a
// directory that already had content must not be deleted wholesale.
type DirectoryStep struct {
	path string
	mode os.FileMode

	existedBefore bool
}

// NewDirectoryStep constructs a step that ensures path exists with the
// given permission bits.
func NewDirectoryStep(path string, mode os.FileMode) *DirectoryStep {
	return &DirectoryStep{path: path, mode: mode}
}

func (s *DirectoryStep) Name() string        { return fmt.Sprintf("mkdir:%s", s.path) }
func (s *DirectoryStep) Description() string { return fmt.Sprintf("create directory %s", s.path) }

// Validate confirms the parent is writable via a probe file, the same
// technique the reference file-replace step uses.
func (s *DirectoryStep) Validate(ctx *workflow.Context) workflow.StepResult {
	parent := filepath.Dir(s.path)
	if _, err := os.Stat(parent); err != nil {
		return workflow.Fail(fmt.Sprintf("parent directory %s is not accessible", parent), err)
	}
	probe := filepath.Join(parent, ".probe-"+uuid.NewString())
	f, err := os.Create(probe)
	if err != nil {
		return workflow.Fail(fmt.Sprintf("parent directory %s is not writable", parent), err)
	}
	f.Close()
	os.Remove(probe)
	return workflow.Ok("validated")
}

// Execute records whether the directory already existed, then creates it
// (and any missing parents) if not.
func (s *DirectoryStep) Execute(ctx *workflow.Context) workflow.StepResult {
	if info, err := os.Stat(s.path); err == nil && info.IsDir() {
		s.existedBefore = true
		return workflow.Ok("directory already present")
	}
	if err := os.MkdirAll(s.path, s.mode); err != nil {
		return workflow.Fail(fmt.Sprintf("failed to create directory %s", s.path), err)
	}
	return workflow.Ok("created")
}

// Rollback removes the directory only if this step created it. A
// directory that pre-existed is left untouched, even if it is now empty,
// because this step cannot know whether the caller considers its prior
// contents significant.
func (s *DirectoryStep) Rollback(ctx *workflow.Context) workflow.StepResult {
	if s.existedBefore {
		return workflow.Ok("directory pre-existed, nothing to roll back")
	}
	if err := os.RemoveAll(s.path); err != nil {
		return workflow.Fail(fmt.Sprintf("failed to remove %s", s.path), err)
	}
	return workflow.Ok("removed created directory")
}

// Dispose is a no-op: this step holds no temporary artefacts beyond the
// directory itself, which rollback (not dispose) is responsible for.
func (s *DirectoryStep) Dispose() workflow.StepResult {
	return workflow.Ok("nothing to dispose")
}

var _ workflow.Step = (*DirectoryStep)(nil)
