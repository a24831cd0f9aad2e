package steps

import (
	"os"
	"path/filepath"
	"testing"

	"txinstall/internal/workflow"
)

func TestDirectoryStep_CreatesMissingDirectory(t *testing.T) {
	dir, err := os.MkdirTemp("", "directory-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	target := filepath.Join(dir, "app")
	step := NewDirectoryStep(target, 0o755)
	ctx := workflow.NewContext(dir, nil, nil)

	if result := step.Validate(ctx); !result.Success {
		t.Fatalf("validate failed: %s", result.Message)
	}
	if result := step.Execute(ctx); !result.Success {
		t.Fatalf("execute failed: %s", result.Message)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected %s to be a directory, err = %v", target, err)
	}
	if step.existedBefore {
		t.Error("expected existedBefore to be false for a newly created directory")
	}
}

func TestDirectoryStep_RollbackRemovesCreatedDirectory(t *testing.T) {
	dir, err := os.MkdirTemp("", "directory-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	target := filepath.Join(dir, "newdir")
	step := NewDirectoryStep(target, 0o755)
	ctx := workflow.NewContext(dir, nil, nil)

	step.Validate(ctx)
	if result := step.Execute(ctx); !result.Success {
		t.Fatalf("execute failed: %s", result.Message)
	}
	if result := step.Rollback(ctx); !result.Success {
		t.Fatalf("rollback failed: %s", result.Message)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("expected directory to be removed after rollback, stat err = %v", err)
	}
}

func TestDirectoryStep_RollbackPreservesPreexistingDirectory(t *testing.T) {
	dir, err := os.MkdirTemp("", "directory-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	target := filepath.Join(dir, "already-there")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	step := NewDirectoryStep(target, 0o755)
	ctx := workflow.NewContext(dir, nil, nil)

	step.Validate(ctx)
	if result := step.Execute(ctx); !result.Success {
		t.Fatalf("execute failed: %s", result.Message)
	}
	if !step.existedBefore {
		t.Fatal("expected existedBefore to be true for a pre-existing directory")
	}
	if result := step.Rollback(ctx); !result.Success {
		t.Fatalf("rollback failed: %s", result.Message)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("expected pre-existing directory to survive rollback, stat err = %v", err)
	}
}

func TestDirectoryStep_ValidateRejectsMissingParent(t *testing.T) {
	dir, err := os.MkdirTemp("", "directory-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	missingParent := filepath.Join(dir, "does", "not", "exist")
	step := NewDirectoryStep(filepath.Join(missingParent, "child"), 0o755)
	ctx := workflow.NewContext(dir, nil, nil)

	if result := step.Validate(ctx); result.Success {
		t.Fatal("expected validate to reject a missing parent directory")
	}
}
