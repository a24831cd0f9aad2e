package workflow

import (
	"errors"
	"testing"
)

func TestError_WrapsCauseAndKind(t *testing.T) {
	cause := errors.New("disk full")
	err := wrapf(KindExecutionFailed, cause, "writing %s", "manifest.yaml")

	if !IsKind(err, KindExecutionFailed) {
		t.Fatalf("expected KindExecutionFailed, got %v", err.Kind)
	}
	if got := errors.Unwrap(err); got == nil {
		t.Fatal("expected Unwrap to return a non-nil cause")
	}
}

func TestError_ForStepAttachesNameWithoutMutatingOriginal(t *testing.T) {
	base := newError(KindValidationFailed, "missing prerequisite", nil)
	scoped := base.forStep("install-config")

	if base.Step != "" {
		t.Fatalf("original error should be unmodified, got step %q", base.Step)
	}
	if scoped.Step != "install-config" {
		t.Errorf("scoped.Step = %q, want install-config", scoped.Step)
	}
}

func TestIsKind_FalseForDifferentKind(t *testing.T) {
	err := newError(KindTimeout, "slow", nil)
	if IsKind(err, KindCancelled) {
		t.Fatal("expected false for mismatched kind")
	}
}

func TestIsKind_FalseForPlainError(t *testing.T) {
	if IsKind(errors.New("plain"), KindTimeout) {
		t.Fatal("expected false for a non-workflow error")
	}
}
