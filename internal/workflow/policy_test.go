package workflow

import "testing"

func TestConfiguredStep_EffectiveNameOverride(t *testing.T) {
	step := NewConfiguredStep(newFakeStep("A"), StepPolicy{NameOverride: "first-step"})
	if step.EffectiveName() != "first-step" {
		t.Errorf("EffectiveName() = %q, want first-step", step.EffectiveName())
	}
}

func TestConfiguredStep_EffectiveNameFallsBackToStepName(t *testing.T) {
	step := NewConfiguredStep(newFakeStep("A"), DefaultPolicy())
	if step.EffectiveName() != "A" {
		t.Errorf("EffectiveName() = %q, want A", step.EffectiveName())
	}
}

func TestConfiguredStep_ShouldSkip(t *testing.T) {
	always := NewConfiguredStep(newFakeStep("A"), StepPolicy{SkipIf: func(*Context) bool { return true }})
	never := NewConfiguredStep(newFakeStep("B"), DefaultPolicy())

	ctx := NewContext("", nil, nil)
	if !always.shouldSkip(ctx) {
		t.Error("expected always to skip")
	}
	if never.shouldSkip(ctx) {
		t.Error("expected never to not skip")
	}
}
