package workflow

import "testing"

type recordingSink struct {
	published []Progress
}

func (r *recordingSink) Publish(p Progress) {
	r.published = append(r.published, p)
}

func TestContext_ReportStepProgress_RejectsOutOfRange(t *testing.T) {
	ctx := NewContext("/opt/app", nil, nil)
	result := ctx.ReportStepProgress("copying", 150)
	if result.Success {
		t.Fatal("expected failure for percent > 100")
	}
	if !IsKind(result.Err, KindCallerError) {
		t.Errorf("expected KindCallerError, got %v", result.Err)
	}
}

func TestContext_ReportStepProgress_PublishesOverallPercent(t *testing.T) {
	sink := &recordingSink{}
	ctx := NewContext("/opt/app", nil, sink)
	ctx.setCurrentStep(2, 4, "B")

	result := ctx.ReportStepProgress("halfway", 50)
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if len(sink.published) != 1 {
		t.Fatalf("expected 1 published progress, got %d", len(sink.published))
	}
	got := sink.published[0]
	if got.StepNumber != 2 || got.TotalSteps != 4 || got.CurrentStepName != "B" {
		t.Errorf("cursor mismatch: %+v", got)
	}
	// step 1 of 4 fully done (100) + half of step 2 (50) = 150/4 = 37
	if got.OverallPercent != 37 {
		t.Errorf("overallPercent = %d, want 37", got.OverallPercent)
	}
}

func TestContext_NilLogger_DoesNotPanic(t *testing.T) {
	ctx := NewContext("", nil, nil)
	ctx.Logger.Info("hello")
	ctx.Logger.Debug("hello")
	ctx.Logger.Warn("hello")
	ctx.Logger.Error("hello")
}
