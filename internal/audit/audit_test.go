package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"txinstall/internal/workflow"
)

func TestStore_RecordAndList(t *testing.T) {
	dir, err := os.MkdirTemp("", "audit-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, err := Open(filepath.Join(dir, "audit.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	summary := workflow.WorkflowSummary{
		RunID:          "run-1",
		Operation:      "install",
		Status:         workflow.StatusCompleted,
		Success:        true,
		Message:        "install completed",
		StepResults:    map[string]workflow.StepResult{"A": workflow.Ok("done")},
		Duration:       2 * time.Second,
		CompletedSteps: 1,
	}
	if err := store.Record(summary); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	failed := workflow.WorkflowSummary{
		RunID:      "run-2",
		Operation:  "install",
		Status:     workflow.StatusRolledBack,
		Success:    false,
		Message:    "execution failed at step B",
		FailedStep: "B",
	}
	if err := store.Record(failed); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	records, err := store.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].RunID != "run-2" {
		t.Errorf("expected run-2 first, got %s", records[0].RunID)
	}
	if records[1].RunID != "run-1" || !records[1].Success || records[1].Completed != 1 {
		t.Errorf("unexpected record for run-1: %+v", records[1])
	}
	if records[0].FailedStep != "B" {
		t.Errorf("expected failed step B, got %q", records[0].FailedStep)
	}
	if records[0].Status != workflow.StatusRolledBack || records[1].Status != workflow.StatusCompleted {
		t.Errorf("statuses not round-tripped: got %q and %q", records[0].Status, records[1].Status)
	}
}

func TestStore_RecordReplacesSameRunID(t *testing.T) {
	dir, err := os.MkdirTemp("", "audit-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, err := Open(filepath.Join(dir, "audit.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	store.Record(workflow.WorkflowSummary{RunID: "run-1", Operation: "install", Success: false, Message: "first"})
	store.Record(workflow.WorkflowSummary{RunID: "run-1", Operation: "install", Success: true, Message: "second"})

	records, err := store.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after replace, got %d", len(records))
	}
	if !records[0].Success || records[0].Message != "second" {
		t.Errorf("expected replaced record, got %+v", records[0])
	}
}
