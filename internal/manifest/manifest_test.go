package manifest

import (
	"testing"

	"txinstall/internal/workflow"
)

func TestLoad_ParsesOptionsAndResolvesSteps(t *testing.T) {
	doc := []byte(`
name: test-install
options:
  deadline: 5m
  requireAdministrator: true
steps:
  - type: directory
    name: make-etc-app
    params:
      path: /etc/app
      mode: "0755"
  - type: command
    continueOnError: true
    retries: 2
    timeout: 30s
    params:
      command: echo hi
      rollback: echo undo
`)

	registry := Builtins()
	m, err := Load(doc, registry)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "test-install" {
		t.Errorf("name = %q, want test-install", m.Name)
	}
	if m.Options.Deadline.String() != "5m0s" {
		t.Errorf("deadline = %s, want 5m0s", m.Options.Deadline)
	}
	if !m.Options.RequireAdministrator {
		t.Errorf("expected RequireAdministrator=true")
	}
	if len(m.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(m.Steps))
	}
	if m.Steps[0].EffectiveName() != "make-etc-app" {
		t.Errorf("step 0 name = %q", m.Steps[0].EffectiveName())
	}
	second := m.Steps[1]
	if !second.Policy.ContinueOnError || second.Policy.Retries != 2 || second.Policy.Timeout.String() != "30s" {
		t.Errorf("step 1 policy not applied: %+v", second.Policy)
	}
}

func TestLoad_UnknownStepTypeFails(t *testing.T) {
	doc := []byte(`
name: bad
steps:
  - type: not-a-real-type
    params: {}
`)
	_, err := Load(doc, Builtins())
	if err == nil {
		t.Fatal("expected an error for an unregistered step type")
	}
}

func TestLoad_NoStepsFails(t *testing.T) {
	doc := []byte(`
name: empty
steps: []
`)
	_, err := Load(doc, Builtins())
	if err == nil {
		t.Fatal("expected an error for a manifest with no steps")
	}
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic on duplicate name")
		}
	}()
	r := NewRegistry()
	r.Register("dup", func(map[string]any) (workflow.Step, error) { return nil, nil })
	r.Register("dup", func(map[string]any) (workflow.Step, error) { return nil, nil })
}
