package steps

import (
	"fmt"

	"txinstall/internal/infra"
	"txinstall/internal/workflow"
)

// ServiceStep starts a named Docker container as the "register a service"
// step variant from the contract's polymorphism list, and stops it again
// on rollback. It drives internal/infra.DockerClient, making it the only
// step here whose Execute talks to a daemon rather than the filesystem.
type ServiceStep struct {
	name        string
	containerID string

	client *infra.DockerClient

	wasRunningBefore bool
	startedByUs      bool
}

// NewServiceStep constructs a step that ensures containerID (name or ID)
// is running. client is exclusively owned by this step once passed in,
// and is closed by Dispose.
func NewServiceStep(name, containerID string, client *infra.DockerClient) *ServiceStep {
	return &ServiceStep{name: name, containerID: containerID, client: client}
}

func (s *ServiceStep) Name() string { return s.name }
func (s *ServiceStep) Description() string {
	return fmt.Sprintf("start service container %s", s.containerID)
}

// Validate confirms the Docker daemon is reachable and the target
// container exists. It does not start anything.
func (s *ServiceStep) Validate(ctx *workflow.Context) workflow.StepResult {
	health := s.client.CheckHealth(ctx.GoContext())
	if !health.Available {
		return workflow.Fail("docker daemon is not reachable", health.Error)
	}
	info, err := s.client.FindContainer(ctx.GoContext(), s.containerID)
	if err != nil {
		return workflow.Fail("failed to inspect target container", err)
	}
	if info == nil {
		return workflow.Fail(fmt.Sprintf("container %s does not exist", s.containerID), nil)
	}
	return workflow.Ok("validated")
}

// Execute starts the container if it is not already running, recording
// whether this step is responsible for the transition so Rollback only
// undoes what it actually did.
func (s *ServiceStep) Execute(ctx *workflow.Context) workflow.StepResult {
	info, err := s.client.FindContainer(ctx.GoContext(), s.containerID)
	if err != nil {
		return workflow.Fail("failed to inspect target container", err)
	}
	if info != nil && info.State == "running" {
		s.wasRunningBefore = true
		return workflow.Ok("service already running")
	}
	if err := s.client.StartContainer(ctx.GoContext(), s.containerID); err != nil {
		return workflow.Fail(fmt.Sprintf("failed to start container %s", s.containerID), err)
	}
	s.startedByUs = true
	return workflow.Ok("service started")
}

// Rollback stops the container only if this step started it; a container
// that was already running before the workflow began is left untouched.
func (s *ServiceStep) Rollback(ctx *workflow.Context) workflow.StepResult {
	if !s.startedByUs {
		return workflow.Ok("service was already running, nothing to roll back")
	}
	if err := s.client.StopContainer(ctx.GoContext(), s.containerID); err != nil {
		return workflow.Fail(fmt.Sprintf("failed to stop container %s", s.containerID), err)
	}
	s.startedByUs = false
	return workflow.Ok("service stopped")
}

// Dispose closes the Docker client connection this step was given.
// Idempotent: a second call finds a nil client and no-ops.
func (s *ServiceStep) Dispose() workflow.StepResult {
	if s.client == nil {
		return workflow.Ok("nothing to dispose")
	}
	err := s.client.Close()
	s.client = nil
	if err != nil {
		return workflow.Fail("failed to close docker client", err)
	}
	return workflow.Ok("disposed")
}

var _ workflow.Step = (*ServiceStep)(nil)
