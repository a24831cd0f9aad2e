// Package infra wraps the Docker Engine API client for use by
// workflow steps that register or tear down a container-backed service.
// It exposes only the health, lifecycle and inspection calls a ServiceStep
// needs; dashboard-oriented stats, logs and pruning are out of scope.
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// ContainerInfo is the subset of Docker's container listing a service step
// needs to decide whether its target is already running.
type ContainerInfo struct {
	ID      string
	Name    string
	Image   string
	Status  string
	State   string
	Created time.Time
}

// DockerHealth reports whether the daemon is reachable at all, independent
// of any particular container's state.
type DockerHealth struct {
	Available bool
	Version   string
	Error     error
}

// DockerClient is a thin wrapper over the official Docker client, scoped to
// the container lifecycle operations ServiceStep drives.
type DockerClient struct {
	cli *client.Client
}

// NewDockerClient negotiates the API version against the daemon reachable
// via the standard DOCKER_HOST/DOCKER_* environment.
func NewDockerClient() (*DockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &DockerClient{cli: cli}, nil
}

// CheckHealth pings the daemon and reads its version, used by
// ServiceStep.Validate as the prerequisite check before attempting to
// start or stop anything.
func (d *DockerClient) CheckHealth(ctx context.Context) DockerHealth {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := d.cli.Ping(checkCtx); err != nil {
		return DockerHealth{Error: fmt.Errorf("daemon unavailable: %w", err)}
	}
	version, err := d.cli.ServerVersion(checkCtx)
	if err != nil {
		return DockerHealth{Error: fmt.Errorf("version check failed: %w", err)}
	}
	return DockerHealth{Available: true, Version: version.Version}
}

// FindContainer resolves a container by name or ID, returning
// (nil, nil) if no such container exists, distinct from a transport
// error, so callers can tell "not found" from "couldn't ask".
func (d *DockerClient) FindContainer(ctx context.Context, nameOrID string) (*ContainerInfo, error) {
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = c.Names[0]
			if len(name) > 0 && name[0] == '/' {
				name = name[1:]
			}
		}
		idMatches := c.ID == nameOrID || (len(c.ID) >= 12 && c.ID[:12] == nameOrID)
		nameMatches := name == nameOrID
		if idMatches || nameMatches {
			return &ContainerInfo{
				ID:      c.ID[:12],
				Name:    name,
				Image:   c.Image,
				Status:  c.Status,
				State:   c.State,
				Created: time.Unix(c.Created, 0),
			}, nil
		}
	}
	return nil, nil
}

// StartContainer starts an existing (stopped) container.
func (d *DockerClient) StartContainer(ctx context.Context, containerID string) error {
	return d.cli.ContainerStart(ctx, containerID, container.StartOptions{})
}

// StopContainer stops a running container, giving it its default grace
// period to exit before it is killed.
func (d *DockerClient) StopContainer(ctx context.Context, containerID string) error {
	return d.cli.ContainerStop(ctx, containerID, container.StopOptions{})
}

// Close releases the underlying HTTP transport.
func (d *DockerClient) Close() error {
	if d.cli != nil {
		return d.cli.Close()
	}
	return nil
}
