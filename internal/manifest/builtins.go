package manifest

import (
	"fmt"
	"os"

	"txinstall/internal/infra"
	"txinstall/internal/steps"
	"txinstall/internal/workflow"
)

// Builtins returns a Registry with a constructor for each step type this
// repository ships (file-replace, directory, command, service). Callers
// may Register additional types of their own alongside these.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register("file-replace", newFileReplace)
	r.Register("directory", newDirectory)
	r.Register("command", newCommand)
	r.Register("service", newService)
	return r
}

func newFileReplace(params map[string]any) (workflow.Step, error) {
	source, err := requireString(params, "source")
	if err != nil {
		return nil, err
	}
	destination, err := requireString(params, "destination")
	if err != nil {
		return nil, err
	}
	overwrite, _ := params["overwrite"].(bool)
	return steps.NewAtomicFileReplace(source, destination, overwrite), nil
}

func newDirectory(params map[string]any) (workflow.Step, error) {
	path, err := requireString(params, "path")
	if err != nil {
		return nil, err
	}
	mode := os.FileMode(0o755)
	if raw, ok := params["mode"]; ok {
		m, err := parseMode(raw)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	return steps.NewDirectoryStep(path, mode), nil
}

func newCommand(params map[string]any) (workflow.Step, error) {
	command, err := requireString(params, "command")
	if err != nil {
		return nil, err
	}
	name, _ := params["name"].(string)
	if name == "" {
		name = "command:" + command
	}
	rollback, _ := params["rollback"].(string)
	dir, _ := params["dir"].(string)
	interactive, _ := params["interactive"].(bool)
	return steps.NewCommandStep(name, command, rollback, dir, interactive), nil
}

func newService(params map[string]any) (workflow.Step, error) {
	containerID, err := requireString(params, "containerID")
	if err != nil {
		return nil, err
	}
	name, _ := params["name"].(string)
	if name == "" {
		name = "service:" + containerID
	}
	client, err := infra.NewDockerClient()
	if err != nil {
		return nil, fmt.Errorf("service step %q: %w", containerID, err)
	}
	return steps.NewServiceStep(name, containerID, client), nil
}

func requireString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required param %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("param %q must be a non-empty string", key)
	}
	return s, nil
}

func parseMode(raw any) (os.FileMode, error) {
	switch v := raw.(type) {
	case string:
		var m uint32
		if _, err := fmt.Sscanf(v, "%o", &m); err != nil {
			return 0, fmt.Errorf("invalid mode %q: %w", v, err)
		}
		return os.FileMode(m), nil
	case int:
		return os.FileMode(v), nil
	default:
		return 0, fmt.Errorf("mode must be a string (e.g. \"0755\") or int")
	}
}
