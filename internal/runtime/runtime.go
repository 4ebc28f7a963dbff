package runtime

import (
	"context"
	"fmt"
)

// ContainerRuntime locates a project's container and runs commands in it.
type ContainerRuntime interface {
	// Name returns the runtime identifier.
	Name() string
	// ContainerID returns the ID of the running container for projectPath,
	// or "" when none is running.
	ContainerID(ctx context.Context, projectPath string) (string, error)
	// Exec runs args inside the container as the container user.
	Exec(ctx context.Context, containerID string, args ...string) (*Output, error)
}

// Output captures the result of a command.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Supported runtime identifiers.
const (
	RuntimeDocker = "docker"
	RuntimePodman = "podman"
)

// DispatchRuntime returns the ContainerRuntime for the given identifier.
// Unknown identifiers yield a runtime whose calls fail.
func DispatchRuntime(name string) ContainerRuntime {
	switch name {
	case RuntimeDocker, RuntimePodman:
		return &CLIRuntime{Binary: name}
	default:
		return &unknownRuntime{name: name}
	}
}

// unknownRuntime is returned when the runtime identifier is not recognized.
type unknownRuntime struct {
	name string
}

func (u *unknownRuntime) Name() string { return u.name }

func (u *unknownRuntime) ContainerID(context.Context, string) (string, error) {
	return "", u.err()
}

func (u *unknownRuntime) Exec(context.Context, string, ...string) (*Output, error) {
	return nil, u.err()
}

func (u *unknownRuntime) err() error {
	return fmt.Errorf("unknown container runtime %q: supported runtimes are %q and %q", u.name, RuntimeDocker, RuntimePodman)
}
