package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/csb-labs/csb/internal/project"
)

// ProjectLabel is the label devcontainer tooling puts on a project's
// container, valued with the project's host path.
const ProjectLabel = "devcontainer.local_folder"

// CLIRuntime drives a docker-compatible command-line client.
type CLIRuntime struct {
	// Binary is the client executable name or path.
	Binary string
	// Stdout and Stderr, when set, receive a copy of Exec output.
	Stdout io.Writer
	Stderr io.Writer
}

func (c *CLIRuntime) Name() string { return filepath.Base(c.Binary) }

// ContainerID lists running containers labelled with projectPath.
func (c *CLIRuntime) ContainerID(ctx context.Context, projectPath string) (string, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("resolving project path: %w", err)
	}
	out, err := c.run(ctx, nil, nil, "ps", "-q", "--filter", "label="+ProjectLabel+"="+abs)
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", fmt.Errorf("%s ps failed: %s", c.Name(), strings.TrimSpace(out.Stderr))
	}
	ids := strings.Fields(out.Stdout)
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// Exec runs args in the container as the container user. A non-zero exit is
// reported through Output, not as an error.
func (c *CLIRuntime) Exec(ctx context.Context, containerID string, args ...string) (*Output, error) {
	if containerID == "" {
		return nil, errors.New("no container to exec in")
	}
	full := append([]string{"exec", "-u", project.ContainerUser, containerID}, args...)
	return c.run(ctx, c.Stdout, c.Stderr, full...)
}

func (c *CLIRuntime) run(ctx context.Context, stdout, stderr io.Writer, args ...string) (*Output, error) {
	bin, err := exec.LookPath(c.Binary)
	if err != nil {
		return nil, fmt.Errorf("container runtime %s not found: %w", c.Binary, err)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = tee(&stdoutBuf, stdout)
	cmd.Stderr = tee(&stderrBuf, stderr)

	err = cmd.Run()
	output := &Output{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("running %s: %w", c.Name(), err)
	}
	return output, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
