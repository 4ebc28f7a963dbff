package artifacts

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/csb-labs/csb/internal/branding"
	"github.com/csb-labs/csb/internal/mcp"
	"github.com/csb-labs/csb/internal/project"
)

// Spec is the devcontainer.json document. Field order is the output order.
type Spec struct {
	Name              string            `json:"name"`
	Build             SpecBuild         `json:"build"`
	WorkspaceFolder   string            `json:"workspaceFolder"`
	WorkspaceMount    string            `json:"workspaceMount"`
	Mounts            []string          `json:"mounts"`
	ContainerEnv      map[string]string `json:"containerEnv"`
	RemoteUser        string            `json:"remoteUser"`
	PostCreateCommand string            `json:"postCreateCommand"`
	PostStartCommand  string            `json:"postStartCommand"`
}

// SpecBuild is the build section of the container spec.
type SpecBuild struct {
	Dockerfile string `json:"dockerfile"`
}

// APIKeyEnv is always forwarded into the container.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// BuildSpec renders the container spec for the project's own servers.
// includeGlobal mounts the host agent home into the container.
func BuildSpec(servers *mcp.ServerMap, includeGlobal bool) Spec {
	env := map[string]string{APIKeyEnv: localEnv(APIKeyEnv)}
	for _, key := range mcp.RequiredEnv(servers) {
		env[key] = localEnv(key)
	}

	var mounts []string
	if includeGlobal {
		mounts = append(mounts, bind("${localEnv:HOME}/.claude", project.ContainerAgentHome))
	}
	mounts = append(mounts,
		bind(hostFile(project.SettingsOverlayFile), path.Join(project.ContainerAgentHome, "settings.json")),
		bind(hostFile(project.RuntimeServersFile), path.Join(project.ContainerWorkspace, ".mcp.json")),
		bind(hostFile(project.RuntimeServersFile), path.Join(project.ContainerAgentHome, ".mcp.json")),
	)

	setup := fmt.Sprintf("if [ -f %[1]s ]; then %[1]s; fi", project.ContainerScriptPath)
	return Spec{
		Name:              branding.DisplayName(),
		Build:             SpecBuild{Dockerfile: project.DockerfileFile},
		WorkspaceFolder:   project.ContainerWorkspace,
		WorkspaceMount:    fmt.Sprintf("source=${localWorkspaceFolder},target=%s,type=bind,consistency=cached", project.ContainerWorkspace),
		Mounts:            mounts,
		ContainerEnv:      env,
		RemoteUser:        project.ContainerUser,
		PostCreateCommand: setup,
		PostStartCommand:  setup + "; echo '" + branding.DisplayName() + " ready! Run: claude --dangerously-skip-permissions'",
	}
}

// Marshal encodes the spec with two-space indentation.
func (s Spec) Marshal() ([]byte, error) {
	return marshalDocument(s)
}

func localEnv(name string) string {
	return "${localEnv:" + name + "}"
}

func hostFile(name string) string {
	return path.Join("${localWorkspaceFolder}", project.DevcontainerDir, name)
}

func bind(source, target string) string {
	return fmt.Sprintf("source=%s,target=%s,type=bind,consistency=cached", source, target)
}

func marshalDocument(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
