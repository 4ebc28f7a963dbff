package project

import "path/filepath"

// File and directory names inside .devcontainer/.
const (
	DevcontainerDir     = ".devcontainer"
	SelectionFile       = "csb.yaml"
	DockerfileFile      = "Dockerfile"
	ContainerSpecFile   = "devcontainer.json"
	StaticServersFile   = ".mcp.json"
	RuntimeServersFile  = ".mcp.runtime.json"
	SettingsOverlayFile = ".settings.runtime.json"
	GitignoreFile       = ".gitignore"
	LockFile            = ".csb.lock"
	ContextDir          = "claude-context"
	ScriptFile          = "setup-claude-context.sh"
	LinkManifestFile    = "manifest.json"
)

// Paths inside the container.
const (
	ContainerWorkspace  = "/workspace"
	ContainerUser       = "claude"
	ContainerAgentHome  = "/home/claude/.claude"
	ContainerContextDir = ContainerWorkspace + "/" + DevcontainerDir + "/" + ContextDir
	ContainerScriptPath = ContainerContextDir + "/" + ScriptFile
)

// Layout resolves engine-owned paths for a project root.
type Layout struct {
	Root string
}

// NewLayout returns the layout for root.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

func (l Layout) Dir() string                 { return filepath.Join(l.Root, DevcontainerDir) }
func (l Layout) SelectionPath() string       { return filepath.Join(l.Dir(), SelectionFile) }
func (l Layout) DockerfilePath() string      { return filepath.Join(l.Dir(), DockerfileFile) }
func (l Layout) ContainerSpecPath() string   { return filepath.Join(l.Dir(), ContainerSpecFile) }
func (l Layout) StaticServersPath() string   { return filepath.Join(l.Dir(), StaticServersFile) }
func (l Layout) RuntimeServersPath() string  { return filepath.Join(l.Dir(), RuntimeServersFile) }
func (l Layout) SettingsOverlayPath() string { return filepath.Join(l.Dir(), SettingsOverlayFile) }
func (l Layout) GitignorePath() string       { return filepath.Join(l.Dir(), GitignoreFile) }
func (l Layout) LockPath() string            { return filepath.Join(l.Dir(), LockFile) }
func (l Layout) ContextDir() string          { return filepath.Join(l.Dir(), ContextDir) }
func (l Layout) ScriptPath() string          { return filepath.Join(l.ContextDir(), ScriptFile) }
func (l Layout) LinkManifestPath() string    { return filepath.Join(l.ContextDir(), LinkManifestFile) }
