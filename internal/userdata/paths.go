package userdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Directory and file name constants on the host.
const (
	DefaultAgentHomeDir = ".claude"
	GlobalServersFile   = ".mcp.json"
	GlobalSettingsFile  = "settings.json"
	ProjectEnvFile      = ".env"
	DevcontainerDir     = ".devcontainer"
)

// GetHomeDir returns the user's home directory.
func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return home, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := GetHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// GetAgentHome returns the agent's global configuration directory. configured
// is the value from settings (already resolved against CSB_AGENT_HOME); when
// empty it falls back to ~/.claude.
func GetAgentHome(configured string) (string, error) {
	if configured != "" {
		p, err := ExpandHome(configured)
		if err != nil {
			return "", err
		}
		return filepath.Abs(p)
	}
	home, err := GetHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultAgentHomeDir), nil
}

// GetGlobalServersPath returns the global server document inside agentHome.
func GetGlobalServersPath(agentHome string) string {
	return filepath.Join(agentHome, GlobalServersFile)
}

// GetGlobalSettingsPath returns the host settings document inside agentHome.
func GetGlobalSettingsPath(agentHome string) string {
	return filepath.Join(agentHome, GlobalSettingsFile)
}

// ProjectEnvFiles returns the env files consulted for a project, most
// specific first.
func ProjectEnvFiles(projectRoot string) []string {
	return []string{
		filepath.Join(projectRoot, DevcontainerDir, ProjectEnvFile),
		filepath.Join(projectRoot, ProjectEnvFile),
	}
}
