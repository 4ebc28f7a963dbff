//go:build integration

package integration_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/csb-labs/csb/internal/config"
	"github.com/csb-labs/csb/internal/sandbox"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME
	ConfigDir  string // CSB_CONFIG_DIR
	AgentHome  string // ~/.claude
	ProjectDir string // HOME/work/team/app
}

// setupTestEnv creates an isolated home with a project three levels below
// it and points HOME and CSB_CONFIG_DIR at it. The env vars are restored
// after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	env := &testEnv{
		HomeDir:    home,
		ConfigDir:  filepath.Join(home, ".config", "csb"),
		AgentHome:  filepath.Join(home, ".claude"),
		ProjectDir: filepath.Join(home, "work", "team", "app"),
	}

	t.Setenv("HOME", home)
	t.Setenv("CSB_CONFIG_DIR", env.ConfigDir)
	t.Setenv("CSB_AGENT_HOME", "")

	for _, d := range []string{env.ProjectDir, env.AgentHome} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("creating %s: %v", d, err)
		}
	}
	return env
}

// newEngine builds an engine the same way the CLI does.
func newEngine(t *testing.T) *sandbox.Engine {
	t.Helper()
	if err := config.Load(); err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	settings, err := config.Current()
	if err != nil {
		t.Fatalf("config.Current: %v", err)
	}
	engine, err := sandbox.New(settings, log.New(io.Discard))
	if err != nil {
		t.Fatalf("sandbox.New: %v", err)
	}
	return engine
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertFileNotContains fails if the file contains substr.
func assertFileNotContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("file %s unexpectedly contains %q.\nContents:\n%s", path, substr, string(data))
	}
}
