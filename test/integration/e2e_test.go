//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csb-labs/csb/internal/config"
	"github.com/csb-labs/csb/internal/project"
	"github.com/csb-labs/csb/internal/sandbox"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runSetupScript executes the generated setup script against a stand-in for
// the container's agent home.
func runSetupScript(t *testing.T, layout project.Layout, agentHome string) string {
	t.Helper()
	data, err := os.ReadFile(layout.ScriptPath())
	if err != nil {
		t.Fatalf("reading setup script: %v", err)
	}
	file, err := syntax.NewParser().Parse(bytes.NewReader(data), layout.ScriptPath())
	if err != nil {
		t.Fatalf("parsing setup script: %v", err)
	}
	var out bytes.Buffer
	runner, err := interp.New(
		interp.Env(expand.ListEnviron(
			"PATH="+os.Getenv("PATH"),
			"CLAUDE_HOME="+agentHome,
			"CONTEXT_DIR="+layout.ContextDir(),
		)),
		interp.StdIO(nil, &out, &out),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := runner.Run(context.Background(), file); err != nil {
		t.Fatalf("setup script failed: %v\n%s", err, out.String())
	}
	return out.String()
}

// TestFullFlow walks a project from init through server and context changes:
// init -> mcp add -> context add -> sync -> in-container linking -> removal.
func TestFullFlow(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// User settings pick the default servers.
	if err := config.Load(); err != nil {
		t.Fatal(err)
	}
	if err := config.Set(config.KeyDefaultServers, "filesystem,notion"); err != nil {
		t.Fatalf("config.Set: %v", err)
	}

	// Global agent home with a server document and a skill.
	writeFile(t, filepath.Join(env.AgentHome, ".mcp.json"), `{"mcpServers":{"notes":{"command":"notes-server","args":["--stdio"]}}}`)
	writeFile(t, filepath.Join(env.AgentHome, "skills", "review", "SKILL.md"), "global review\n")
	// An ancestor skill with the same name, and team instructions.
	writeFile(t, filepath.Join(env.HomeDir, "work", "team", ".claude", "skills", "review", "SKILL.md"), "team review\n")
	writeFile(t, filepath.Join(env.HomeDir, "work", "team", "CLAUDE.md"), "# Team\n")

	engine := newEngine(t)
	layout := project.NewLayout(env.ProjectDir)

	// Step 1: init with config defaults.
	report, err := engine.Init(ctx, env.ProjectDir, sandbox.InitOptions{WithContext: true, MaxDepth: 3})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for _, p := range []string{
		layout.SelectionPath(), layout.DockerfilePath(), layout.ContainerSpecPath(),
		layout.StaticServersPath(), layout.RuntimeServersPath(), layout.SettingsOverlayPath(),
		layout.GitignorePath(), layout.ScriptPath(), layout.LinkManifestPath(),
	} {
		assertFileExists(t, p)
	}
	if report.Sync == nil {
		t.Fatal("init with context must stage context")
	}
	assertFileContains(t, layout.StaticServersPath(), `"notion"`)
	assertFileNotContains(t, layout.StaticServersPath(), `"notes"`)
	assertFileContains(t, layout.RuntimeServersPath(), `"notes"`)

	// Step 2: add a server; the selection and documents follow.
	if _, added, err := engine.AddServer(ctx, env.ProjectDir, "github"); err != nil || !added {
		t.Fatalf("AddServer: added=%v err=%v", added, err)
	}
	assertFileContains(t, layout.SelectionPath(), "github")
	assertFileContains(t, layout.StaticServersPath(), `"github"`)
	assertFileContains(t, layout.ContainerSpecPath(), "GITHUB")

	// Step 3: add an extra context source.
	extra := filepath.Join(env.HomeDir, "shared", "rules")
	writeFile(t, filepath.Join(extra, "style.md"), "use tabs\n")
	if _, added, err := engine.AddSource(ctx, env.ProjectDir, extra); err != nil || !added {
		t.Fatalf("AddSource: added=%v err=%v", added, err)
	}

	// Step 4: link inside a stand-in container home.
	containerHome := filepath.Join(t.TempDir(), ".claude")
	out := runSetupScript(t, layout, containerHome)
	if !strings.Contains(out, "linked") {
		t.Errorf("setup script output: %q", out)
	}
	checks := map[string]string{
		"skills/review-level-1/SKILL.md": "team review\n",
		"rules/style.md":                 "use tabs\n",
	}
	for rel, want := range checks {
		got, err := os.ReadFile(filepath.Join(containerHome, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("reading %s through links: %v", rel, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", rel, got, want)
		}
	}
	// The global copy arrives through the agent home mount, not a link.
	assertFileNotExists(t, filepath.Join(containerHome, "skills", "review"))

	// Step 5: removing the source drops its link on the next run.
	if _, err := engine.RemoveSource(ctx, env.ProjectDir, extra); err != nil {
		t.Fatalf("RemoveSource: %v", err)
	}
	runSetupScript(t, layout, containerHome)
	assertFileNotExists(t, filepath.Join(containerHome, "rules", "style.md"))
	assertFileExists(t, filepath.Join(containerHome, "skills", "review-level-1", "SKILL.md"))

	// Step 6: remove a server and check the record and documents agree.
	if _, err := engine.RemoveServer(ctx, env.ProjectDir, "github"); err != nil {
		t.Fatalf("RemoveServer: %v", err)
	}
	assertFileNotContains(t, layout.SelectionPath(), "github")
	assertFileNotContains(t, layout.StaticServersPath(), `"github"`)

	// Step 7: status reflects the final state.
	st, err := engine.Status(ctx, env.ProjectDir)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Initialized || !st.Synced || !st.HasDockerfile {
		t.Errorf("unexpected status: %+v", st)
	}
}

// TestUpdateKeepsUserDockerfile checks that update regenerates everything
// except the image build file.
func TestUpdateKeepsUserDockerfile(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	engine := newEngine(t)
	layout := project.NewLayout(env.ProjectDir)

	if _, err := engine.Init(ctx, env.ProjectDir, sandbox.InitOptions{Servers: []string{"notion"}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	custom := "FROM debian:bookworm\n"
	if err := os.WriteFile(layout.DockerfilePath(), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}
	// Tamper with a generated document; update must restore it.
	if err := os.WriteFile(layout.StaticServersPath(), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Update(ctx, env.ProjectDir); err != nil {
		t.Fatalf("Update: %v", err)
	}
	assertFileContains(t, layout.DockerfilePath(), "debian:bookworm")

	var doc struct {
		MCPServers map[string]json.RawMessage `json:"mcpServers"`
	}
	data, err := os.ReadFile(layout.StaticServersPath())
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("static servers document: %v", err)
	}
	if _, ok := doc.MCPServers["notion"]; !ok {
		t.Errorf("update did not restore the notion server: %s", data)
	}
}
