package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/csb-labs/csb/internal/errs"
)

func TestNewSelection(t *testing.T) {
	s := NewSelection([]string{"filesystem", "github", "filesystem"}, true, 0)

	if !reflect.DeepEqual(s.Servers, []string{"filesystem", "github"}) {
		t.Errorf("unexpected servers %v", s.Servers)
	}
	if s.Context.Parents.MaxDepth != DefaultMaxDepth {
		t.Errorf("expected default depth, got %d", s.Context.Parents.MaxDepth)
	}
	if !s.IncludesGlobal() || !s.IncludesComponent("skills") {
		t.Error("expected global context with skills")
	}

	off := NewSelection(nil, false, 5)
	if off.IncludesGlobal() || off.Context.Parents.AutoDiscover {
		t.Error("context should be disabled")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SelectionFile)

	s := NewSelection([]string{"github", "filesystem"}, true, 2)
	if err := s.AddCustom("zeta", "zeta-server", []string{"--port", "1"}, []string{"ZETA_TOKEN"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddCustom("alpha", "alpha-server", nil, nil); err != nil {
		t.Fatal(err)
	}
	s.AddExtraSource("/home/u/org-context")

	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(loaded.Servers, []string{"github", "filesystem"}) {
		t.Errorf("server order lost: %v", loaded.Servers)
	}
	if !reflect.DeepEqual(loaded.CustomServers.Names(), []string{"zeta", "alpha"}) {
		t.Errorf("custom order lost: %v", loaded.CustomServers.Names())
	}
	zeta, _ := loaded.CustomServers.Get("zeta")
	if !reflect.DeepEqual(zeta.Args, []string{"--port", "1"}) || !reflect.DeepEqual(zeta.RequiredEnv, []string{"ZETA_TOKEN"}) {
		t.Errorf("custom server not preserved: %+v", zeta)
	}
	if loaded.Context.Parents.MaxDepth != 2 {
		t.Errorf("max depth lost: %d", loaded.Context.Parents.MaxDepth)
	}
	if !reflect.DeepEqual(loaded.Context.Extra, []string{"/home/u/org-context"}) {
		t.Errorf("extra sources lost: %v", loaded.Context.Extra)
	}

	again, err := loaded.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)
	if string(again) != string(first) {
		t.Errorf("record is not stable across load/save:\n%s\n---\n%s", first, again)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), SelectionFile))
	if !errors.Is(err, errs.NotInitialized) {
		t.Errorf("expected NotInitialized, got %v", err)
	}
}

func TestParseInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing version", "servers: [filesystem]\n"},
		{"unknown field", "version: \"1.0\"\nbogus: true\n"},
		{"custom without command", "version: \"1.0\"\ncustom_servers:\n  x:\n    args: [a]\n"},
		{"bad env name", "version: \"1.0\"\ncustom_servers:\n  x:\n    command: x\n    required_env: [\"1BAD\"]\n"},
		{"negative depth", "version: \"1.0\"\ncontext:\n  parents:\n    max_depth: -1\n"},
		{"unsupported version", "version: \"2.0\"\n"},
		{"unknown component", "version: \"1.0\"\ncontext:\n  global:\n    components: [secrets]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, errs.InvalidDefinition) {
				t.Errorf("expected InvalidDefinition, got %v", err)
			}
		})
	}
}

func TestValidateReportsPath(t *testing.T) {
	result, err := Validate([]byte("version: \"1.0\"\nservers: [filesystem, filesystem]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Valid {
		t.Fatal("duplicate servers should be invalid")
	}
	if result.Issues[0].Path != "/servers" {
		t.Errorf("expected /servers, got %q", result.Issues[0].Path)
	}
	if result.Summary() == "" {
		t.Error("expected a summary")
	}
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"1.0", "1", "v1.2.3"} {
		if err := CheckVersion(v); err != nil {
			t.Errorf("CheckVersion(%q) failed: %v", v, err)
		}
	}
	for _, v := range []string{"0.9", "2.0", "banana"} {
		if err := CheckVersion(v); err == nil {
			t.Errorf("CheckVersion(%q) should fail", v)
		}
	}
}

func TestLayout(t *testing.T) {
	l := NewLayout("/p")
	if l.SelectionPath() != "/p/.devcontainer/csb.yaml" {
		t.Errorf("unexpected selection path %s", l.SelectionPath())
	}
	if l.ScriptPath() != "/p/.devcontainer/claude-context/setup-claude-context.sh" {
		t.Errorf("unexpected script path %s", l.ScriptPath())
	}
	if ContainerScriptPath != "/workspace/.devcontainer/claude-context/setup-claude-context.sh" {
		t.Errorf("unexpected container script path %s", ContainerScriptPath)
	}
}
