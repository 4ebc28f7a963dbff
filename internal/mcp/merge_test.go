package mcp

import (
	"reflect"
	"testing"
)

func TestMergeProjectWins(t *testing.T) {
	global := NewServerMap()
	global.Set("github", ServerDefinition{Command: "G", Args: []string{"--global"}, Env: map[string]string{"ONLY_GLOBAL": "1"}})
	global.Set("sentry", ServerDefinition{Command: "sentry"})

	custom := NewServerMap()
	custom.Set("github", ServerDefinition{Command: "P"})

	merged, unknown := Merge(global, nil, custom)
	if len(unknown) != 0 {
		t.Errorf("unexpected unknown %v", unknown)
	}

	gh, _ := merged.Get("github")
	if gh.Command != "P" {
		t.Errorf("expected project command P, got %q", gh.Command)
	}
	if len(gh.Args) != 0 || len(gh.Env) != 0 {
		t.Errorf("global fields leaked into project entry: %+v", gh)
	}
	if got := merged.Names(); !reflect.DeepEqual(got, []string{"github", "sentry"}) {
		t.Errorf("global position not kept: %v", got)
	}
}

func TestMergeOrder(t *testing.T) {
	global := NewServerMap()
	global.Set("sentry", ServerDefinition{Command: "sentry"})
	global.Set("filesystem", ServerDefinition{Command: "fs-global"})

	custom := NewServerMap()
	custom.Set("zz-custom", ServerDefinition{Command: "z"})
	custom.Set("aa-custom", ServerDefinition{Command: "a"})

	merged, _ := Merge(global, []string{"github", "filesystem"}, custom)

	want := []string{"sentry", "filesystem", "github", "zz-custom", "aa-custom"}
	if got := merged.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	fs, _ := merged.Get("filesystem")
	if fs.Command != "npx" {
		t.Errorf("selected built-in should replace global entry, got %q", fs.Command)
	}
	if global.Len() != 2 {
		t.Error("Merge mutated its input")
	}
}

func TestMergeUnknownBuiltin(t *testing.T) {
	merged, unknown := Merge(nil, []string{"filesystem", "nope"}, nil)
	if !reflect.DeepEqual(unknown, []string{"nope"}) {
		t.Errorf("unexpected unknown %v", unknown)
	}
	if merged.Len() != 1 {
		t.Errorf("expected only filesystem, got %v", merged.Names())
	}
}

func TestRuntimeEnv(t *testing.T) {
	custom := ServerDefinition{Command: "x", RequiredEnv: []string{"A_TOKEN", "B_KEY"}}
	if got := custom.RuntimeEnv(); !reflect.DeepEqual(got, map[string]string{"A_TOKEN": "${A_TOKEN}", "B_KEY": "${B_KEY}"}) {
		t.Errorf("unexpected placeholders %v", got)
	}

	gh, _ := Builtin("github")
	if got := gh.RuntimeEnv(); got["GITHUB_PERSONAL_ACCESS_TOKEN"] != "${GITHUB_TOKEN}" {
		t.Errorf("explicit env should win, got %v", got)
	}

	fs, _ := Builtin("filesystem")
	if fs.RuntimeEnv() != nil {
		t.Error("expected nil env for filesystem")
	}
}

func TestRequiredEnv(t *testing.T) {
	m, _ := ProjectServers([]string{"github", "notion", "filesystem"}, nil)
	custom := ServerDefinition{Command: "x", RequiredEnv: []string{"GITHUB_TOKEN", "EXTRA"}}
	m.Set("mine", custom)

	want := []string{"GITHUB_TOKEN", "NOTION_TOKEN", "EXTRA"}
	if got := RequiredEnv(m); !reflect.DeepEqual(got, want) {
		t.Errorf("RequiredEnv = %v, want %v", got, want)
	}
}

func TestBuiltinIsCopy(t *testing.T) {
	def, _ := Builtin("github")
	def.Args[0] = "mutated"
	def.Env["GITHUB_PERSONAL_ACCESS_TOKEN"] = "mutated"

	again, _ := Builtin("github")
	if again.Args[0] == "mutated" || again.Env["GITHUB_PERSONAL_ACCESS_TOKEN"] == "mutated" {
		t.Error("Builtin returned shared state")
	}
	if !reflect.DeepEqual(BuiltinNames(), []string{"filesystem", "firecrawl", "notion", "github"}) {
		t.Errorf("unexpected catalog order %v", BuiltinNames())
	}
}
