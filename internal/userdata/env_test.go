package userdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRedactValue_SensitiveKeys(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"GITHUB_TOKEN", "ghp_abcdef123456", "ghp_***"},
		{"FIRECRAWL_API_KEY", "fc-12345", "fc-1***"},
		{"ANTHROPIC_API_KEY", "sk-ant-xyz", "sk-a***"},
		{"OPENAPI_MCP_HEADERS", "{\"Authorization\": \"x\"}", "{\"Au***"},
		{"notion_token", "secret_abc", "secr***"},
		{"LOG_LEVEL", "info", "info"},
		{"WORKSPACE", "/workspace", "/workspace"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := RedactValue(tt.key, tt.value)
			if result != tt.expected {
				t.Errorf("RedactValue(%q, %q) = %q, want %q", tt.key, tt.value, result, tt.expected)
			}
		})
	}
}

func TestRedactValue_ShortValues(t *testing.T) {
	if result := RedactValue("MY_SECRET", "ab"); result != "***" {
		t.Errorf("expected ***, got %s", result)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	tmp := t.TempDir()
	first := filepath.Join(tmp, "first.env")
	second := filepath.Join(tmp, "second.env")

	if err := os.WriteFile(first, []byte("GITHUB_TOKEN=from-first\n# comment\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("GITHUB_TOKEN=from-second\nNOTION_TOKEN=\"quoted\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnvFiles(first, filepath.Join(tmp, "missing.env"), second)
	if err != nil {
		t.Fatalf("LoadEnvFiles failed: %v", err)
	}

	if len(env.Loaded) != 2 {
		t.Errorf("expected 2 loaded files, got %v", env.Loaded)
	}
	if env.Values["GITHUB_TOKEN"] != "from-first" {
		t.Errorf("earlier file should win, got %q", env.Values["GITHUB_TOKEN"])
	}
	if env.Values["NOTION_TOKEN"] != "quoted" {
		t.Errorf("expected unquoted value, got %q", env.Values["NOTION_TOKEN"])
	}
}

func TestLookup_EnvironmentFirst(t *testing.T) {
	t.Setenv("CSB_TEST_LOOKUP", "process")
	env := &EnvFiles{Values: map[string]string{"CSB_TEST_LOOKUP": "file", "ONLY_FILE": "file"}}

	v, src, ok := env.Lookup("CSB_TEST_LOOKUP")
	if !ok || v != "process" || src != "environment" {
		t.Errorf("got %q from %q (ok=%v)", v, src, ok)
	}

	v, src, ok = env.Lookup("ONLY_FILE")
	if !ok || v != "file" || src != ".env" {
		t.Errorf("got %q from %q (ok=%v)", v, src, ok)
	}

	if _, _, ok := env.Lookup("CSB_TEST_NOT_SET_ANYWHERE"); ok {
		t.Error("expected missing key")
	}
}
