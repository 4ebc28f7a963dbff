package mcp

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/csb-labs/csb/internal/errs"
)

func TestParseServerDocument(t *testing.T) {
	doc := `{
	"mcpServers": {
		"sentry": {"command": "npx", "args": ["-y", "sentry-mcp"], "env": {"SENTRY_TOKEN": "abc"}},
		"docs": {"type": "http", "url": "https://docs.example.com/mcp"},
		"github": {"command": "gh-mcp"}
	}
}`
	m, err := ParseServerDocument([]byte(doc))
	if err != nil {
		t.Fatalf("ParseServerDocument failed: %v", err)
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"sentry", "docs", "github"}) {
		t.Errorf("document order lost: %v", got)
	}
	sentry, _ := m.Get("sentry")
	if sentry.Env["SENTRY_TOKEN"] != "abc" {
		t.Errorf("env not decoded: %+v", sentry)
	}
	docs, _ := m.Get("docs")
	if docs.URL == "" {
		t.Error("remote server url not decoded")
	}
}

func TestParseServerDocumentMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"mcpServers":`},
		{"document not object", `["sentry"]`},
		{"servers not object", `{"mcpServers": []}`},
		{"entry not object", `{"mcpServers": {"x": "npx"}}`},
		{"entry without command", `{"mcpServers": {"x": {"args": ["a"]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseServerDocument([]byte(tt.doc))
			if !errors.Is(err, errs.InvalidDefinition) {
				t.Errorf("expected InvalidDefinition, got %v", err)
			}
		})
	}
}

func TestParseServerDocumentEmpty(t *testing.T) {
	for _, doc := range []string{"", "{}", `{"mcpServers": null}`} {
		m, err := ParseServerDocument([]byte(doc))
		if err != nil {
			t.Errorf("%q: unexpected error %v", doc, err)
			continue
		}
		if m.Len() != 0 {
			t.Errorf("%q: expected empty map", doc)
		}
	}
}

func TestLoadGlobalMissingFile(t *testing.T) {
	m, err := LoadGlobal(filepath.Join(t.TempDir(), ".mcp.json"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if m.Len() != 0 {
		t.Error("expected empty map")
	}
}

func TestLoadGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mcp.json")
	os.WriteFile(path, []byte(`{"mcpServers": {"a": {"command": "a"}}}`), 0644)

	m, err := LoadGlobal(path)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Has("a") {
		t.Error("expected server a")
	}
}
