package userdata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckEnv(t *testing.T) {
	t.Setenv("CSB_DOCTOR_PRESENT", "value-1234")
	env := &EnvFiles{Values: map[string]string{"CSB_DOCTOR_FILE_TOKEN": "ghp_123456"}}

	var buf bytes.Buffer
	missing := CheckEnv(&buf, []string{"CSB_DOCTOR_PRESENT", "CSB_DOCTOR_FILE_TOKEN", "CSB_DOCTOR_ABSENT"}, env)

	if missing != 1 {
		t.Errorf("expected 1 missing, got %d", missing)
	}
	out := buf.String()
	if !strings.Contains(out, "[MISS] CSB_DOCTOR_ABSENT") {
		t.Errorf("missing variable not reported:\n%s", out)
	}
	if !strings.Contains(out, "CSB_DOCTOR_FILE_TOKEN = ghp_***") {
		t.Errorf("token not redacted:\n%s", out)
	}
}

func TestCheckSetupScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "setup-claude-context.sh")

	tests := []struct {
		name  string
		setup func()
		want  bool
		out   string
	}{
		{"missing", func() {}, false, "[FAIL]"},
		{"not executable", func() { os.WriteFile(script, []byte("#!/bin/sh\n"), 0644) }, false, "not executable"},
		{"executable", func() { os.Chmod(script, 0755) }, true, "[ OK ]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			var buf bytes.Buffer
			if got := CheckSetupScript(&buf, script); got != tt.want {
				t.Errorf("CheckSetupScript = %v, want %v:\n%s", got, tt.want, buf.String())
			}
			if !strings.Contains(buf.String(), tt.out) {
				t.Errorf("output missing %q:\n%s", tt.out, buf.String())
			}
		})
	}
}

func TestCheckAgentHome(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	if !CheckAgentHome(&buf, dir) {
		t.Errorf("expected existing dir to pass:\n%s", buf.String())
	}

	buf.Reset()
	if CheckAgentHome(&buf, filepath.Join(dir, "missing")) {
		t.Error("expected missing dir to fail")
	}

	file := filepath.Join(dir, "file")
	os.WriteFile(file, nil, 0644)
	buf.Reset()
	if CheckAgentHome(&buf, file) {
		t.Error("expected regular file to fail")
	}
}

func TestCheckToolsMissing(t *testing.T) {
	var buf bytes.Buffer
	if n := CheckTools(&buf, []string{"csb-definitely-not-a-real-binary"}); n != 1 {
		t.Errorf("expected 1 missing tool, got %d", n)
	}
}
