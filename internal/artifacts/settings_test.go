package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGuardCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{"absolute binary", "/usr/local/bin/notify --loud", `test -x "/usr/local/bin/notify" || exit 0; /usr/local/bin/notify --loud`},
		{"leading space", "  /opt/hook.sh", `test -x "/opt/hook.sh" || exit 0;   /opt/hook.sh`},
		{"relative command", "npx prettier --write .", "npx prettier --write ."},
		{"quoted path", `"/path with space/bin" x`, `"/path with space/bin" x`},
		{"unparsable", "/bin/echo 'unterminated", "/bin/echo 'unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuardCommand(tt.cmd); got != tt.want {
				t.Errorf("GuardCommand(%q) = %q, want %q", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestSettingsOverlay(t *testing.T) {
	host := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(host, []byte(`{
  "model": "opus",
  "hooks": {
    "Stop": [{"matcher": "", "hooks": [
      {"type": "command", "command": "/Users/me/bin/done"},
      {"type": "prompt", "command": "/Users/me/bin/skip"}
    ]}]
  }
}`), 0644)

	data, err := SettingsOverlay(host, true)
	if err != nil {
		t.Fatalf("SettingsOverlay failed: %v", err)
	}

	var got struct {
		Model string `json:"model"`
		Hooks map[string][]struct {
			Hooks []struct {
				Type    string `json:"type"`
				Command string `json:"command"`
			} `json:"hooks"`
		} `json:"hooks"`
		Permissions map[string]string `json:"permissions"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Model != "opus" {
		t.Errorf("host settings not carried over: %s", data)
	}
	hooks := got.Hooks["Stop"][0].Hooks
	if hooks[0].Command != `test -x "/Users/me/bin/done" || exit 0; /Users/me/bin/done` {
		t.Errorf("command hook not guarded: %q", hooks[0].Command)
	}
	if hooks[1].Command != "/Users/me/bin/skip" {
		t.Errorf("non-command hook changed: %q", hooks[1].Command)
	}
	if got.Permissions["defaultMode"] != BypassPermissionsMode {
		t.Errorf("permission mode not set: %s", data)
	}
}

func TestSettingsOverlayWithoutHostFile(t *testing.T) {
	data, err := SettingsOverlay(filepath.Join(t.TempDir(), "missing.json"), false)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}\n" {
		t.Errorf("expected empty document, got %q", data)
	}
}

func TestSettingsOverlayMalformedHostFile(t *testing.T) {
	host := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(host, []byte("{not json"), 0644)

	data, err := SettingsOverlay(host, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\n  \"permissions\": {\n    \"defaultMode\": \"bypassPermissions\"\n  }\n}\n" {
		t.Errorf("unexpected overlay %q", data)
	}
}
