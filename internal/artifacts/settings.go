package artifacts

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/csb-labs/csb/internal/errs"
	"mvdan.cc/sh/v3/syntax"
)

// BypassPermissionsMode is the permission mode set when the sandbox skips
// permission prompts.
const BypassPermissionsMode = "bypassPermissions"

// SettingsOverlay renders the container settings from the host settings
// file. A missing or malformed host file yields an empty base. Hook commands
// that start with an absolute path are guarded so a binary that only exists
// on the host does not fail inside the container.
func SettingsOverlay(hostSettingsPath string, skipPermissions bool) ([]byte, error) {
	settings := map[string]any{}
	data, err := os.ReadFile(hostSettingsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, errs.E(errs.UnreadableSource, hostSettingsPath, err)
	default:
		if json.Unmarshal(data, &settings) != nil || settings == nil {
			settings = map[string]any{}
		}
	}

	GuardHooks(settings)
	if skipPermissions {
		perms, _ := settings["permissions"].(map[string]any)
		if perms == nil {
			perms = map[string]any{}
		}
		perms["defaultMode"] = BypassPermissionsMode
		settings["permissions"] = perms
	}
	return marshalDocument(settings)
}

// GuardHooks rewrites every command hook in settings in place.
func GuardHooks(settings map[string]any) {
	hooks, _ := settings["hooks"].(map[string]any)
	for _, group := range hooks {
		entries, _ := group.([]any)
		for _, entry := range entries {
			matcher, _ := entry.(map[string]any)
			list, _ := matcher["hooks"].([]any)
			for _, h := range list {
				hook, _ := h.(map[string]any)
				if hook == nil || hook["type"] != "command" {
					continue
				}
				if cmd, ok := hook["command"].(string); ok {
					hook["command"] = GuardCommand(cmd)
				}
			}
		}
	}
}

// GuardCommand prefixes cmd with an executable check when its first word is
// an absolute path. Commands that do not parse are returned unchanged.
func GuardCommand(cmd string) string {
	if !strings.HasPrefix(strings.TrimSpace(cmd), "/") {
		return cmd
	}
	file, err := syntax.NewParser().Parse(strings.NewReader(cmd), "")
	if err != nil || len(file.Stmts) == 0 {
		return cmd
	}
	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok || len(call.Args) == 0 {
		return cmd
	}
	bin := call.Args[0].Lit()
	if !strings.HasPrefix(bin, "/") {
		return cmd
	}
	return `test -x "` + bin + `" || exit 0; ` + cmd
}
