package userdata

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/csb-labs/csb/internal/platform"
)

// CheckEnv reports whether each required variable resolves from the
// environment or the loaded env files. Returns the number missing.
func CheckEnv(w io.Writer, required []string, env *EnvFiles) int {
	fmt.Fprintln(w, "Environment check:")

	missing := 0
	for _, key := range required {
		value, source, ok := env.Lookup(key)
		if !ok {
			fmt.Fprintf(w, "  [MISS] %s is not set\n", key)
			missing++
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s = %s (%s)\n", key, RedactValue(key, value), source)
	}
	if len(required) == 0 {
		fmt.Fprintln(w, "  [ OK ] no variables required")
	}
	return missing
}

// CheckTools reports whether each binary is on PATH. Returns the number missing.
func CheckTools(w io.Writer, tools []string) int {
	fmt.Fprintln(w, "Tool check:")

	missing := 0
	for _, tool := range tools {
		path, err := exec.LookPath(tool)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s not found on PATH\n", tool)
			missing++
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s (%s)\n", tool, path)
	}
	return missing
}

// CheckSetupScript reports whether the staged setup script exists and can
// be executed by the container's post-create hook.
func CheckSetupScript(w io.Writer, path string) bool {
	fmt.Fprintln(w, "Setup script check:")

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}
	if !platform.IsExecutable(path) {
		fmt.Fprintf(w, "  [FAIL] %s is not executable; run: csb context sync\n", path)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", path)
	return true
}

// CheckAgentHome reports whether the agent home directory exists.
func CheckAgentHome(w io.Writer, agentHome string) bool {
	fmt.Fprintln(w, "Agent home check:")

	info, err := os.Stat(agentHome)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [WARN] %s does not exist; global context and servers will be empty\n", agentHome)
		return false
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", agentHome, err)
		return false
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [WARN] %s exists but is not a directory\n", agentHome)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", agentHome)
	return true
}
