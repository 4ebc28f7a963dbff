package artifacts

import (
	"strings"

	"github.com/csb-labs/csb/internal/project"
	"github.com/csb-labs/csb/internal/userdata"
)

// IgnoredPaths are the generated paths kept out of version control.
var IgnoredPaths = []string{
	project.RuntimeServersFile,
	project.SettingsOverlayFile,
	project.ContextDir + "/",
	project.LockFile,
	userdata.ProjectEnvFile,
}

// GitignoreContent appends every missing line to existing. Lines already
// present (ignoring surrounding whitespace) are kept where they are.
func GitignoreContent(existing []byte, lines []string) []byte {
	content := string(existing)
	present := map[string]bool{}
	for _, l := range strings.Split(content, "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var b strings.Builder
	b.WriteString(content)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		b.WriteByte('\n')
	}
	for _, line := range lines {
		if present[line] {
			continue
		}
		present[line] = true
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
