package linker

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/csb-labs/csb/internal/contextsrc"
	"mvdan.cc/sh/v3/syntax"
)

const scriptHeader = `#!/bin/sh
# Generated by csb from manifest.json. Do not edit; run "csb context sync".
# Links staged context into the agent home. Existing symlinks are replaced,
# real files are left alone and reported.
set -eu

CLAUDE_HOME="${CLAUDE_HOME:-%s}"
CONTEXT_DIR="${CONTEXT_DIR:-%s}"

conflicts=0
linked=0

# prune removes symlinks in a directory that point into the staged tree.
prune() {
	[ -d "$1" ] || return 0
	for entry in "$1"/* "$1"/.[!.]*; do
		[ -L "$entry" ] || continue
		case "$(readlink "$entry")" in
		"$CONTEXT_DIR"/*) rm -f "$entry" ;;
		esac
	done
}

link() {
	if [ -L "$2" ]; then
		rm -f "$2"
	elif [ -e "$2" ]; then
		echo "csb: $2 exists and is not a symlink, leaving it" >&2
		conflicts=$((conflicts + 1))
		return 0
	fi
	ln -s "$1" "$2"
	linked=$((linked + 1))
}
`

const scriptFooter = `
if [ "$conflicts" -gt 0 ]; then
	echo "csb: $conflicts context item(s) not linked because of conflicts" >&2
fi
echo "csb: linked $linked context item(s)"
`

// Emit renders the setup script for m. The script is parsed back and
// printed in canonical form, so a malformed path can never produce a
// broken script.
func Emit(m Manifest) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, scriptHeader, m.AgentHome, m.ContextDir)

	b.WriteString("\n")
	for _, d := range m.Dirs {
		q, err := quote(d)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "mkdir -p \"$CLAUDE_HOME\"/%s\n", q)
	}
	// A directory the manifest no longer links into may still hold links
	// from an earlier sync.
	for _, d := range pruneDirs(m) {
		q, err := quote(d)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "prune \"$CLAUDE_HOME\"/%s\n", q)
	}

	if len(m.Links) > 0 {
		b.WriteString("\n")
	}
	for _, l := range m.Links {
		target, err := quote(l.Target)
		if err != nil {
			return nil, err
		}
		link, err := quote(l.Link)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "link \"$CONTEXT_DIR\"/%s \"$CLAUDE_HOME\"/%s\n", target, link)
	}

	b.WriteString(scriptFooter)
	return canonical(b.String())
}

// pruneDirs lists each fragment kind and the documents directory, plus any
// directory the manifest names.
func pruneDirs(m Manifest) []string {
	seen := map[string]bool{DocumentsDir: true}
	for _, f := range contextsrc.Fragments {
		seen[string(f)] = true
	}
	for _, d := range m.Dirs {
		seen[d] = true
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func quote(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quoting %q for the setup script: %w", s, err)
	}
	return q, nil
}

func canonical(script string) ([]byte, error) {
	parser := syntax.NewParser(syntax.KeepComments(true), syntax.Variant(syntax.LangPOSIX))
	file, err := parser.Parse(strings.NewReader(script), "setup-claude-context.sh")
	if err != nil {
		return nil, fmt.Errorf("generated setup script does not parse: %w", err)
	}

	var buf bytes.Buffer
	if err := syntax.NewPrinter().Print(&buf, file); err != nil {
		return nil, fmt.Errorf("printing setup script: %w", err)
	}
	return buf.Bytes(), nil
}
