package contextsrc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/csb-labs/csb/internal/errs"
	"github.com/spf13/afero"
)

// Classify decides what kind of source path is. A file is a Document, a
// directory named after a fragment kind is a FragmentDir, and a directory
// holding instructions or an agent directory is a ContextRoot.
func Classify(fsys afero.Fs, path string) (Kind, Fragment, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0, "", errs.E(errs.UnreadableSource, path, err)
	}
	if !info.IsDir() {
		return Document, "", nil
	}
	if f, ok := ParseFragment(filepath.Base(path)); ok {
		return FragmentDir, f, nil
	}
	if isContextRoot(fsys, path) {
		return ContextRoot, "", nil
	}
	return 0, "", errs.Errorf(errs.InvalidDefinition, path,
		"not a context source: expected a file, a %s/%s/%s/%s directory, or a directory with %s or %s/",
		Skills, Agents, Commands, Rules, InstructionsFile, AgentDir)
}

func isContextRoot(fsys afero.Fs, dir string) bool {
	if filepath.Base(dir) == AgentDir {
		return true
	}
	for _, name := range []string{InstructionsFile, LocalFile, AgentDir} {
		if _, err := fsys.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// ScanRoot lists the documents and fragment directories a context root
// contributes. Instructions come from dir/CLAUDE.md, falling back to
// dir/.claude/CLAUDE.md; fragments from dir/.claude/<kind>. When dir is
// itself an agent directory its children are used directly. Unreadable
// entries count as absent.
func ScanRoot(fsys afero.Fs, dir string, origin Origin) []Source {
	agentDir := filepath.Join(dir, AgentDir)
	if filepath.Base(dir) == AgentDir {
		agentDir = dir
	}

	var sources []Source

	if p, ok := firstFile(fsys, filepath.Join(dir, InstructionsFile), filepath.Join(agentDir, InstructionsFile)); ok {
		sources = append(sources, Source{Path: p, Kind: Document, Origin: origin})
	}
	if p, ok := firstFile(fsys, filepath.Join(dir, LocalFile)); ok {
		sources = append(sources, Source{Path: p, Kind: Document, Origin: origin})
	}

	for _, f := range Fragments {
		p := filepath.Join(agentDir, string(f))
		if isDir(fsys, p) {
			sources = append(sources, Source{Path: p, Kind: FragmentDir, Fragment: f, Origin: origin})
		}
	}
	return sources
}

// Item is one exposable entry inside a fragment directory.
type Item struct {
	Name       string // file or directory name
	Identifier string
	IsDir      bool
}

// ListItems returns the exposable items of a fragment directory, sorted by
// name. Skills are subdirectories; other kinds are *.md files. Hidden
// entries are ignored.
func ListItems(fsys afero.Fs, dir string, f Fragment) ([]Item, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, errs.E(errs.UnreadableSource, dir, err)
	}

	var items []Item
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || e.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if f.ItemsAreDirs() {
			if !e.IsDir() {
				continue
			}
		} else if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".md") {
			continue
		}
		items = append(items, Item{Name: name, Identifier: f.ItemIdentifier(name), IsDir: e.IsDir()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func firstFile(fsys afero.Fs, candidates ...string) (string, bool) {
	for _, p := range candidates {
		info, err := fsys.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

func isDir(fsys afero.Fs, p string) bool {
	info, err := fsys.Stat(p)
	return err == nil && info.IsDir()
}
