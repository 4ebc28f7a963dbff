package contextsrc

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultMaxDepth is the number of ancestor levels walked when unset.
const DefaultMaxDepth = 3

// Level is the content found at one ancestor level.
type Level struct {
	Number  int
	Dir     string
	Sources []Source
}

// Discovery is the ordered result of an ancestor walk.
type Discovery struct {
	Levels []Level
}

// Sources flattens the discovery in level order.
func (d Discovery) Sources() []Source {
	var out []Source
	for _, l := range d.Levels {
		out = append(out, l.Sources...)
	}
	return out
}

// Discover walks up from startDir for at most maxDepth levels. Level 1 is the
// parent of startDir. The level equal to homeDir contributes nothing but
// still counts, and the walk stops at the filesystem root. Ancestors are
// computed lexically, so symlinks in startDir are not resolved. Only levels
// that contribute sources are returned.
func Discover(fsys afero.Fs, startDir string, maxDepth int, homeDir string) Discovery {
	var d Discovery
	if maxDepth <= 0 {
		return d
	}

	dir := filepath.Clean(startDir)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if homeDir != "" {
		homeDir = filepath.Clean(homeDir)
	}

	for level := 1; level <= maxDepth; level++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent

		if dir == homeDir {
			continue
		}

		if sources := ScanRoot(fsys, dir, ParentOrigin(level)); len(sources) > 0 {
			d.Levels = append(d.Levels, Level{Number: level, Dir: dir, Sources: sources})
		}
	}
	return d
}

// ScanGlobal lists the item identifiers the agent home already exposes for
// each fragment kind named in components. These names are claimed before
// any staged item is named.
func ScanGlobal(fsys afero.Fs, agentHome string, components []string) map[Fragment][]string {
	claims := map[Fragment][]string{}
	for _, c := range components {
		f, ok := ParseFragment(c)
		if !ok {
			continue
		}
		items, err := ListItems(fsys, filepath.Join(agentHome, string(f)), f)
		if err != nil {
			continue
		}
		for _, it := range items {
			claims[f] = append(claims[f], it.Identifier)
		}
	}
	return claims
}
