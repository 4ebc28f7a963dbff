package staging

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// DefaultExclude are the patterns skipped when no exclusions are configured.
var DefaultExclude = []string{"**/.git", "**/node_modules", "**/.DS_Store"}

// excluder matches slash-separated paths, relative to the copied root,
// against doublestar patterns.
type excluder struct {
	patterns []string
}

func newExcluder(patterns []string) (*excluder, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return &excluder{patterns: patterns}, nil
}

func (e *excluder) match(rel string) bool {
	for _, p := range e.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// copyDir recursively copies src to dst. Excluded entries, symlinks and
// other special files are skipped. Entries are visited in name order.
func copyDir(fsys afero.Fs, src, dst string, ex *excluder) error {
	return copyTree(fsys, src, dst, "", ex)
}

func copyTree(fsys afero.Fs, src, dst, rel string, ex *excluder) error {
	srcInfo, err := fsys.Stat(src)
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		if ex.match(childRel) {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Mode()&os.ModeSymlink != 0:
			// Links may point outside the source; staged content is a copy.
		case entry.IsDir():
			if err := copyTree(fsys, srcPath, dstPath, childRel, ex); err != nil {
				return err
			}
		case entry.Mode().IsRegular():
			if err := copyFile(fsys, srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(fsys afero.Fs, src, dst string) error {
	data, err := afero.ReadFile(fsys, src)
	if err != nil {
		return err
	}

	srcInfo, err := fsys.Stat(src)
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, dst, data, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	// WriteFile honours the umask; restore the exact source bits.
	return fsys.Chmod(dst, srcInfo.Mode().Perm())
}
