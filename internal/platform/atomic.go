package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFile writes data to path via a temp file in the same directory
// followed by a rename, so readers see either the old or the new content.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := writeTemp(path, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s into place: %w", path, err)
	}
	return nil
}

func writeTemp(path string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("writing temp file for %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("syncing temp file for %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := Chmod(tmp, perm); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	return tmp, nil
}

// Batch collects file writes and commits them together. Every temp file is
// written before the first rename, so a write failure leaves every target
// untouched.
type Batch struct {
	files []pendingFile
}

type pendingFile struct {
	path string
	data []byte
	perm os.FileMode
}

// Add queues a write. Later writes to the same path replace earlier ones.
func (b *Batch) Add(path string, data []byte, perm os.FileMode) {
	for i := range b.files {
		if b.files[i].path == path {
			b.files[i] = pendingFile{path: path, data: data, perm: perm}
			return
		}
	}
	b.files = append(b.files, pendingFile{path: path, data: data, perm: perm})
}

// Paths returns the queued target paths in insertion order.
func (b *Batch) Paths() []string {
	paths := make([]string, len(b.files))
	for i, f := range b.files {
		paths[i] = f.path
	}
	return paths
}

// Len returns the number of queued writes.
func (b *Batch) Len() int { return len(b.files) }

// Commit writes all queued files.
func (b *Batch) Commit() error {
	temps := make([]string, 0, len(b.files))
	cleanup := func(from int) {
		for _, tmp := range temps[from:] {
			os.Remove(tmp)
		}
	}

	for _, f := range b.files {
		if info, err := os.Stat(f.path); err == nil && info.IsDir() {
			cleanup(0)
			return fmt.Errorf("%s is a directory", f.path)
		}
		tmp, err := writeTemp(f.path, f.data, f.perm)
		if err != nil {
			cleanup(0)
			return err
		}
		temps = append(temps, tmp)
	}

	for i, f := range b.files {
		if err := os.Rename(temps[i], f.path); err != nil {
			cleanup(i)
			return fmt.Errorf("renaming %s into place: %w", f.path, err)
		}
	}

	b.files = nil
	return nil
}

// SwapDir replaces dest with the fully built directory staged. The previous
// dest, if any, is removed only after staged is in place; if the final
// rename fails the previous tree is restored.
func SwapDir(fsys afero.Fs, staged, dest string) error {
	return ReplaceDir(fsys, staged, dest, nil)
}

// ReplaceDir is SwapDir with a commit step run while the previous tree is
// still kept aside. When commit fails the new tree is discarded, the
// previous one is put back and commit's error is returned as is.
func ReplaceDir(fsys afero.Fs, staged, dest string, commit func() error) error {
	old := ""
	if _, err := fsys.Stat(dest); err == nil {
		old = dest + ".old"
		if err := fsys.RemoveAll(old); err != nil {
			return fmt.Errorf("clearing %s: %w", old, err)
		}
		if err := fsys.Rename(dest, old); err != nil {
			return fmt.Errorf("moving %s aside: %w", dest, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("inspecting %s: %w", dest, err)
	}

	if err := fsys.Rename(staged, dest); err != nil {
		if old != "" {
			_ = fsys.Rename(old, dest)
		}
		return fmt.Errorf("moving %s into place: %w", dest, err)
	}

	if commit != nil {
		if err := commit(); err != nil {
			_ = fsys.RemoveAll(dest)
			if old != "" {
				_ = fsys.Rename(old, dest)
			}
			return err
		}
	}

	if old != "" {
		if err := fsys.RemoveAll(old); err != nil {
			return fmt.Errorf("removing previous %s: %w", dest, err)
		}
	}
	return nil
}
