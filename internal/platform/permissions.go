package platform

import (
	"os"
	"runtime"
)

// Permission modes for generated files.
const (
	DirPerm  os.FileMode = 0o755
	FilePerm os.FileMode = 0o644
	ExecPerm os.FileMode = 0o755
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// IsExecutable reports whether any execute bit is set on path.
// Always true on Windows.
func IsExecutable(path string) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
