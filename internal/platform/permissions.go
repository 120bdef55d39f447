package platform

import (
	"os"
	"runtime"
)

// Default permissions for files and directories created in a workspace.
const (
	FilePermDefault os.FileMode = 0644
	DirPermDefault  os.FileMode = 0755
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// ModeOf returns the permission bits of an existing file, or fallback when
// the file cannot be stat'ed. Replacing a file keeps the mode the user gave it.
func ModeOf(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}
