package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// tmpPattern is the CreateTemp pattern for in-flight writes. The leading dot
// keeps editors and file watchers from picking the file up.
const tmpPattern = ".%s.tmp-*"

// WriteFileAtomic writes data to path by writing a temporary file in the same
// directory, syncing it, and renaming it over path. Readers see either the old
// content or the new content, never a partial file. On any failure the
// temporary file is removed and path is left untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	f, err := os.CreateTemp(dir, fmt.Sprintf(tmpPattern, filepath.Base(path)))
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := f.Name()

	cleanup := func() {
		f.Close()
		os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}

	// CreateTemp always uses 0600.
	if err := Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}

// ResolveLink returns the file a symlink at path points to, so that an atomic
// replace updates the link's target and leaves the link in place. A dangling
// link resolves one level through its stored destination. Paths that are not
// symlinks are returned unchanged.
func ResolveLink(path string) string {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dest, err := os.Readlink(path)
	if err != nil {
		return path
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return dest
}
