package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

//go:embed files
var embedded embed.FS

// Embedded returns the built-in template set rooted at its top directory,
// so names look like "vscode/settings.json".
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		// fs.Sub only fails for an invalid literal path.
		panic(err)
	}
	return sub
}

// New returns the template filesystem for a run. When overrideDir is set,
// names are resolved there first and fall back to the embedded set.
func New(overrideDir string) (fs.FS, error) {
	if overrideDir == "" {
		return Embedded(), nil
	}
	info, err := os.Stat(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("template directory %s: %w", overrideDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s is not a directory", overrideDir)
	}
	return overlay{os.DirFS(overrideDir), Embedded()}, nil
}

// overlay resolves a name in each layer in order.
type overlay []fs.FS

func (o overlay) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	for _, layer := range o {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// List returns the names of all regular files in fsys, sorted.
func List(fsys fs.FS) ([]string, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	sort.Strings(names)
	return names, nil
}
