package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source abstracts read access to a project's template tree so the loader
// works the same against a local directory or a remote GitHub repository.
type Source interface {
	// Exists reports whether the given slash-separated path exists.
	Exists(path string) bool
	// ReadFile returns the contents of the file at the given path.
	ReadFile(path string) (string, error)
	// Glob returns the base names of files in dir matching pattern, sorted.
	Glob(dir, pattern string) ([]string, error)
}

// Dir is a Source rooted at a local directory.
type Dir struct {
	root string
}

// NewDir returns a Source reading from the given directory.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) abs(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

func (d *Dir) Exists(path string) bool {
	_, err := os.Stat(d.abs(path))
	return err == nil
}

func (d *Dir) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(d.abs(path))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (d *Dir) Glob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.abs(dir), pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing %s/%s: %w", dir, pattern, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// Open returns a Source for the given location. Locations starting with
// github:// are served from the GitHub contents API; everything else is
// treated as a local directory path.
func Open(location string) (Source, error) {
	if strings.HasPrefix(location, "github://") {
		ref, err := ParseGitHubURL(location)
		if err != nil {
			return nil, err
		}
		return NewGitHub(ref), nil
	}
	return NewDir(location), nil
}
