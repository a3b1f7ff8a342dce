// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob expands a pattern that may contain `**` into the sorted list of
// regular files it matches. Directories are never returned.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", m, err)
		}
		if info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Match reports whether a path matches a glob pattern using the same rules
// as Glob.
func Match(pattern, path string) bool {
	ok, err := doublestar.PathMatch(pattern, path)
	return err == nil && ok
}

// FindByPathSuffix recursively searches rootPath for files whose slash
// separated path relative to rootPath equals suffix or ends in "/"+suffix.
// For a bare file name this is a basename match. Results are sorted.
func FindByPathSuffix(rootPath string, suffix string) ([]string, error) {
	if suffix == "" {
		panic("suffix must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == suffix || strings.HasSuffix(rel, "/"+suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// FindDirs returns rootPath and every directory below it.
func FindDirs(rootPath string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}
