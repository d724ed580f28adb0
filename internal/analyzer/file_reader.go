package analyzer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrRootNotFound is returned with an empty result when the source root does not exist.
var ErrRootNotFound = errors.New("source root not found")

// ScanDirectory walks root and returns the sorted, de-duplicated controller candidates:
// regular files whose extension is in extensions. Directories for which exclude
// returns true (given the path relative to root) are skipped, as are VCS folders.
// Unreadable subdirectories are passed to onSkip and left out.
func ScanDirectory(root string, extensions []string, exclude func(relPath string) bool, onSkip func(path, reason string)) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if !info.IsDir() {
		return []string{}, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	seen := make(map[string]bool)
	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if onSkip != nil {
				onSkip(path, err.Error())
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".svn" {
				return filepath.SkipDir
			}
			relPath, _ := filepath.Rel(root, path)
			if relPath != "." && exclude != nil && exclude(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !hasExtension(path, extensions) {
			return nil
		}

		// Symlinked trees can surface the same file twice.
		key := path
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			key = resolved
		}
		if seen[key] {
			return nil
		}
		seen[key] = true
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
