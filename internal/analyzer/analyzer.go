// Package analyzer finds controller sources on disk and reads them.
package analyzer

import (
	"path/filepath"

	"rest-recon/internal/config"
	"rest-recon/internal/logger"
)

// Source is one readable controller candidate.
type Source struct {
	Path    string // absolute path
	RelPath string // relative to the scan root, slash separated
	Content string
}

// Options controls which files Collect picks up.
type Options struct {
	Root       string
	Extensions []string
	Encodings  []string
	Exclude    func(relPath string) bool
}

// OptionsFrom builds scan options from the source section of cfg.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Root:       cfg.Source.RootDir,
		Extensions: cfg.Source.Extensions,
		Encodings:  cfg.Source.Encoding,
		Exclude:    cfg.ShouldExclude,
	}
}

// Collect scans opts.Root and reads every candidate. Paths that cannot be
// read or decoded are passed to onSkip and left out of the result.
// A missing root yields an empty result together with ErrRootNotFound.
func Collect(opts Options, onSkip func(path, reason string)) ([]Source, error) {
	paths, err := ScanDirectory(opts.Root, opts.Extensions, opts.Exclude, onSkip)
	if err != nil {
		return []Source{}, err
	}
	logger.Debug("Found %d candidate files under %s", len(paths), opts.Root)

	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		content, err := ReadFile(path, opts.Encodings)
		if err != nil {
			if onSkip != nil {
				onSkip(path, err.Error())
			}
			continue
		}
		rel, relErr := filepath.Rel(opts.Root, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		sources = append(sources, Source{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Content: content,
		})
	}
	return sources, nil
}
