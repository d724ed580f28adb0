package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"rest-recon/internal/config"
	"rest-recon/internal/logger"
	"rest-recon/internal/pipeline"
)

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the suite whenever controller sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := flags.setup()
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			regenerate := func() {
				// no progress bars while watching
				if _, err := generate(ctx, cfg, pipeline.Options{}); err != nil && ctx.Err() == nil {
					logger.Warn("Waiting for the next change")
				}
			}
			regenerate()
			return watch(ctx, cfg, debounce, regenerate)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Quiet period after the last change before regenerating")
	return cmd
}

// watch calls onChange after source files stop changing for the debounce
// period. It returns when ctx is done.
func watch(ctx context.Context, cfg *config.Config, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirectoryRecursively(watcher, cfg); err != nil {
		return err
	}
	logger.Info("👁️  Watching %s (Ctrl+C to stop)", cfg.Source.RootDir)

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("Could not watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !relevant(cfg, event.Name) {
				continue
			}
			logger.Debug("%s %s", event.Op, event.Name)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			logger.Info("📝 Sources changed, regenerating...")
			onChange()
		}
	}
}

// addDirectoryRecursively adds root and every non-excluded subdirectory,
// since fsnotify does not watch subdirectories on its own.
func addDirectoryRecursively(watcher *fsnotify.Watcher, cfg *config.Config) error {
	root := cfg.Source.RootDir
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." && cfg.ShouldExclude(rel) {
			return filepath.SkipDir
		}
		if d.Name() == ".git" || d.Name() == ".svn" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// relevant reports whether a changed path is a source file the scanner would pick up.
func relevant(cfg *config.Config, path string) bool {
	ext := filepath.Ext(path)
	for _, want := range cfg.Source.Extensions {
		if ext == want {
			rel, err := filepath.Rel(cfg.Source.RootDir, path)
			return err == nil && !cfg.ShouldExclude(filepath.Dir(rel))
		}
	}
	return false
}
