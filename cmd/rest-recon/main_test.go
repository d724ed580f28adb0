package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rest-recon/internal/config"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "..", "testdata", "endpoints"))
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "REST Recon v"+appVersion) {
		t.Errorf("version output = %q", out)
	}
	if code := run([]string{"version"}); code != 0 {
		t.Errorf("run(version) = %d", code)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	if code := run([]string{"bogus"}); code != 1 {
		t.Errorf("run(bogus) = %d, want 1", code)
	}
}

func TestGenerateCommand(t *testing.T) {
	outDir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "generate", "-q", "-c", configPath, "-s", fixtureDir(t), "-o", outDir, "-f", "markdown")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for _, rel := range []string{
		"README.md",
		"metrics.prom",
		"rest_recon.log",
		filepath.Join("generated", "categories", "categories_test.go"),
		filepath.Join("docs", "abilities_2.md"),
	} {
		if _, err := os.Stat(filepath.Join(outDir, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "README.xlsx")); err == nil {
		t.Error("--format should limit the summaries written")
	}
}

func TestScanCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	outDir := t.TempDir()

	out, err := execute(t, "scan", "-c", configPath, "-s", fixtureDir(t), "-o", outDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	for _, want := range []string{
		"WP_REST_Abilities_Run_Controller",
		"/wp-abilities/v1/abilities/{name}/run",
		"skipped load.php",
		"6 files, 5 controllers, 8 endpoints",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scan output lacks %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "generated", "categories")); err == nil {
		t.Error("scan must not generate test modules")
	}
}

func TestInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "init", "--yes", "--path", path)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("init output = %q", out)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Target.BaseURL != config.Default().Target.BaseURL {
		t.Errorf("BaseURL = %s", cfg.Target.BaseURL)
	}

	if _, err := execute(t, "init", "--yes", "--path", path); err == nil {
		t.Error("init should refuse to overwrite without --force")
	}
	if _, err := execute(t, "init", "--yes", "--force", "--path", path); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestWatchDebouncesChanges(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Source.RootDir = root

	changes := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, cfg, 100*time.Millisecond, func() { changes <- struct{}{} })
	}()

	// Give the watcher time to register the root.
	time.Sleep(200 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(root, "class-wp-rest-x-controller.php"), []byte("<?php"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no regeneration after a source change")
	}
	select {
	case <-changes:
		t.Error("burst of writes should regenerate once")
	case <-time.After(400 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch returned %v", err)
	}
}

func TestRelevant(t *testing.T) {
	cfg := config.Default()
	cfg.Source.RootDir = "/src"

	tests := map[string]bool{
		"/src/class-wp-rest-posts-controller.php": true,
		"/src/sub/a.php":    true,
		"/src/vendor/a.php": false,
		"/src/readme.txt":   false,
	}
	for path, want := range tests {
		if got := relevant(cfg, path); got != want {
			t.Errorf("relevant(%s) = %v, want %v", path, got, want)
		}
	}
}
