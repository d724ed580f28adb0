package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/joho/godotenv"

	"rest-recon/internal/analyzer"
	"rest-recon/internal/config"
)

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", "..", "testdata", "endpoints"))
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Source.RootDir = root
	cfg.Output.Dir = t.TempDir()
	cfg.Output.Formats = []string{"markdown", "openapi"}
	return cfg
}

func TestAnalyzeFixtures(t *testing.T) {
	cfg := fixtureConfig(t)
	report, err := Analyze(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.FilesScanned != 6 {
		t.Errorf("FilesScanned = %d, want 6", report.FilesScanned)
	}
	if len(report.Controllers) != 5 {
		t.Errorf("Controllers = %d, want 5", len(report.Controllers))
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Path != "load.php" {
		t.Errorf("Skipped = %+v", report.Skipped)
	}

	var stems []string
	for _, g := range report.Generated {
		stems = append(stems, g.Stem)
		if len(g.TestNames) == 0 {
			t.Errorf("%s has no test names", g.Stem)
		}
		if g.TestFile != "generated/"+g.Stem+"/"+g.Stem+"_test.go" || g.DocFile != "docs/"+g.Stem+".md" {
			t.Errorf("%s paths = %s, %s", g.Stem, g.TestFile, g.DocFile)
		}
	}
	want := "abilities,ability,abilities_2,categories,category,posts,post,url_details"
	if strings.Join(stems, ",") != want {
		t.Errorf("stems = %v, want %s", stems, want)
	}

	if _, err := os.Stat(cfg.TestsPath()); !errors.Is(err, fs.ErrNotExist) {
		t.Error("Analyze must not write output")
	}
}

func TestRunWritesSuite(t *testing.T) {
	cfg := fixtureConfig(t)
	report, err := Run(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, g := range report.Generated {
		for _, rel := range []string{g.TestFile, g.DocFile} {
			if _, err := os.Stat(filepath.Join(cfg.Output.Dir, filepath.FromSlash(rel))); err != nil {
				t.Errorf("missing %s: %v", rel, err)
			}
		}
	}
	for _, path := range []string{cfg.GetOutputPath(".md"), filepath.Join(cfg.Output.Dir, "openapi.json"), cfg.MetricsPath()} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
	if _, err := os.Stat(cfg.GetOutputPath(".xlsx")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("formats not requested should not be written")
	}
	if _, err := os.Stat(cfg.EnvPath()); !errors.Is(err, fs.ErrNotExist) {
		t.Error(".env written without credentials")
	}

	src, err := os.ReadFile(filepath.Join(cfg.TestsPath(), "abilities_2", "abilities_2_test.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(src, []byte("func TestExecuteWrongMethodAbilities(t *testing.T)")) {
		t.Error("action module lacks the wrong-method test")
	}
}

func TestRunWritesPrivateEnvFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	cfg := fixtureConfig(t)
	cfg.Target.Username = "admin"
	cfg.Target.AppPassword = "abcd efgh ijkl"
	if err := os.WriteFile(cfg.EnvPath(), []byte("STALE=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Run(context.Background(), cfg, Options{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	info, err := os.Stat(cfg.EnvPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf(".env mode = %o, want 600", perm)
	}
	env, err := godotenv.Read(cfg.EnvPath())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := env["STALE"]; ok || env[cfg.Target.PasswordEnv] != "abcd efgh ijkl" {
		t.Errorf(".env = %v", env)
	}
}

func TestRunKeepsCredentialsOutOfSource(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Target.Username = "admin"
	cfg.Target.AppPassword = "abcd efgh ijkl"

	if _, err := Run(context.Background(), cfg, Options{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	env, err := godotenv.Read(cfg.EnvPath())
	if err != nil {
		t.Fatalf("failed to read .env: %v", err)
	}
	if env[cfg.Target.UsernameEnv] != "admin" || env[cfg.Target.PasswordEnv] != "abcd efgh ijkl" {
		t.Errorf(".env = %v", env)
	}

	err = filepath.WalkDir(cfg.Output.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path == cfg.EnvPath() || path == cfg.LogPath() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if bytes.Contains(data, []byte("abcd efgh ijkl")) {
			t.Errorf("%s contains the application password", path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := fixtureConfig(t)

	if _, err := Run(context.Background(), cfg, Options{}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := snapshot(t, cfg.Output.Dir)

	if _, err := Run(context.Background(), cfg, Options{}); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second := snapshot(t, cfg.Output.Dir)

	if len(first) != len(second) {
		t.Fatalf("file count changed: %d then %d", len(first), len(second))
	}
	for name, body := range first {
		if second[name] != body {
			t.Errorf("%s differs between runs", name)
		}
	}
}

// snapshot reads the text outputs that must be byte-identical across runs.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		switch filepath.Ext(path) {
		case ".go", ".md", ".json":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("no outputs found")
	}
	return out
}

func TestRunMissingRoot(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Source.RootDir = filepath.Join(t.TempDir(), "nope")

	report, err := Analyze(context.Background(), cfg, Options{})
	if !errors.Is(err, analyzer.ErrRootNotFound) {
		t.Errorf("Analyze error = %v, want ErrRootNotFound", err)
	}
	if report == nil || len(report.Warnings) != 1 {
		t.Fatalf("report = %+v, want one warning", report)
	}

	report, err = Run(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("Run should not fail on a missing root: %v", err)
	}
	if len(report.Generated) != 0 || len(report.Warnings) != 1 {
		t.Errorf("report = %+v", report)
	}

	entries, err := os.ReadDir(cfg.Output.Dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) != 0 {
		t.Errorf("missing root produced artifacts: %v", names)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	cfg := fixtureConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, cfg, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestFormatsOverride(t *testing.T) {
	cfg := fixtureConfig(t)
	if _, err := Run(context.Background(), cfg, Options{Formats: []string{"html"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cfg.GetOutputPath(".html")); err != nil {
		t.Errorf("html summary missing: %v", err)
	}
	if _, err := os.Stat(cfg.GetOutputPath(".md")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("markdown written despite format override")
	}
}
