package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}

	if !filepath.IsAbs(cfg.Source.RootDir) {
		t.Errorf("Expected absolute RootDir, got %s", cfg.Source.RootDir)
	}
	if cfg.Target.BaseURL != "http://localhost:8000/wp-json" {
		t.Errorf("BaseURL = %s", cfg.Target.BaseURL)
	}
	if cfg.Target.Timeout != 10*time.Second {
		t.Errorf("Timeout = %s, expected 10s", cfg.Target.Timeout)
	}
	if len(cfg.Source.Extensions) != 1 || cfg.Source.Extensions[0] != ".php" {
		t.Errorf("Extensions = %v", cfg.Source.Extensions)
	}
	if cfg.HasCredentials() {
		t.Error("Defaults must not carry credentials")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yaml := `
source:
  root_dir: ./wp-includes/rest-api/endpoints
  extensions: [php]
target:
  base_url: http://wp.test/wp-json
  timeout: 3s
output:
  dir: ./out
  formats: [markdown, excel]
`
	if err := os.WriteFile(configPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("RESTRECON_TARGET_USERNAME=admin\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RESTRECON_TARGET_APP_PASSWORD", "abcd efgh")
	t.Cleanup(func() { os.Unsetenv("RESTRECON_TARGET_USERNAME") })

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Target.BaseURL != "http://wp.test/wp-json" {
		t.Errorf("BaseURL = %s", cfg.Target.BaseURL)
	}
	if cfg.Target.Timeout != 3*time.Second {
		t.Errorf("Timeout = %s", cfg.Target.Timeout)
	}
	if cfg.Source.Extensions[0] != ".php" {
		t.Errorf("extension should be normalized with a dot, got %s", cfg.Source.Extensions[0])
	}
	if cfg.Target.Username != "admin" || cfg.Target.AppPassword != "abcd efgh" {
		t.Errorf("credentials from .env/env not applied: %q %q", cfg.Target.Username, cfg.Target.AppPassword)
	}
	if !cfg.HasCredentials() {
		t.Error("HasCredentials() should be true")
	}
	if len(cfg.Output.Formats) != 2 {
		t.Errorf("Formats = %v", cfg.Output.Formats)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := &Config{
		Source: SourceConfig{
			ExcludeDirs: []string{"**/vendor/**", "**/tests/**", ".git"},
		},
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"vendor", true},
		{"lib/vendor/autoload", true},
		{"tests/phpunit", true},
		{"endpoints", false},
		{"endpoints/class-wp-rest-posts-controller.php", false},
		{".git", true},
		{"vendors", false},
	}

	for _, tt := range tests {
		if result := cfg.ShouldExclude(tt.path); result != tt.expected {
			t.Errorf("ShouldExclude(%s) = %v, expected %v", tt.path, result, tt.expected)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	cfg := Default()
	cfg.Output.Dir = "/tmp/out"

	if got := cfg.GetOutputPath(".xlsx"); got != filepath.Join("/tmp/out", "README.xlsx") {
		t.Errorf("GetOutputPath() = %s", got)
	}
	if got := cfg.TestsPath(); got != filepath.Join("/tmp/out", "generated") {
		t.Errorf("TestsPath() = %s", got)
	}
	if got := cfg.DocsPath(); got != filepath.Join("/tmp/out", "docs") {
		t.Errorf("DocsPath() = %s", got)
	}
	if got := cfg.ArtifactsPath(); got != filepath.Join("/tmp/out", "artifacts") {
		t.Errorf("ArtifactsPath() = %s", got)
	}
}

func TestEnsureOutputDir(t *testing.T) {
	cfg := Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "nested", "out")

	if err := cfg.EnsureOutputDir(); err != nil {
		t.Fatalf("EnsureOutputDir() error: %v", err)
	}
	for _, dir := range []string{cfg.TestsPath(), cfg.DocsPath()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid config", func(*Config) {}, ""},
		{"Missing root is fine", func(c *Config) { c.Source.RootDir = "/nonexistent/directory" }, ""},
		{"Bad base URL", func(c *Config) { c.Target.BaseURL = "not a url" }, "BaseURL"},
		{"Zero timeout", func(c *Config) { c.Target.Timeout = 0 }, "Timeout"},
		{"No extensions", func(c *Config) { c.Source.Extensions = nil }, "Extensions"},
		{"Unknown format", func(c *Config) { c.Output.Formats = []string{"pdf"} }, "Formats"},
		{"Empty summary name", func(c *Config) { c.Output.FileName = "" }, "FileName"},
		{"Negative rate", func(c *Config) { c.Target.RateLimit = -1 }, "RateLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestMatchPathPattern(t *testing.T) {
	tests := []struct {
		path     string
		pattern  string
		expected bool
	}{
		{"a/vendor/b", "**/vendor/**", true},
		{"vendor", "**/vendor/**", true},
		{"a/b", "**/vendor/**", false},
		{"build", "build", true},
		{"src/build", "build", true},
		{"tmp.cache", "*.cache", true},
	}

	for _, tt := range tests {
		if result := matchPathPattern(tt.path, tt.pattern); result != tt.expected {
			t.Errorf("matchPathPattern(%s, %s) = %v, expected %v", tt.path, tt.pattern, result, tt.expected)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Source.RootDir = filepath.Join(dir, "endpoints")
	cfg.Target.BaseURL = "http://wp.test/wp-json"
	cfg.Target.Timeout = 1500 * time.Millisecond
	cfg.Target.Username = "admin"
	cfg.Target.AppPassword = "secret pass"
	cfg.Output.Formats = []string{"markdown", "html"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret pass") || strings.Contains(string(data), "admin") {
		t.Errorf("saved config carries credentials:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Target.BaseURL != cfg.Target.BaseURL || loaded.Target.Timeout != cfg.Target.Timeout {
		t.Errorf("target = %+v", loaded.Target)
	}
	if loaded.Source.RootDir != cfg.Source.RootDir {
		t.Errorf("RootDir = %s, want %s", loaded.Source.RootDir, cfg.Source.RootDir)
	}
	if strings.Join(loaded.Output.Formats, ",") != "markdown,html" {
		t.Errorf("Formats = %v", loaded.Output.Formats)
	}
}
