package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. RESTRECON_TARGET_BASE_URL.
const EnvPrefix = "RESTRECON"

// Config represents the application configuration
type Config struct {
	Source    SourceConfig    `mapstructure:"source" yaml:"source"`
	Target    TargetConfig    `mapstructure:"target" yaml:"target"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator"`
}

// SourceConfig describes where controller sources live
type SourceConfig struct {
	RootDir     string   `mapstructure:"root_dir" yaml:"root_dir" validate:"required"`
	Extensions  []string `mapstructure:"extensions" yaml:"extensions" validate:"min=1,dive,required"`
	ExcludeDirs []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs"`
	Encoding    []string `mapstructure:"encoding" yaml:"encoding" validate:"min=1"` // tried in order for non UTF-8 files
}

// TargetConfig describes the REST service the generated suite runs against.
// Credentials are never written into generated source; they reach the suite
// through the environment variables named here.
type TargetConfig struct {
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	Username    string        `mapstructure:"username" yaml:"username"`
	AppPassword string        `mapstructure:"app_password" yaml:"app_password"`
	UsernameEnv string        `mapstructure:"username_env" yaml:"username_env" validate:"required"`
	PasswordEnv string        `mapstructure:"password_env" yaml:"password_env" validate:"required"`
	RateLimit   float64       `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 = unlimited
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir          string   `mapstructure:"dir" yaml:"dir" validate:"required"`
	TestsDir     string   `mapstructure:"tests_dir" yaml:"tests_dir" validate:"required"`
	DocsDir      string   `mapstructure:"docs_dir" yaml:"docs_dir" validate:"required"`
	ArtifactsDir string   `mapstructure:"artifacts_dir" yaml:"artifacts_dir" validate:"required"`
	FileName     string   `mapstructure:"file_name" yaml:"file_name" validate:"required"` // summary file name without extension
	Formats      []string `mapstructure:"formats" yaml:"formats" validate:"dive,oneof=markdown excel html word json openapi"`
}

// GeneratorConfig controls the generated Go test modules
type GeneratorConfig struct {
	RuntimeImport string `mapstructure:"runtime_import" yaml:"runtime_import" validate:"required"`
}

// Load reads the configuration from a file or uses defaults.
// If configPath is empty, it looks for "config.yaml" in the current directory.
// A .env file next to the config is loaded first so it can feed the environment overrides.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	envFile := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) && !strings.Contains(err.Error(), "no such file") {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Println("Config file not found. Using defaults.")
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling defaults only cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Save writes c to path in the layout Load reads. Credentials are left out;
// they come from the environment or a .env file.
func (c *Config) Save(path string) error {
	doc := map[string]any{
		"source": c.Source,
		"target": map[string]any{
			"base_url":     c.Target.BaseURL,
			"timeout":      c.Target.Timeout.String(),
			"username_env": c.Target.UsernameEnv,
			"password_env": c.Target.PasswordEnv,
			"rate_limit":   c.Target.RateLimit,
		},
		"output":    c.Output,
		"generator": c.Generator,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.root_dir", "./endpoints")
	v.SetDefault("source.extensions", []string{".php"})
	v.SetDefault("source.exclude_dirs", []string{
		"**/vendor/**",
		"**/node_modules/**",
		"**/tests/**",
	})
	v.SetDefault("source.encoding", []string{"utf-8", "windows-1252"})

	v.SetDefault("target.base_url", "http://localhost:8000/wp-json")
	v.SetDefault("target.timeout", 10*time.Second)
	v.SetDefault("target.username", "")
	v.SetDefault("target.app_password", "")
	v.SetDefault("target.username_env", "APITEST_USERNAME")
	v.SetDefault("target.password_env", "APITEST_APP_PASSWORD")
	v.SetDefault("target.rate_limit", 0)

	v.SetDefault("output.dir", "./api-tests")
	v.SetDefault("output.tests_dir", "generated")
	v.SetDefault("output.docs_dir", "docs")
	v.SetDefault("output.artifacts_dir", "artifacts")
	v.SetDefault("output.file_name", "README")
	v.SetDefault("output.formats", []string{"markdown", "excel", "html", "word", "openapi"})

	v.SetDefault("generator.runtime_import", "rest-recon/pkg/apitest")
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absRoot, err := filepath.Abs(c.Source.RootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source.root_dir: %w", err)
	}
	c.Source.RootDir = absRoot

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	for i, ext := range c.Source.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Source.Extensions[i] = "." + ext
		}
	}
	return nil
}

// EnsureOutputDir creates the output directory tree if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	for _, dir := range []string{c.Output.Dir, c.TestsPath(), c.DocsPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

// ShouldExclude checks if a path relative to the source root matches exclude_dirs
func (c *Config) ShouldExclude(relPath string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range c.Source.ExcludeDirs {
		if matchPathPattern(normalized, pattern) {
			return true
		}
	}
	return false
}

// TestsPath is the directory holding one package per generated test module.
func (c *Config) TestsPath() string {
	return filepath.Join(c.Output.Dir, c.Output.TestsDir)
}

// DocsPath is the directory holding per-endpoint markdown docs.
func (c *Config) DocsPath() string {
	return filepath.Join(c.Output.Dir, c.Output.DocsDir)
}

// ArtifactsPath is where generated tests save their response captures.
func (c *Config) ArtifactsPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ArtifactsDir)
}

// GetOutputPath returns the summary path for the given extension, e.g. ".xlsx".
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+ext)
}

// LogPath is the run log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Output.Dir, "rest_recon.log")
}

// MetricsPath is the Prometheus text-format file written after each run.
func (c *Config) MetricsPath() string {
	return filepath.Join(c.Output.Dir, "metrics.prom")
}

// EnvPath is the credentials file read by the generated suite.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Output.Dir, ".env")
}

// HasCredentials reports whether both credential values are configured.
func (c *Config) HasCredentials() bool {
	return c.Target.Username != "" && c.Target.AppPassword != ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration is valid.
// A missing source root is not an error here; the scanner reports it.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// matchPathPattern checks if a path matches a glob pattern
// Supports ** for recursive directory matching
func matchPathPattern(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	path = "/" + strings.Trim(filepath.ToSlash(path), "/") + "/"

	if strings.Contains(pattern, "**") {
		parts := strings.Split(pattern, "**")
		for _, part := range parts {
			part = strings.Trim(part, "/")
			if part == "" {
				continue
			}
			if !strings.Contains(path, "/"+part+"/") {
				return false
			}
		}
		return true
	}

	if matched, err := filepath.Match(pattern, strings.Trim(path, "/")); err == nil && matched {
		return true
	}
	return strings.Contains(path, "/"+strings.Trim(pattern, "*/")+"/")
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== REST Recon Configuration ===")
	fmt.Printf("Source Root:      %s\n", c.Source.RootDir)
	fmt.Printf("Extensions:       %v\n", c.Source.Extensions)
	fmt.Printf("Exclude Dirs:     %v\n", c.Source.ExcludeDirs)
	fmt.Printf("Target Base URL:  %s\n", c.Target.BaseURL)
	fmt.Printf("Request Timeout:  %s\n", c.Target.Timeout)
	fmt.Printf("Credentials:      %s\n", c.credentialSummary())
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Summary Formats:  %v\n", c.Output.Formats)
	fmt.Println("================================")
}

func (c *Config) credentialSummary() string {
	if c.HasCredentials() {
		return fmt.Sprintf("%s (written to %s)", c.Target.Username, c.EnvPath())
	}
	return fmt.Sprintf("from $%s / $%s", c.Target.UsernameEnv, c.Target.PasswordEnv)
}
