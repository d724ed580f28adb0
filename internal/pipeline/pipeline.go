// Package pipeline runs a generation pass: scan, parse, classify, synthesize
// and report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"rest-recon/internal/analyzer"
	"rest-recon/internal/battery"
	"rest-recon/internal/classifier"
	"rest-recon/internal/config"
	"rest-recon/internal/docgen"
	"rest-recon/internal/exporter"
	"rest-recon/internal/logger"
	"rest-recon/internal/metrics"
	"rest-recon/internal/model"
	"rest-recon/internal/phpparser"
	"rest-recon/internal/testgen"
	"rest-recon/internal/ui"
	"rest-recon/internal/utils"
)

// Options tunes a run. The zero value writes nothing to the console.
type Options struct {
	Progress *ui.Pipeline // nil disables progress bars
	Formats  []string     // overrides cfg.Output.Formats when non-empty
}

func (o Options) progress() *ui.Pipeline {
	if o.Progress != nil {
		return o.Progress
	}
	p := ui.NewPipeline(ui.DefaultPhases)
	p.Disable()
	return p
}

// Analyze scans, parses and classifies the sources under cfg.Source.RootDir
// without writing anything. Generated entries carry their stems, their
// planned file paths and their test names.
//
// A missing root is reported once as a warning; the empty report is returned
// together with an error wrapping analyzer.ErrRootNotFound.
func Analyze(ctx context.Context, cfg *config.Config, opts Options) (*model.Report, error) {
	report := model.NewReport(cfg.Source.RootDir, battery.Version)
	progress := opts.progress()

	// Scanning
	logger.Info("Phase 1: Scanning %s", cfg.Source.RootDir)
	scanBar := progress.NextPhase(1)
	sources, err := analyzer.Collect(analyzer.OptionsFrom(cfg), func(path, reason string) {
		rel := relPath(cfg.Source.RootDir, path)
		logger.LogSkippedFile(rel, reason)
		report.AddSkipped(rel, reason)
	})
	scanBar.Increment()
	if errors.Is(err, analyzer.ErrRootNotFound) {
		msg := fmt.Sprintf("source root %s does not exist or is not a directory", cfg.Source.RootDir)
		logger.Warn("%s", msg)
		report.AddWarning(msg)
		progress.Finish()
		return report, err
	}
	if err != nil {
		progress.Finish()
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}
	report.FilesScanned = len(sources) + len(report.Skipped)

	// Parsing
	logger.Info("Phase 2: Parsing %d files", len(sources))
	parseBar := progress.NextPhase(len(sources))
	var controllers []*model.Controller
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			progress.Finish()
			return nil, err
		}
		parseBar.Describe(filepath.Base(src.Path))

		c, err := phpparser.ParseController(src.Content)
		if err != nil {
			logger.LogSkippedFile(src.RelPath, err.Error())
			report.AddSkipped(src.RelPath, err.Error())
			parseBar.Increment()
			continue
		}
		c.FileName = filepath.Base(src.Path)
		c.FilePath = src.Path
		controllers = append(controllers, c)
		parseBar.Increment()
	}

	// Classifying
	logger.Info("Phase 3: Classifying %d controllers", len(controllers))
	classifyBar := progress.NextPhase(len(controllers))
	taken := make(map[string]bool)
	for _, c := range controllers {
		report.AddController(*c)
		endpoints := classifier.Classify(c)
		logController(c, len(endpoints))

		if len(endpoints) == 0 {
			report.AddWarning(fmt.Sprintf("%s (%s): no endpoints generated for %s controller", c.ClassName, c.FileName, c.Type))
		}
		for _, ep := range endpoints {
			stem := utils.UniqueStem(ep.Name, taken)
			report.AddGenerated(model.Generated{
				Endpoint:  ep,
				Stem:      stem,
				TestFile:  filepath.ToSlash(filepath.Join(cfg.Output.TestsDir, testgen.FileName(stem))),
				DocFile:   filepath.ToSlash(filepath.Join(cfg.Output.DocsDir, docgen.FileName(stem))),
				TestNames: battery.TestNames(ep),
			})
		}
		classifyBar.Increment()
	}
	progress.Finish()

	return report, nil
}

// Run performs a full generation pass and writes every artifact under cfg.Output.Dir.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*model.Report, error) {
	progress := opts.progress()
	opts.Progress = progress

	report, err := Analyze(ctx, cfg, opts)
	if errors.Is(err, analyzer.ErrRootNotFound) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	// Generating
	logger.Info("Phase 4: Generating %d test modules", len(report.Generated))
	genBar := progress.NextPhase(len(report.Generated))
	for _, g := range report.Generated {
		if err := ctx.Err(); err != nil {
			progress.Finish()
			return nil, err
		}
		genBar.Describe(g.Stem)
		if err := writeEndpoint(cfg, g); err != nil {
			progress.Finish()
			return nil, err
		}
		genBar.Increment()
	}

	if cfg.HasCredentials() {
		if err := writeEnv(cfg); err != nil {
			progress.Finish()
			return nil, err
		}
	}

	// Reporting
	formats := cfg.Output.Formats
	if len(opts.Formats) > 0 {
		formats = opts.Formats
	}
	exporters := exporter.GetExporters(formats)
	logger.Info("Phase 5: Writing %d summaries", len(exporters))
	reportBar := progress.NextPhase(len(exporters) + 1)
	for _, exp := range exporters {
		reportBar.Describe(exp.Format())
		if err := exp.Export(report, cfg); err != nil {
			progress.Finish()
			return nil, fmt.Errorf("%s export failed: %w", exp.Format(), err)
		}
		reportBar.Increment()
	}

	m := metrics.NewMetrics()
	m.RecordReport(report)
	if err := m.WriteFile(cfg.MetricsPath()); err != nil {
		progress.Finish()
		return nil, fmt.Errorf("failed to write metrics: %w", err)
	}
	reportBar.Increment()
	progress.Finish()

	return report, nil
}

func writeEndpoint(cfg *config.Config, g model.Generated) error {
	test, err := testgen.Generate(g.Endpoint, testgen.OptionsFor(cfg, g.Stem))
	if err != nil {
		return fmt.Errorf("failed to generate tests for %s: %w", g.Endpoint.Path, err)
	}
	if err := writeArtifact(cfg.TestsPath(), test); err != nil {
		return err
	}

	doc, err := docgen.Generate(g.Endpoint, docgen.OptionsFor(cfg, g.Stem))
	if err != nil {
		return fmt.Errorf("failed to generate docs for %s: %w", g.Endpoint.Path, err)
	}
	return writeArtifact(cfg.DocsPath(), doc)
}

func writeArtifact(dir string, a model.Artifact) error {
	path := filepath.Join(dir, filepath.FromSlash(a.FileName))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, a.Body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Debug("Wrote %s", path)
	return nil
}

// writeEnv hands configured credentials to the generated suite through a
// .env file, so they never appear in generated source.
func writeEnv(cfg *config.Config) error {
	env := map[string]string{
		cfg.Target.UsernameEnv: cfg.Target.Username,
		cfg.Target.PasswordEnv: cfg.Target.AppPassword,
	}
	content, err := godotenv.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", cfg.EnvPath(), err)
	}

	f, err := os.OpenFile(cfg.EnvPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.EnvPath(), err)
	}
	defer f.Close()
	// an existing file keeps its mode on open
	if err := f.Chmod(0600); err != nil {
		return fmt.Errorf("failed to restrict %s: %w", cfg.EnvPath(), err)
	}
	if _, err := f.WriteString(content + "\n"); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.EnvPath(), err)
	}
	return f.Sync()
}

func logController(c *model.Controller, endpoints int) {
	base := c.RestBase
	if base == "" {
		base = "-"
	}
	logger.Debug("%s [%s] namespace=%s base=%s routes=%d endpoints=%d",
		c.ClassName, c.Type, c.Namespace, base, len(c.Routes), endpoints)
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
