package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rest-recon/internal/config"
	"rest-recon/internal/logger"
	"rest-recon/internal/ui"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	quiet      bool
	sourceDir  string
	outputDir  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "rest-recon",
		Short:         appName + " - " + appDesc,
		Long:          `REST Recon scans WordPress REST controller sources, reconstructs their routes and writes a runnable Go test suite with per-endpoint documentation and summary reports.`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "config.yaml", "Path to configuration file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging (DEBUG level)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Hide progress bars and the banner")
	pf.StringVarP(&flags.sourceDir, "source", "s", "", "Override source.root_dir from config")
	pf.StringVarP(&flags.outputDir, "output", "o", "", "Override output.dir from config")

	cmd.AddCommand(
		newGenerateCmd(flags),
		newScanCmd(flags),
		newWatchCmd(flags),
		newInitCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setup loads and validates the configuration, applies flag overrides and
// starts the run log. The returned func closes the log.
func (f *globalFlags) setup() (*config.Config, func(), error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if f.sourceDir != "" {
		if cfg.Source.RootDir, err = filepath.Abs(f.sourceDir); err != nil {
			return nil, nil, err
		}
	}
	if f.outputDir != "" {
		if cfg.Output.Dir, err = filepath.Abs(f.outputDir); err != nil {
			return nil, nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, nil, err
	}

	if err := logger.Init(os.Stdout, cfg.LogPath(), f.verbose); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.Close, nil
}

func (f *globalFlags) progress() *ui.Pipeline {
	p := ui.NewPipeline(ui.DefaultPhases)
	if f.quiet {
		p.Disable()
	}
	return p
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n%s\n", appName, appVersion, appDesc)
		},
	}
}
