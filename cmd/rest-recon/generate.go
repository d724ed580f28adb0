package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"rest-recon/internal/config"
	"rest-recon/internal/logger"
	"rest-recon/internal/model"
	"rest-recon/internal/pipeline"
	"rest-recon/internal/ui"
)

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	var formats string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the test suite, docs and summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.quiet {
				printBanner()
			}
			cfg, closeLog, err := flags.setup()
			if err != nil {
				return err
			}
			defer closeLog()

			if flags.verbose {
				cfg.Print()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			opts := pipeline.Options{Progress: flags.progress()}
			if formats != "" {
				opts.Formats = strings.Split(formats, ",")
			}
			_, err = generate(ctx, cfg, opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "", "Comma-separated summary formats (markdown,excel,html,word,openapi); defaults to output.formats")
	return cmd
}

// generate runs one pass and prints the closing summary.
func generate(ctx context.Context, cfg *config.Config, opts pipeline.Options) (*model.Report, error) {
	report, err := pipeline.Run(ctx, cfg, opts)
	if err != nil {
		logger.Error("Generation failed: %v", err)
		return nil, err
	}
	printSummary(opts.Progress, report)
	logger.Info("✅ Generation complete. Check [%s] directory.", cfg.Output.Dir)
	return report, nil
}

func printSummary(p *ui.Pipeline, report *model.Report) {
	if p == nil {
		return
	}
	p.PrintSummary(fmt.Sprintf("Controllers: %d | Endpoints: %d | Tests: %d | Skipped: %d | Warnings: %d",
		len(report.Controllers), len(report.Generated), report.TotalTests(), len(report.Skipped), len(report.Warnings)))
	for _, line := range logger.SkippedSummary() {
		p.PrintSummary("  skipped " + line)
	}
}
