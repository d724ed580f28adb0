package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rest-recon/internal/analyzer"
	"rest-recon/internal/exporter/common"
	"rest-recon/internal/model"
	"rest-recon/internal/pipeline"
)

func newScanCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List parsed controllers and their endpoints without generating the suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := flags.setup()
			if err != nil {
				return err
			}
			defer closeLog()

			report, err := pipeline.Analyze(cmd.Context(), cfg, pipeline.Options{})
			if err != nil && !errors.Is(err, analyzer.ErrRootNotFound) {
				return err
			}
			printScan(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// printScan writes one block per controller with its classified endpoints.
func printScan(out io.Writer, report *model.Report) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, g := range common.GroupByController(report) {
		c := g.Controller
		base := c.RestBase
		if base == "" {
			base = "-"
		}
		fmt.Fprintf(w, "%s\t%s\tnamespace=%s\tbase=%s\troutes=%d\n", c.ClassName, c.Type, c.Namespace, base, len(c.Routes))
		for _, entry := range g.Entries {
			ep := entry.Endpoint
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%d tests\n", entry.Stem, strings.Join(ep.Methods, ","), ep.Path, ep.ResourceType, len(entry.TestNames))
		}
	}
	w.Flush()

	for _, s := range report.Skipped {
		fmt.Fprintf(out, "skipped %s: %s\n", s.Path, s.Reason)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	fmt.Fprintf(out, "%d files, %d controllers, %d endpoints, %d tests\n",
		report.FilesScanned, len(report.Controllers), len(report.Generated), report.TotalTests())
}
