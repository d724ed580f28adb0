package exporter

import (
	"fmt"
	"os"
	"path"
	"strings"

	"rest-recon/internal/config"
	"rest-recon/internal/exporter/common"
	"rest-recon/internal/model"
)

// MarkdownExporter writes the README index of the generated suite.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a new MarkdownExporter
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

func (e *MarkdownExporter) Format() string { return "markdown" }

// Export writes <output>/<file_name>.md
func (e *MarkdownExporter) Export(report *model.Report, cfg *config.Config) error {
	body := RenderMarkdown(report, cfg)
	if err := os.WriteFile(cfg.GetOutputPath(".md"), []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write markdown summary: %w", err)
	}
	return nil
}

// RenderMarkdown builds the summary index. The output depends only on the
// report and cfg, so repeated runs produce identical files.
func RenderMarkdown(report *model.Report, cfg *config.Config) string {
	var sb strings.Builder
	groups := common.GroupByController(report)

	sb.WriteString("# REST API Test Suite\n\n")
	fmt.Fprintf(&sb, "Generated by rest-recon from `%s`. Test battery version %s.\n\n", report.SourceRoot, report.BatteryVersion)

	sb.WriteString("## Statistics\n\n")
	sb.WriteString("| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Files scanned | %d |\n", report.FilesScanned)
	fmt.Fprintf(&sb, "| Controllers | %d |\n", len(report.Controllers))
	fmt.Fprintf(&sb, "| Endpoints | %d |\n", len(report.Generated))
	fmt.Fprintf(&sb, "| Test functions | %d |\n", report.TotalTests())
	fmt.Fprintf(&sb, "| Skipped files | %d |\n\n", len(report.Skipped))

	sb.WriteString("### Endpoints by resource type\n\n")
	sb.WriteString("| Resource type | Endpoints |\n|---|---|\n")
	for _, rc := range common.ResourceCounts(report) {
		fmt.Fprintf(&sb, "| %s | %d |\n", rc.Type, rc.Count)
	}
	sb.WriteString("\n")

	sb.WriteString("## Reading results\n\n")
	sb.WriteString("- **PASS**: the service answered with an accepted status and the response had the expected shape.\n")
	sb.WriteString("- **SKIP**: the target was unreachable or the live data a test needs was missing.\n")
	sb.WriteString("- **FAIL**: the service answered with an unexpected status or an unexpected body.\n\n")
	sb.WriteString("Negative tests pass when the service refuses correctly, for example 404 for an unknown identifier.\n\n")

	sb.WriteString("## Running\n\n")
	fmt.Fprintf(&sb, "```bash\nexport APITEST_BASE_URL=%s\nexport %s=<user>\nexport %s=<application password>\ngo test -v ./%s/...\n```\n\n",
		cfg.Target.BaseURL, cfg.Target.UsernameEnv, cfg.Target.PasswordEnv, path.Clean(cfg.Output.TestsDir))
	fmt.Fprintf(&sb, "The generated packages import `%s`, so `go test` must run inside a module that resolves it. "+
		"Either keep the output directory inside the module that provides it, or set `generator.runtime_import` "+
		"to the import path of your own copy of the runtime and add that module to your `go.mod`.\n\n",
		cfg.Generator.RuntimeImport)

	sb.WriteString("## Controllers\n\n")
	for _, g := range groups {
		c := g.Controller
		fmt.Fprintf(&sb, "### %s\n\n", c.ClassName)
		fmt.Fprintf(&sb, "%s\n\n", c.Description)
		fmt.Fprintf(&sb, "- File: `%s`\n", c.FileName)
		fmt.Fprintf(&sb, "- Type: %s\n", c.Type)
		fmt.Fprintf(&sb, "- Namespace: `%s`\n", c.Namespace)
		if c.RestBase != "" {
			fmt.Fprintf(&sb, "- Rest base: `%s`\n", c.RestBase)
		}
		fmt.Fprintf(&sb, "- Routes found: %d\n", len(c.Routes))
		if len(c.PublicMethods) > 0 {
			fmt.Fprintf(&sb, "- Public methods: %s\n", strings.Join(c.PublicMethods, ", "))
		}
		sb.WriteString("\n")

		if len(g.Entries) == 0 {
			sb.WriteString("No endpoints were generated for this controller.\n\n")
			continue
		}

		sb.WriteString("| Endpoint | Path | Methods | Type | Tests | Module | Doc |\n")
		sb.WriteString("|---|---|---|---|---|---|---|\n")
		for _, entry := range g.Entries {
			ep := entry.Endpoint
			fmt.Fprintf(&sb, "| %s | `%s` | %s | %s | %d | [%s](%s) | [%s](%s) |\n",
				ep.Name, ep.Path, strings.Join(ep.Methods, ", "), ep.ResourceType,
				len(entry.TestNames), entry.Stem, entry.TestFile, path.Base(entry.DocFile), entry.DocFile)
		}
		sb.WriteString("\n")
	}

	if len(report.Skipped) > 0 {
		sb.WriteString("## Skipped files\n\n")
		for _, s := range report.Skipped {
			fmt.Fprintf(&sb, "- `%s`: %s\n", s.Path, s.Reason)
		}
		sb.WriteString("\n")
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
