package word

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"rest-recon/internal/config"
	"rest-recon/internal/exporter/common"
	"rest-recon/internal/model"

	"github.com/nguyenthenguyen/docx"
)

// Placeholders replaced in the template document.
const (
	PlaceholderSource      = "{{Source}}"
	PlaceholderControllers = "{{TotalControllers}}"
	PlaceholderEndpoints   = "{{TotalEndpoints}}"
	PlaceholderContent     = "{{Content}}"
)

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Format() string { return "word" }

func (e *WordExporter) Export(report *model.Report, cfg *config.Config) error {
	// docx only reads templates from disk.
	tmpFile, err := os.CreateTemp("", "rest-recon-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if err := WriteTemplate(tmpFile); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write template: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	r, err := docx.ReadDocxFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read docx template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	doc.Replace(PlaceholderSource, report.SourceRoot, -1)
	doc.Replace(PlaceholderControllers, fmt.Sprintf("%d", len(report.Controllers)), -1)
	doc.Replace(PlaceholderEndpoints, fmt.Sprintf("%d", len(report.Generated)), -1)

	// The library handles XML encoding and line breaks.
	doc.Replace(PlaceholderContent, BuildContent(report), -1)

	if err := doc.WriteToFile(cfg.GetOutputPath(".docx")); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}
	return nil
}

// BuildContent renders the plain-text body of the Word summary.
func BuildContent(report *model.Report) string {
	var sb strings.Builder

	sb.WriteString("REST API TEST SUITE\n\n")
	sb.WriteString("Summary Overview:\n")
	sb.WriteString(fmt.Sprintf("  • Files scanned: %d\n", report.FilesScanned))
	sb.WriteString(fmt.Sprintf("  • Endpoints: %d\n", len(report.Generated)))
	sb.WriteString(fmt.Sprintf("  • Test functions: %d\n", report.TotalTests()))
	sb.WriteString(fmt.Sprintf("  • Skipped files: %d\n", len(report.Skipped)))
	for _, rc := range common.ResourceCounts(report) {
		sb.WriteString(fmt.Sprintf("  • %s: %d\n", rc.Type, rc.Count))
	}
	sb.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")

	groups := common.GroupByController(report)
	for i, g := range groups {
		buildControllerText(&sb, g)
		if i < len(groups)-1 {
			sb.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
	}
	return sb.String()
}

func buildControllerText(sb *strings.Builder, g common.ControllerGroup) {
	c := g.Controller
	sb.WriteString(fmt.Sprintf("%s (%s)\n", c.ClassName, c.Type))
	sb.WriteString(fmt.Sprintf("File: %s\n", c.FileName))
	sb.WriteString(fmt.Sprintf("Namespace: %s\n", c.Namespace))
	if c.Description != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", c.Description))
	}
	sb.WriteString("\n")

	if len(g.Entries) == 0 {
		sb.WriteString("No endpoints generated.\n")
		return
	}

	sb.WriteString(fmt.Sprintf("%-25s %-45s %-18s %-12s %s\n", "Endpoint", "Path", "Methods", "Type", "Tests"))
	sb.WriteString(strings.Repeat("-", 110) + "\n")
	for _, entry := range g.Entries {
		ep := entry.Endpoint
		sb.WriteString(fmt.Sprintf("%-25s %-45s %-18s %-12s %d\n",
			truncate(ep.Name, 25),
			truncate(ep.Path, 45),
			truncate(strings.Join(ep.Methods, ","), 18),
			ep.ResourceType,
			len(entry.TestNames)))
	}
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// WriteTemplate writes the minimal .docx package the exporter fills in.
func WriteTemplate(out io.Writer) error {
	w := zip.NewWriter(out)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>REST API Test Suite</w:t></w:r></w:p>
<w:p><w:r><w:t>Source: ` + PlaceholderSource + `</w:t></w:r></w:p>
<w:p><w:r><w:t>Total Controllers: ` + PlaceholderControllers + `</w:t></w:r></w:p>
<w:p><w:r><w:t>Total Endpoints: ` + PlaceholderEndpoints + `</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">` + PlaceholderContent + `</w:t></w:r></w:p>
</w:body>
</w:document>`},
	}

	for _, p := range parts {
		fw, err := w.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(fw, p.body); err != nil {
			return err
		}
	}
	return w.Close()
}
