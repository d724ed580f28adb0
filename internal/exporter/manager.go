package exporter

import (
	"strings"

	"rest-recon/internal/exporter/html"
	"rest-recon/internal/exporter/openapi"
	"rest-recon/internal/exporter/word"
)

// GetExporters returns the exporters for the requested formats, in request
// order and without duplicates. Unknown names are ignored.
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))

		var e Exporter
		switch fmtStr {
		case "markdown", "md":
			e = NewMarkdownExporter()
		case "excel", "xlsx":
			e = NewExcelExporter()
		case "html":
			e = html.NewHTMLExporter()
		case "word", "docx":
			e = word.NewWordExporter()
		case "openapi", "swagger", "json":
			e = openapi.NewOpenAPIExporter()
		default:
			continue
		}

		if seen[e.Format()] {
			continue
		}
		seen[e.Format()] = true
		exporters = append(exporters, e)
	}

	return exporters
}
