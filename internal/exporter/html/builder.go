package html

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"rest-recon/internal/config"
	"rest-recon/internal/exporter/common"
	"rest-recon/internal/model"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

func (e *HTMLExporter) Format() string { return "html" }

// ReportData feeds SummaryTemplate.
type ReportData struct {
	SourceRoot     string
	BatteryVersion string
	FilesScanned   int
	TotalTests     int
	Resources      []common.ResourceCount
	Groups         []common.ControllerGroup
	Endpoints      []model.Generated
	Skipped        []model.SkippedFile
	Warnings       []string
}

var reportTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"methodColor": getMethodColor,
	"methodBadge": getMethodBadge,
	"join":        strings.Join,
}).Parse(SummaryTemplate))

func (e *HTMLExporter) Export(report *model.Report, cfg *config.Config) error {
	data := ReportData{
		SourceRoot:     report.SourceRoot,
		BatteryVersion: report.BatteryVersion,
		FilesScanned:   report.FilesScanned,
		TotalTests:     report.TotalTests(),
		Resources:      common.ResourceCounts(report),
		Groups:         common.GroupByController(report),
		Endpoints:      common.SortByPath(report.Generated),
		Skipped:        report.Skipped,
		Warnings:       report.Warnings,
	}

	f, err := os.Create(cfg.GetOutputPath(".html"))
	if err != nil {
		return fmt.Errorf("failed to create html summary: %w", err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render html summary: %w", err)
	}
	return nil
}

// getMethodColor returns CSS color class for HTTP method
func getMethodColor(method string) string {
	switch strings.ToUpper(method) {
	case "GET":
		return "method-get"
	case "POST":
		return "method-post"
	case "PUT":
		return "method-put"
	case "DELETE":
		return "method-delete"
	case "HEAD":
		return "method-head"
	default:
		return "method-default"
	}
}

// getMethodBadge returns badge text for HTTP method
func getMethodBadge(method string) string {
	return strings.ToUpper(method)
}
