package exporter

import (
	"fmt"
	"strings"

	"rest-recon/internal/config"
	"rest-recon/internal/exporter/common"
	"rest-recon/internal/model"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the summary workbook.
const (
	SheetOverview    = "Overview"
	SheetControllers = "Controllers"
	SheetEndpoints   = "Endpoints"
)

// ExcelExporter handles the Excel generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

func (e *ExcelExporter) Format() string { return "excel" }

// Export generates the Excel summary workbook
func (e *ExcelExporter) Export(report *model.Report, cfg *config.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return fmt.Errorf("failed to register excel styles: %w", err)
	}

	if err := e.writeOverview(f, styler, report); err != nil {
		return err
	}
	if err := e.writeControllers(f, styler, report); err != nil {
		return err
	}
	if err := e.writeEndpoints(f, styler, report); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	if err := f.SaveAs(cfg.GetOutputPath(".xlsx")); err != nil {
		return fmt.Errorf("failed to save excel summary: %w", err)
	}
	return nil
}

// --- Overview Sheet Logic ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := SheetOverview
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	row := 1
	e.writeRow(f, sheet, row, []string{"Metric", "Count"}, s.HeaderStyle)
	row++

	metrics := []struct {
		Key string
		Val int
	}{
		{"Files Scanned", report.FilesScanned},
		{"Controllers", len(report.Controllers)},
		{"Endpoints", len(report.Generated)},
		{"Test Functions", report.TotalTests()},
		{"Skipped Files", len(report.Skipped)},
		{"Warnings", len(report.Warnings)},
	}
	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
		row++
	}

	row += 2 // Spacer

	e.writeRow(f, sheet, row, []string{"Resource Type", "Endpoints"}, s.HeaderStyle)
	row++
	for _, rc := range common.ResourceCounts(report) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(rc.Type))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rc.Count)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.ResourceStyle(rc.Type))
		row++
	}

	if len(report.Skipped) > 0 {
		row += 2
		e.writeRow(f, sheet, row, []string{"Skipped File", "Reason"}, s.HeaderStyle)
		row++
		for _, sk := range report.Skipped {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sk.Path)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sk.Reason)
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.WarningStyle)
			row++
		}
	}

	f.SetColWidth(sheet, "A", "A", 40)
	f.SetColWidth(sheet, "B", "B", 30)
	return nil
}

// --- Controllers Sheet Logic ---

func (e *ExcelExporter) writeControllers(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := SheetControllers
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"No", "Class", "File", "Type", "Namespace", "Rest Base", "Routes", "Endpoints", "Tests", "Public Methods", "Description"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)
	freezeHeader(f, sheet)

	row := 2
	for i, g := range common.GroupByController(report) {
		c := g.Controller
		values := []interface{}{
			i + 1,
			c.ClassName,
			c.FileName,
			string(c.Type),
			c.Namespace,
			c.RestBase,
			len(c.Routes),
			len(g.Entries),
			g.Tests,
			strings.Join(c.PublicMethods, ", "),
			c.Description,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}

		style := s.ControllerStyle
		if len(g.Entries) == 0 {
			style = s.WarningStyle
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("K%d", row), style)
		row++
	}

	f.SetColWidth(sheet, "B", "C", 40)
	f.SetColWidth(sheet, "D", "F", 18)
	f.SetColWidth(sheet, "J", "K", 50)
	return nil
}

// --- Endpoints Sheet Logic ---

func (e *ExcelExporter) writeEndpoints(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := SheetEndpoints
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Name", "Path", "Methods", "Resource Type", "Params", "Controller", "Tests", "Test File", "Doc File"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)
	freezeHeader(f, sheet)

	row := 2
	for _, entry := range report.Generated {
		ep := entry.Endpoint
		params := make([]string, len(ep.Params))
		for i, p := range ep.Params {
			params[i] = p.Name
		}

		values := []interface{}{
			ep.Name,
			ep.Path,
			strings.Join(ep.Methods, ", "),
			string(ep.ResourceType),
			strings.Join(params, ", "),
			ep.Controller,
			len(entry.TestNames),
			entry.TestFile,
			entry.DocFile,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), s.ResourceStyle(ep.ResourceType))
		row++
	}

	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 50)
	f.SetColWidth(sheet, "F", "F", 40)
	f.SetColWidth(sheet, "H", "I", 45)
	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func freezeHeader(f *excelize.File, sheet string) {
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
