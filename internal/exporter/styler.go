package exporter

import (
	"github.com/xuri/excelize/v2"

	"rest-recon/internal/model"
)

// Styler handles Excel styling
type Styler struct {
	File *excelize.File

	HeaderStyle     int
	ControllerStyle int
	DefaultStyle    int
	WarningStyle    int

	// resource holds one row style per resource type.
	resource map[model.ResourceType]int
}

// resourceColors gives each battery a font color in the Endpoints sheet.
var resourceColors = map[model.ResourceType]string{
	model.ResourceCollection: "#1565C0", // blue
	model.ResourceSingle:     "#2E7D32", // green
	model.ResourceAction:     "#D32F2F", // red
	model.ResourceCategories: "#6A1B9A",
	model.ResourceGeneric:    "#757575",
}

// NewStyler creates a new Styler and explicitly registers styles
func NewStyler(f *excelize.File) (*Styler, error) {
	s := &Styler{File: f, resource: make(map[model.ResourceType]int)}
	var err error

	// Header Style: Bold, Gray Background, Center Aligned
	s.HeaderStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#000000"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	s.ControllerStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#0000FF"},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	s.DefaultStyle, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	s.WarningStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "#757575", Italic: true},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	for _, rt := range model.ResourceTypes {
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Color: resourceColors[rt]},
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    createBorder(),
		})
		if err != nil {
			return nil, err
		}
		s.resource[rt] = id
	}

	return s, nil
}

// ResourceStyle returns the row style for rt, or DefaultStyle for unknown types.
func (s *Styler) ResourceStyle(rt model.ResourceType) int {
	if id, ok := s.resource[rt]; ok {
		return id
	}
	return s.DefaultStyle
}

func createBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D4D4D4", Style: 1},
		{Type: "top", Color: "D4D4D4", Style: 1},
		{Type: "bottom", Color: "D4D4D4", Style: 1},
		{Type: "right", Color: "D4D4D4", Style: 1},
	}
}
