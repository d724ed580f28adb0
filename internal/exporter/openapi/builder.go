package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"rest-recon/internal/battery"
	"rest-recon/internal/config"
	"rest-recon/internal/model"
)

// FileName is the document written into the output directory.
const FileName = "openapi.json"

// OpenAPI Root Object
type OpenAPI struct {
	OpenAPI string              `json:"openapi"`
	Info    Info                `json:"info"`
	Servers []Server            `json:"servers,omitempty"`
	Paths   map[string]PathItem `json:"paths"`
}

type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

type PathItem map[string]Operation // Key is method: "get", "post", etc.

type Operation struct {
	Summary      string              `json:"summary,omitempty"`
	OperationID  string              `json:"operationId,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Parameters   []Parameter         `json:"parameters,omitempty"`
	Responses    map[string]Response `json:"responses"`
	ResourceType string              `json:"x-resource-type,omitempty"`
	Tests        []string            `json:"x-tests,omitempty"`
}

type Parameter struct {
	Name     string `json:"name"`
	In       string `json:"in"` // "query", "path"
	Required bool   `json:"required,omitempty"`
	Schema   Schema `json:"schema"`
}

type Schema struct {
	Type string `json:"type"`
}

type Response struct {
	Description string `json:"description"`
}

// OpenAPIExporter constructs OpenAPI spec
type OpenAPIExporter struct {
	// Stateless
}

func NewOpenAPIExporter() *OpenAPIExporter {
	return &OpenAPIExporter{}
}

func (b *OpenAPIExporter) Format() string { return "openapi" }

func (b *OpenAPIExporter) Export(report *model.Report, cfg *config.Config) error {
	spec := Build(report, cfg.Target.BaseURL)

	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode openapi document: %w", err)
	}
	outputFile := filepath.Join(cfg.Output.Dir, FileName)
	if err := os.WriteFile(outputFile, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write openapi document: %w", err)
	}
	return nil
}

// Build describes the discovered route table as an OpenAPI 3 document.
func Build(report *model.Report, serverURL string) *OpenAPI {
	spec := &OpenAPI{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "Discovered REST routes",
			Version:     "battery-" + report.BatteryVersion,
			Description: "Routes reconstructed from controller sources under " + report.SourceRoot,
		},
		Paths: make(map[string]PathItem),
	}
	if serverURL != "" {
		spec.Servers = []Server{{URL: serverURL}}
	}

	for _, entry := range report.Generated {
		processEndpoint(spec, entry)
	}
	return spec
}

func processEndpoint(spec *OpenAPI, entry model.Generated) {
	ep := entry.Endpoint
	fullPath := ep.Path
	if fullPath == "" {
		return
	}
	if !strings.HasPrefix(fullPath, "/") {
		fullPath = "/" + fullPath
	}

	if _, ok := spec.Paths[fullPath]; !ok {
		spec.Paths[fullPath] = make(PathItem)
	}

	cases := battery.Cases(ep)
	for _, method := range ep.Methods {
		m := strings.ToLower(method)
		if _, exists := spec.Paths[fullPath][m]; exists {
			continue
		}

		op := Operation{
			Summary:      ep.Description,
			OperationID:  entry.Stem + "_" + m,
			Tags:         []string{ep.Controller},
			ResourceType: string(ep.ResourceType),
			Responses:    make(map[string]Response),
		}
		for _, p := range ep.Params {
			op.Parameters = append(op.Parameters, Parameter{
				Name:     p.Name,
				In:       "path",
				Required: true,
				Schema:   Schema{Type: mapType(p.Type)},
			})
		}

		for _, c := range cases {
			if c.Method != strings.ToUpper(method) {
				continue
			}
			op.Tests = append(op.Tests, c.TestName(ep))
			if c.Query != nil && len(op.Parameters) == len(ep.Params) {
				op.Parameters = append(op.Parameters,
					Parameter{Name: "page", In: "query", Schema: Schema{Type: "integer"}},
					Parameter{Name: "per_page", In: "query", Schema: Schema{Type: "integer"}},
				)
			}
			for _, status := range c.Accept {
				op.Responses[strconv.Itoa(status)] = Response{Description: http.StatusText(status)}
			}
		}
		if len(op.Responses) == 0 {
			op.Responses["200"] = Response{Description: "Successful response"}
		}
		sort.Strings(op.Tests)

		spec.Paths[fullPath][m] = op
	}
}

// mapType maps extracted parameter types to JSON Schema types
func mapType(t string) string {
	switch strings.ToLower(t) {
	case "integer", "int":
		return "integer"
	case "boolean", "bool":
		return "boolean"
	default:
		return "string"
	}
}
