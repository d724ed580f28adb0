// Package docgen renders the markdown document that accompanies each generated test module.
package docgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rest-recon/internal/battery"
	"rest-recon/internal/config"
	"rest-recon/internal/model"
	"rest-recon/internal/testgen"
)

//go:embed templates/endpoint.md.tmpl
var docTemplate string

// Options locates the generated module relative to the output directory.
type Options struct {
	Stem         string
	TestsDir     string // tests directory relative to the output directory
	ArtifactsDir string // artifacts directory relative to the output directory
	BaseURL      string
	UsernameEnv  string
	PasswordEnv  string
}

// OptionsFor derives doc options for stem from cfg.
func OptionsFor(cfg *config.Config, stem string) Options {
	return Options{
		Stem:         stem,
		TestsDir:     filepath.ToSlash(cfg.Output.TestsDir),
		ArtifactsDir: path.Join(filepath.ToSlash(cfg.Output.ArtifactsDir), stem+"_outputs"),
		BaseURL:      cfg.Target.BaseURL,
		UsernameEnv:  cfg.Target.UsernameEnv,
		PasswordEnv:  cfg.Target.PasswordEnv,
	}
}

// FileName is the document name for stem, relative to the docs directory.
func FileName(stem string) string {
	return stem + ".md"
}

type docData struct {
	Options
	Title       string
	Version     string
	Endpoint    model.Endpoint
	TestFile    string
	PackageDir  string
	ListingPath string
	FirstTest   string
	Tests       []caseDoc
	Negative    []caseDoc
}

type caseDoc struct {
	Name    string
	Title   string
	Purpose string
	Request string
	Accept  string
	Skips   string
	Message string
	Checks  string
}

var (
	titler = cases.Title(language.English)
	tmpl   = template.Must(template.New("doc").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(docTemplate))
)

// Generate renders the document for ep. It lists the same test functions,
// in the same order, as testgen.Generate does for ep.
func Generate(ep model.Endpoint, opts Options) (model.Artifact, error) {
	if opts.Stem == "" {
		opts.Stem = ep.Name
	}
	if opts.TestsDir == "" {
		opts.TestsDir = "generated"
	}

	data := docData{
		Options:     opts,
		Title:       titler.String(strings.ReplaceAll(ep.Name, "_", " ")),
		Version:     battery.Version,
		Endpoint:    ep,
		TestFile:    path.Join(opts.TestsDir, testgen.FileName(opts.Stem)),
		PackageDir:  path.Join(opts.TestsDir, opts.Stem),
		ListingPath: ep.ListingPath(),
	}

	for _, c := range battery.Cases(ep) {
		d := caseDoc{
			Name:    c.TestName(ep),
			Title:   c.TitleFor(ep),
			Purpose: c.Purpose,
			Request: describeRequest(c, ep),
			Accept:  statusList(c.Accept),
			Skips:   strings.Join(c.SkipConditions(), "; "),
			Message: c.Message,
			Checks:  checkList(c.Checks),
		}
		data.Tests = append(data.Tests, d)
		if !c.PassesOn(http.StatusOK) {
			data.Negative = append(data.Negative, d)
		}
	}
	if len(data.Tests) > 0 {
		data.FirstTest = data.Tests[0].Name
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return model.Artifact{}, fmt.Errorf("failed to render docs for %s: %w", ep.Name, err)
	}
	return model.Artifact{FileName: FileName(opts.Stem), Body: buf.Bytes()}, nil
}

func describeRequest(c battery.Case, ep model.Endpoint) string {
	var b strings.Builder
	b.WriteString(c.Method)
	b.WriteString(" `")
	b.WriteString(ep.Path)
	if q := c.QueryString(); q != "" {
		b.WriteString("?" + q)
	}
	b.WriteString("`")

	switch c.Target {
	case battery.TargetItem:
		names := []string{"`id`"}
		if len(ep.Params) > 0 {
			names = names[:0]
			for _, p := range ep.Params {
				names = append(names, "`"+p.Name+"`")
			}
		}
		fmt.Fprintf(&b, " with live %s from the listing", strings.Join(names, ", "))
	case battery.TargetFixed:
		fmt.Fprintf(&b, " with `%s`", c.Value)
	case battery.TargetAbility:
		fmt.Fprintf(&b, " with an ability where %s", battery.FilterString(c.Filter))
	}
	if !c.Auth {
		b.WriteString(", no credentials")
	}
	if c.Body != "" {
		fmt.Fprintf(&b, ", body `%s`", c.Body)
	}
	return b.String()
}

func statusList(codes []int) string {
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = strconv.Itoa(code)
	}
	return strings.Join(parts, ", ")
}

var checkDescriptions = map[battery.Check]string{
	battery.CheckJSON:        "body is JSON",
	battery.CheckAggregate:   "body is an array of objects or a keyed object",
	battery.CheckLinks:       "`_links` is an object when present",
	battery.CheckFirstItem:   "first item is a non-empty object",
	battery.CheckObject:      "body is a non-empty object",
	battery.CheckIdentifier:  "object has an id, slug or name",
	battery.CheckContentType: "Content-Type header is set",
	battery.CheckEmptyBody:   "body is empty",
}

func checkList(checks []battery.Check) string {
	parts := make([]string, 0, len(checks))
	for _, c := range checks {
		parts = append(parts, checkDescriptions[c])
	}
	return strings.Join(parts, "; ")
}
