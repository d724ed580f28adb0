// Package testgen renders one Go test file per endpoint from the battery table.
package testgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"golang.org/x/tools/imports"

	"rest-recon/internal/battery"
	"rest-recon/internal/config"
	"rest-recon/internal/model"
	"rest-recon/internal/utils"
)

//go:embed templates/test.go.tmpl
var testTemplate string

// Options carries everything a generated file needs besides the endpoint.
// Paths are relative to the generated package directory so output does not
// depend on where the generator ran.
type Options struct {
	Stem          string
	RuntimeImport string
	BaseURL       string
	Timeout       time.Duration
	UsernameEnv   string
	PasswordEnv   string
	EnvFile       string
	ArtifactsDir  string
	RateLimit     float64
}

// OptionsFor derives generator options for stem from cfg.
// Credentials never enter Options; the suite reads them from the environment.
func OptionsFor(cfg *config.Config, stem string) Options {
	pkgDir := filepath.Join(cfg.TestsPath(), stem)
	return Options{
		Stem:          stem,
		RuntimeImport: cfg.Generator.RuntimeImport,
		BaseURL:       cfg.Target.BaseURL,
		Timeout:       cfg.Target.Timeout,
		UsernameEnv:   cfg.Target.UsernameEnv,
		PasswordEnv:   cfg.Target.PasswordEnv,
		EnvFile:       relativeTo(pkgDir, cfg.EnvPath()),
		ArtifactsDir:  relativeTo(pkgDir, filepath.Join(cfg.ArtifactsPath(), stem+"_outputs")),
		RateLimit:     cfg.Target.RateLimit,
	}
}

// FileName is the artifact path of the test file for stem, relative to the tests directory.
func FileName(stem string) string {
	return path.Join(stem, stem+"_test.go")
}

type fileData struct {
	Source       string
	Version      string
	Package      string
	RuntimeAlias string
	Endpoint     model.Endpoint
	NeedsListing bool
	ListingPath  string

	Options
	Timeout   string
	RateLimit string

	Tests []testData
}

type testData struct {
	Name     string
	Title    string
	Purpose  string
	Method   string
	PathExpr string
	Query    string
	Auth     bool
	Body     string
	Artifact string
	Accept   string
	Message  string
	Checks   string
}

var tmpl = template.Must(template.New("test").Funcs(template.FuncMap{
	"quote":   strconv.Quote,
	"join":    strings.Join,
	"comment": oneLine,
}).Parse(testTemplate))

// Generate renders the test module for ep.
func Generate(ep model.Endpoint, opts Options) (model.Artifact, error) {
	if opts.Stem == "" {
		opts.Stem = utils.NormalizeName(ep.Name)
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = config.Default().Generator.RuntimeImport
	}

	data := fileData{
		Source:      ep.FileName,
		Version:     battery.Version,
		Package:     utils.PackageName(opts.Stem),
		Endpoint:    ep,
		ListingPath: ep.ListingPath(),
		Options:     opts,
		Timeout:     durationExpr(opts.Timeout),
		RateLimit:   strconv.FormatFloat(opts.RateLimit, 'g', -1, 64),
	}
	if path.Base(opts.RuntimeImport) != "apitest" {
		data.RuntimeAlias = "apitest "
	}

	for _, c := range battery.Cases(ep) {
		if c.Target == battery.TargetItem || c.Target == battery.TargetAbility {
			data.NeedsListing = true
		}
		data.Tests = append(data.Tests, testData{
			Name:     c.TestName(ep),
			Title:    c.TitleFor(ep),
			Purpose:  c.Purpose,
			Method:   c.Method,
			PathExpr: pathExpr(c, ep),
			Query:    c.QueryString(),
			Auth:     c.Auth,
			Body:     c.Body,
			Artifact: c.ArtifactName(ep),
			Accept:   joinInts(c.Accept),
			Message:  c.Message,
			Checks:   checkList(c.Checks),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return model.Artifact{}, fmt.Errorf("failed to render tests for %s: %w", ep.Name, err)
	}

	name := FileName(opts.Stem)
	formatted, err := imports.Process(name, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return model.Artifact{}, fmt.Errorf("generated tests for %s do not parse: %w", ep.Name, err)
	}

	return model.Artifact{FileName: name, Body: formatted}, nil
}

// pathExpr is the Go expression for the request path of c.
func pathExpr(c battery.Case, ep model.Endpoint) string {
	switch c.Target {
	case battery.TargetItem:
		return "client.ItemPath(t, listingPath, endpointPath)"
	case battery.TargetAbility:
		return fmt.Sprintf("apitest.Fill(endpointPath, client.Ability(t, listingPath, %s))", annotationsLiteral(c.Filter))
	case battery.TargetFixed:
		return fmt.Sprintf("apitest.Fill(endpointPath, %q)", c.Value)
	default:
		return "endpointPath"
	}
}

func annotationsLiteral(filter map[string]bool) string {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%q: %t", k, filter[k])
	}
	return "apitest.Annotations{" + strings.Join(parts, ", ") + "}"
}

var checkFuncs = map[battery.Check]string{
	battery.CheckJSON:        "apitest.JSON",
	battery.CheckAggregate:   "apitest.Aggregate",
	battery.CheckLinks:       "apitest.Links",
	battery.CheckFirstItem:   "apitest.FirstItem",
	battery.CheckObject:      "apitest.Object",
	battery.CheckIdentifier:  "apitest.Identifier",
	battery.CheckContentType: "apitest.ContentType",
	battery.CheckEmptyBody:   "apitest.EmptyBody",
}

func checkList(checks []battery.Check) string {
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		if fn, ok := checkFuncs[c]; ok {
			names = append(names, fn)
		}
	}
	return strings.Join(names, ", ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func durationExpr(d time.Duration) string {
	switch {
	case d <= 0:
		return "10 * time.Second"
	case d%time.Second == 0:
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	case d%time.Millisecond == 0:
		return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
	default:
		return fmt.Sprintf("time.Duration(%d)", int64(d))
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func relativeTo(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
