// Package phpparser recovers REST controller metadata from PHP source text.
// It uses regular expressions over raw text, not a PHP grammar, and
// falls back to defaults wherever a pattern does not match.
package phpparser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rest-recon/internal/analyzer"
	"rest-recon/internal/model"
)

// ErrNotController is returned for files that are not REST controllers.
var ErrNotController = errors.New("not a REST controller")

// Defaults used when nothing in the source matches.
const (
	DefaultClassName   = "Unknown"
	DefaultNamespace   = "wp/v2"
	DefaultDescription = "REST API Controller"

	controllerMarker = "WP_REST"
)

var (
	classDeclRegex = regexp.MustCompile(`\bclass\s+\w+`)
	classNameRegex = regexp.MustCompile(`class\s+(\w+)\s+extends`)

	namespacePropRegex   = regexp.MustCompile(`protected\s+\$namespace\s*=\s*['"]([^'"]+)['"]`)
	namespaceAssignRegex = regexp.MustCompile(`\$this->namespace\s*=\s*['"]([^'"]+)['"]`)

	restBasePropRegex   = regexp.MustCompile(`protected\s+\$rest_base\s*=\s*['"]([^'"]+)['"]\s*;`)
	restBaseAssignRegex = regexp.MustCompile(`\$this->rest_base\s*=\s*[^;]*['"]([^'"]+)['"]\s*;`)
	firstRouteRegex     = regexp.MustCompile(`register_rest_route\s*\(\s*\$this->namespace\s*,\s*['"]/([^'"]+)['"]`)
	routeSuffixRegex    = regexp.MustCompile(`/(run|execute|autosave|revision).*$`)

	docBlockRegex     = regexp.MustCompile(`(?s)/\*\*(.*?)\*/`)
	publicMethodRegex = regexp.MustCompile(`public\s+(?:static\s+)?function\s+(\w+)\s*\(`)
)

// knownNamespaces maps tokens found anywhere in a file to the namespace they imply.
// Order matters: the first token present wins.
var knownNamespaces = []struct {
	token     string
	namespace string
}{
	{"wp-abilities", "wp-abilities/v1"},
	{"wp-site-health", "wp-site-health/v1"},
	{"wp-block-editor", "wp-block-editor/v1"},
	{"oembed/1.0", "oembed/1.0"},
	{"wp/v2", "wp/v2"},
}

// ParseController extracts controller metadata from PHP source.
// It returns an error wrapping ErrNotController when content has no class
// declaration or no WP_REST marker; otherwise every field is filled,
// with defaults where nothing matched.
func ParseController(content string) (*model.Controller, error) {
	if !classDeclRegex.MatchString(content) {
		return nil, fmt.Errorf("%w: no class declaration", ErrNotController)
	}
	if !strings.Contains(content, controllerMarker) {
		return nil, fmt.Errorf("%w: no %s marker", ErrNotController, controllerMarker)
	}

	c := &model.Controller{
		ClassName:     extractClassName(content),
		Namespace:     extractNamespace(content),
		RestBase:      extractRestBase(content),
		Description:   extractDescription(content),
		Routes:        ExtractRoutes(content),
		PublicMethods: extractPublicMethods(content),
		Capabilities: model.Capabilities{
			GetItems:   strings.Contains(content, "get_items"),
			GetItem:    strings.Contains(content, "get_item"),
			CreateItem: strings.Contains(content, "create_item"),
			UpdateItem: strings.Contains(content, "update_item"),
			DeleteItem: strings.Contains(content, "delete_item"),
		},
	}
	c.Type = DetermineType(c)
	return c, nil
}

func extractClassName(content string) string {
	if m := classNameRegex.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return DefaultClassName
}

func extractNamespace(content string) string {
	if m := namespacePropRegex.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := namespaceAssignRegex.FindStringSubmatch(content); m != nil {
		return m[1]
	}

	lower := strings.ToLower(content)
	for _, k := range knownNamespaces {
		if strings.Contains(lower, k.token) {
			return k.namespace
		}
	}
	return DefaultNamespace
}

func extractRestBase(content string) string {
	if m := restBasePropRegex.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := restBaseAssignRegex.FindStringSubmatch(content); m != nil {
		return m[1]
	}

	m := firstRouteRegex.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	path, _ := RewritePlaceholders(m[1])

	var kept []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" && !strings.Contains(seg, "{") {
			kept = append(kept, seg)
		}
	}
	base := routeSuffixRegex.ReplaceAllString("/"+strings.Join(kept, "/"), "")
	return strings.Trim(base, "/")
}

// extractDescription returns the first sentence of the first doc block.
func extractDescription(content string) string {
	m := docBlockRegex.FindStringSubmatch(content)
	if m == nil {
		return DefaultDescription
	}

	var parts []string
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if line == "" || strings.HasPrefix(line, "@") {
			continue
		}
		parts = append(parts, line)
	}

	text := analyzer.NormalizeWhitespace(strings.Join(parts, " "))
	if i := strings.Index(text, "."); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultDescription
	}
	return text + "."
}

func extractPublicMethods(content string) []string {
	var methods []string
	for _, m := range publicMethodRegex.FindAllStringSubmatch(content, -1) {
		if !strings.HasPrefix(m[1], "__") {
			methods = append(methods, m[1])
		}
	}
	return methods
}

// DetermineType applies the fixed controller type precedence.
// The first matching rule wins:
//  1. categories in the class name or base
//  2. run/execute in the class name or base, or a route under /run
//  3. a list handler (get_items) or "list" in the class name
//  4. a single-item handler without a list handler
//  5. generic
func DetermineType(c *model.Controller) model.ControllerType {
	name := strings.ToLower(c.ClassName)
	base := strings.ToLower(c.RestBase)

	if strings.Contains(name, "categories") || strings.Contains(base, "categories") {
		return model.ControllerCategories
	}
	for _, word := range []string{"run", "execute"} {
		if strings.Contains(name, word) || strings.Contains(base, word) {
			return model.ControllerAction
		}
	}
	for _, r := range c.Routes {
		if strings.Contains("/"+r.RawPath, "/run") {
			return model.ControllerAction
		}
	}
	if strings.Contains(name, "list") || c.Capabilities.GetItems {
		return model.ControllerCollection
	}
	if c.Capabilities.GetItem && !c.Capabilities.GetItems {
		return model.ControllerSingle
	}
	return model.ControllerGeneric
}
