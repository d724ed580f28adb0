package phpparser

import (
	"fmt"
	"regexp"
	"strings"

	"rest-recon/internal/analyzer"
	"rest-recon/internal/logger"
	"rest-recon/internal/model"
)

// lookAhead bounds how far past a call site the options block is searched.
const lookAhead = 1000

var (
	// register_rest_route( $this->namespace | 'ns', '/path'
	callSiteRegex = regexp.MustCompile(`register_rest_route\s*\(\s*(\$this->namespace|'[^']+'|"[^"]+")\s*,\s*['"]([^'"]*)['"]`)
	methodsRegex  = regexp.MustCompile(`['"]methods['"]\s*=>\s*([^\n]*)`)
	// {4} or {2,8}
	repeatRegex = regexp.MustCompile(`^\{\d+(?:,\d*)?\}`)
)

// methodConstants maps WP_REST_Server constants to verbs, in emission order.
var methodConstants = []struct {
	name string
	verb string
}{
	{"READABLE", "GET"},
	{"CREATABLE", "POST"},
	{"EDITABLE", "PUT"},
	{"DELETABLE", "DELETE"},
}

// allMethods is what ALLMETHODS expands to.
var allMethods = []string{"GET", "POST", "DELETE"}

// ExtractRoutes finds every route registration in content.
// Call sites with an empty or root-only path are skipped. It never fails;
// anything it cannot interpret falls back to a default.
func ExtractRoutes(content string) []model.Route {
	sites := callSiteRegex.FindAllStringSubmatchIndex(content, -1)
	routes := make([]model.Route, 0, len(sites))

	for i, m := range sites {
		raw := strings.TrimLeft(content[m[4]:m[5]], "/")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		end := m[1] + lookAhead
		if i+1 < len(sites) && sites[i+1][0] < end {
			end = sites[i+1][0]
		}
		if end > len(content) {
			end = len(content)
		}

		path, params := RewritePlaceholders(raw)
		route := model.Route{
			RawPath: raw,
			Path:    path,
			Methods: extractMethods(content[m[1]:end]),
			Params:  params,
		}
		if ns := content[m[2]:m[3]]; !strings.HasPrefix(ns, "$") {
			route.Namespace = strings.Trim(analyzer.TrimQuotes(ns), "/")
		}

		logger.Debug("[PARSER] route %s %v", route.Path, route.Methods)
		routes = append(routes, route)
	}
	return routes
}

// extractMethods reads the allowed-method constants from the options that follow a call site.
func extractMethods(window string) []string {
	found := make(map[string]bool)
	all := false

	for _, m := range methodsRegex.FindAllStringSubmatch(window, -1) {
		value := m[1]
		if strings.Contains(value, "ALLMETHODS") {
			all = true
		}
		for _, c := range methodConstants {
			if strings.Contains(value, c.name) {
				found[c.verb] = true
			}
		}
	}

	if all {
		return append([]string(nil), allMethods...)
	}

	methods := make([]string, 0, len(found))
	for _, c := range methodConstants {
		if found[c.verb] {
			methods = append(methods, c.verb)
		}
	}
	if len(methods) == 0 {
		return []string{"GET"}
	}
	return methods
}

// RewritePlaceholders replaces capture groups in a route pattern with {name}.
// Named groups keep their name, unnamed capturing groups and bare classes
// such as \d or [a-z] become {argN}, non-capturing groups are unwrapped and
// lookarounds are dropped. Quantifiers, {n,m} included, are dropped.
// The returned params are in order of first appearance.
func RewritePlaceholders(raw string) (string, []model.Param) {
	var params []model.Param
	seen := make(map[string]bool)
	unnamed := 0

	addParam := func(name string) {
		if !seen[name] {
			seen[name] = true
			params = append(params, model.Param{Name: name, Type: "string"})
		}
	}

	placeholder := func(b *strings.Builder) {
		unnamed++
		name := fmt.Sprintf("arg%d", unnamed)
		addParam(name)
		fmt.Fprintf(b, "{%s}", name)
	}

	// skipRepeat returns the index of the last quantifier byte following s[i].
	skipRepeat := func(s string, i int) int {
		for i+1 < len(s) {
			if strings.ContainsRune("?*+", rune(s[i+1])) {
				i++
				continue
			}
			if m := repeatRegex.FindString(s[i+1:]); m != "" {
				i += len(m)
				continue
			}
			break
		}
		return i
	}

	var rewrite func(s string) string
	rewrite = func(s string) string {
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			c := s[i]
			switch {
			case c == '\\' && i+1 < len(s):
				i++
				if strings.IndexByte("dDwWsS", s[i]) >= 0 {
					placeholder(&b)
					i = skipRepeat(s, i)
					continue
				}
				// An escaped literal such as \/ or \. stands for the character itself.
				b.WriteByte(s[i])
				continue
			case c == '[':
				end := i + 1
				for end < len(s) && s[end] != ']' {
					if s[end] == '\\' {
						end++
					}
					end++
				}
				placeholder(&b)
				i = skipRepeat(s, min(end, len(s)-1))
				continue
			case c == '{':
				if m := repeatRegex.FindString(s[i:]); m != "" {
					i += len(m) - 1
					continue
				}
				b.WriteByte(c)
				continue
			case c != '(':
				b.WriteByte(c)
				continue
			}

			end := matchingParen(s, i)
			body := s[i+1 : end]

			switch {
			case strings.HasPrefix(body, "?=") || strings.HasPrefix(body, "?!") ||
				strings.HasPrefix(body, "?<=") || strings.HasPrefix(body, "?<!"):
				// zero-width
			case strings.HasPrefix(body, "?P<") || strings.HasPrefix(body, "?<"):
				start := strings.Index(body, "<") + 1
				if gt := strings.Index(body, ">"); gt > start {
					name := body[start:gt]
					addParam(name)
					fmt.Fprintf(&b, "{%s}", name)
				} else {
					placeholder(&b)
				}
			case strings.HasPrefix(body, "?:"):
				b.WriteString(rewrite(body[2:]))
			default:
				placeholder(&b)
			}

			i = skipRepeat(s, end)
		}
		return b.String()
	}

	path := strings.Trim(rewrite(raw), "/")
	return path, params
}

// matchingParen returns the index of the parenthesis closing the group opened at open,
// or len(s) when the group is unbalanced. Escapes and character classes are skipped.
func matchingParen(s string, open int) int {
	depth := 0
	inClass := false
	for i := open; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}
