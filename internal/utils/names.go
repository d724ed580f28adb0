package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// MaxNameLength bounds endpoint names and everything derived from them.
const MaxNameLength = 50

var (
	nonIdentRegex = regexp.MustCompile(`[^A-Za-z0-9_]`)
	underscores   = regexp.MustCompile(`_+`)
)

// NormalizeName turns arbitrary text into an identifier: letters, digits and
// single underscores, trimmed, at most MaxNameLength characters, never
// starting with a digit and never empty.
func NormalizeName(s string) string {
	name := nonIdentRegex.ReplaceAllString(s, "_")
	name = underscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name != "" && unicode.IsDigit(rune(name[0])) {
		name = "ep_" + name
	}
	if len(name) > MaxNameLength {
		name = strings.TrimRight(name[:MaxNameLength], "_")
	}
	if name == "" {
		return "endpoint"
	}
	return name
}

// Singularize strips a trailing plural marker: "categories" -> "category",
// "posts" -> "post". Words ending in "ss" are left alone.
func Singularize(s string) string {
	switch {
	case len(s) > 3 && strings.HasSuffix(s, "ies"):
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "ss"):
		return s
	case len(s) > 1 && strings.HasSuffix(s, "s"):
		return s[:len(s)-1]
	}
	return s
}

// CamelCase joins the underscore separated parts of s with each part capitalized.
func CamelCase(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(NormalizeName(s), "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// goKeywords cannot be used as package names.
var goKeywords = map[string]bool{
	"break":       true,
	"case":        true,
	"chan":        true,
	"const":       true,
	"continue":    true,
	"default":     true,
	"defer":       true,
	"else":        true,
	"fallthrough": true,
	"for":         true,
	"func":        true,
	"go":          true,
	"goto":        true,
	"if":          true,
	"import":      true,
	"interface":   true,
	"map":         true,
	"package":     true,
	"range":       true,
	"return":      true,
	"select":      true,
	"struct":      true,
	"switch":      true,
	"type":        true,
	"var":         true,
}

// IsGoKeyword reports whether name is a reserved Go keyword.
func IsGoKeyword(name string) bool {
	return goKeywords[name]
}

// PackageName derives a Go package name from a file stem.
func PackageName(stem string) string {
	name := strings.ToLower(NormalizeName(stem))
	if IsGoKeyword(name) {
		return name + "_api"
	}
	return name
}

// UniqueStem returns name, or name with the smallest "_N" suffix (N >= 2)
// not yet present in taken, and records the result in taken.
func UniqueStem(name string, taken map[string]bool) string {
	stem := strings.ToLower(name)
	if !taken[stem] {
		taken[stem] = true
		return stem
	}
	for n := 2; ; n++ {
		candidate := stem + "_" + strconv.Itoa(n)
		if !taken[candidate] {
			taken[candidate] = true
			return candidate
		}
	}
}
