package analyzer

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ReadFile reads a source file with encoding fallback.
// Valid UTF-8 is returned as is. Otherwise each non UTF-8 name in encodings
// (WHATWG labels such as "windows-1252" or "euc-kr") is tried in order.
// Comments are kept: controller descriptions live in doc blocks.
func ReadFile(path string, encodings []string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return BytesToString(raw, encodings)
}

// BytesToString decodes data as UTF-8 or with the first fallback encoding that succeeds.
func BytesToString(data []byte, encodings []string) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, name := range encodings {
		enc, err := lookupEncoding(name)
		if err != nil || enc == nil {
			continue
		}
		decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err == nil {
			return string(decoded), nil
		}
	}

	return string(data), fmt.Errorf("no decoder in %v could read the file", encodings)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	return htmlindex.Get(name)
}

var wsRegex = regexp.MustCompile(`\s+`)

// NormalizeWhitespace reduces runs of whitespace to a single space
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(wsRegex.ReplaceAllString(s, " "))
}

// TrimQuotes removes surrounding quotes from a string
func TrimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
