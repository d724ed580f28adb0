package apitest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"
)

// Store saves responses as JSON files for later inspection.
type Store struct {
	dir string
}

// Artifact is the saved form of a response.
type Artifact struct {
	Status  int               `json:"status"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`
}

// NewStore returns a store writing under dir. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName makes name usable as a file name.
func SafeName(name string) string {
	s := strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_.")
	if s == "" {
		return "response"
	}
	return s
}

// Write saves resp as <dir>/<SafeName(name)>.json and returns the path.
func (s *Store) Write(name string, resp *Response) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	a := Artifact{
		Status:  resp.Status,
		URL:     resp.URL,
		Headers: make(map[string]string, len(resp.Header)),
	}
	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.Headers[k] = strings.Join(resp.Header[k], ", ")
	}

	if json.Valid(resp.Body) {
		a.Body = json.RawMessage(resp.Body)
	} else {
		a.Body = string(resp.Body)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}

	path := filepath.Join(s.dir, SafeName(name)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// Save is Write for tests. A failed save is logged, not fatal.
func (s *Store) Save(t testing.TB, name string, resp *Response) {
	t.Helper()
	path, err := s.Write(name, resp)
	if err != nil {
		t.Logf("could not save response: %v", err)
		return
	}
	t.Logf("saved response to %s", path)
}
