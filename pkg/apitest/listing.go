package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"
)

// ErrNoFixture means the live listing could not supply what a test needs.
var ErrNoFixture = errors.New("no usable fixture in listing")

// Annotations filters abilities by their meta.annotations flags.
type Annotations map[string]bool

var placeholderRegex = regexp.MustCompile(`\{[^/{}]+\}`)

// Fill replaces every {placeholder} in path with value. Each segment of
// value is escaped; slashes are kept since ability names contain them.
func Fill(path, value string) string {
	return placeholderRegex.ReplaceAllLiteralString(path, escapeSegments(value))
}

func escapeSegments(value string) string {
	segments := strings.Split(value, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// ResolvePath fills the placeholders of path from the first item listed at
// listPath. Each placeholder takes the item's field of the same name. The last
// one falls back to slug, name, then id. When that value has more segments
// than one, they fill the unresolved placeholders directly before it, so
// "core/paragraph" fills "{namespace}/{name}".
func (c *Client) ResolvePath(ctx context.Context, listPath, path string) (string, error) {
	locs := placeholderRegex.FindAllStringIndex(path, -1)
	if len(locs) == 0 {
		return path, nil
	}

	items, err := c.listing(ctx, listPath)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrNoFixture, listPath)
	}
	var item map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &item); err != nil {
		return "", fmt.Errorf("%w: first item of %s is not an object", ErrNoFixture, listPath)
	}

	names := make([]string, len(locs))
	values := make([]string, len(locs))
	for i, loc := range locs {
		names[i] = path[loc[0]+1 : loc[1]-1]
		values[i], _ = scalar(item[names[i]])
	}

	last := len(locs) - 1
	if values[last] == "" {
		values[last] = identifierOf(item)
	}

	first := last
	for first > 0 && values[first-1] == "" && path[locs[first-1][1]:locs[first][0]] == "/" {
		first--
	}
	if first < last {
		if parts := strings.SplitN(values[last], "/", last-first+1); len(parts) == last-first+1 {
			copy(values[first:], parts)
		}
	}

	var b strings.Builder
	prev := 0
	for i, loc := range locs {
		if values[i] == "" {
			return "", fmt.Errorf("%w: first item of %s has no %s", ErrNoFixture, listPath, names[i])
		}
		b.WriteString(path[prev:loc[0]])
		b.WriteString(escapeSegments(values[i]))
		prev = loc[1]
	}
	b.WriteString(path[prev:])
	return b.String(), nil
}

// ItemPath is ResolvePath for tests: it skips when the listing cannot fill path.
func (c *Client) ItemPath(t testing.TB, listPath, path string) string {
	t.Helper()
	p, err := c.ResolvePath(context.Background(), listPath, path)
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	return p
}

func identifierOf(item map[string]json.RawMessage) string {
	for _, key := range []string{"slug", "name", "id"} {
		if v, ok := scalar(item[key]); ok {
			return v
		}
	}
	return "1"
}

// FindAbility lists the abilities at listPath and returns the name of the
// first one whose annotations match every entry of filter. A missing
// annotation never matches.
func (c *Client) FindAbility(ctx context.Context, listPath string, filter Annotations) (string, error) {
	items, err := c.listing(ctx, listPath)
	if err != nil {
		return "", err
	}

	for _, raw := range items {
		var ability struct {
			Name string `json:"name"`
			Meta struct {
				Annotations map[string]any `json:"annotations"`
			} `json:"meta"`
		}
		if err := json.Unmarshal(raw, &ability); err != nil || ability.Name == "" {
			continue
		}
		if matches(ability.Meta.Annotations, filter) {
			return ability.Name, nil
		}
	}
	return "", fmt.Errorf("%w: no ability with %v", ErrNoFixture, filter)
}

// Ability is FindAbility for tests: it skips when nothing matches.
func (c *Client) Ability(t testing.TB, listPath string, filter Annotations) string {
	t.Helper()
	name, err := c.FindAbility(context.Background(), listPath, filter)
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	return name
}

func matches(annotations map[string]any, filter Annotations) bool {
	for key, want := range filter {
		got, ok := annotations[key].(bool)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// listing fetches listPath with credentials and returns its items in order.
// Both a JSON array and a keyed object are accepted.
func (c *Client) listing(ctx context.Context, listPath string) ([]json.RawMessage, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: listPath, Auth: true})
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s answered %d", ErrNoFixture, listPath, resp.Status)
	}
	items, err := orderedItems(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoFixture, listPath, err)
	}
	return items, nil
}

// orderedItems returns array elements, or object values in document order.
func orderedItems(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var items []json.RawMessage
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			var v json.RawMessage
			if err := dec.Decode(&v); err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	default:
		return nil, errors.New("not a JSON array or object")
	}
}

func scalar(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, x != ""
	case json.Number:
		return x.String(), true
	}
	return "", false
}
