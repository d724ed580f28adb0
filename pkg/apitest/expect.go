package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

// Check inspects a successful response.
type Check func(*Response) error

// Expectation is what a generated test requires of a response.
// Checks only run when the status is 200.
type Expectation struct {
	Accept  []int
	Message string // substring of the JSON "message" field, checked for any accepted status
	Checks  []Check
}

// Evaluate returns every way resp falls short of exp. A status outside
// Accept is reported alone since the remaining checks would be noise.
func Evaluate(resp *Response, exp Expectation) []error {
	if err := CheckStatus(resp, exp.Accept...); err != nil {
		return []error{err}
	}

	var errs []error
	if exp.Message != "" {
		if err := CheckMessage(resp, exp.Message); err != nil {
			errs = append(errs, err)
		}
	}
	if resp.Status == http.StatusOK {
		for _, check := range exp.Checks {
			if err := check(resp); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// Expect fails t for every problem Evaluate finds.
func Expect(t testing.TB, resp *Response, exp Expectation) {
	t.Helper()
	errs := Evaluate(resp, exp)
	if len(errs) == 0 {
		return
	}
	for _, err := range errs {
		t.Errorf("%s %s: %v", resp.URL, excerpt(resp.Body), err)
	}
	t.FailNow()
}

// CheckStatus fails unless resp.Status is one of accepted.
func CheckStatus(resp *Response, accepted ...int) error {
	for _, s := range accepted {
		if resp.Status == s {
			return nil
		}
	}
	return fmt.Errorf("status %d not in accepted set %v", resp.Status, accepted)
}

// CheckMessage fails unless the JSON body's "message" contains want.
func CheckMessage(resp *Response, want string) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fmt.Errorf("error body is not JSON: %w", err)
	}
	if !strings.Contains(body.Message, want) {
		return fmt.Errorf("message %q does not contain %q", body.Message, want)
	}
	return nil
}

// JSON requires a body that parses as JSON.
func JSON(resp *Response) error {
	if !json.Valid(resp.Body) {
		return errors.New("body is not valid JSON")
	}
	return nil
}

// Aggregate requires an array of objects or a keyed object.
func Aggregate(resp *Response) error {
	items, err := orderedItems(resp.Body)
	if err != nil {
		return fmt.Errorf("expected a JSON array or object: %w", err)
	}
	if strings.HasPrefix(strings.TrimSpace(string(resp.Body)), "[") {
		for i, item := range items {
			if !isObject(item) {
				return fmt.Errorf("item %d is not an object", i)
			}
		}
	}
	return nil
}

// Links requires _links, when present on the body or on any listed item, to be an object.
func Links(resp *Response) error {
	items, err := orderedItems(resp.Body)
	if err != nil {
		return fmt.Errorf("expected a JSON array or object: %w", err)
	}
	candidates := append([]json.RawMessage{resp.Body}, items...)
	for _, c := range candidates {
		var obj map[string]json.RawMessage
		if json.Unmarshal(c, &obj) != nil {
			continue
		}
		if links, ok := obj["_links"]; ok && !isObject(links) {
			return errors.New("_links is not an object")
		}
	}
	return nil
}

// FirstItem requires the first listed item to be a non-empty object. An empty listing passes.
func FirstItem(resp *Response) error {
	items, err := orderedItems(resp.Body)
	if err != nil {
		return fmt.Errorf("expected a JSON array or object: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &obj); err != nil || len(obj) == 0 {
		return errors.New("first item is not a non-empty object")
	}
	return nil
}

// Object requires a non-empty JSON object.
func Object(resp *Response) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &obj); err != nil {
		return fmt.Errorf("expected a JSON object: %w", err)
	}
	if len(obj) == 0 {
		return errors.New("object is empty")
	}
	return nil
}

// Identifier requires an object carrying id, slug or name.
func Identifier(resp *Response) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &obj); err != nil {
		return fmt.Errorf("expected a JSON object: %w", err)
	}
	for _, key := range []string{"id", "slug", "name"} {
		if _, ok := obj[key]; ok {
			return nil
		}
	}
	return errors.New("object has no id, slug or name")
}

// ContentType requires a Content-Type header.
func ContentType(resp *Response) error {
	if resp.Header.Get("Content-Type") == "" {
		return errors.New("missing Content-Type header")
	}
	return nil
}

// EmptyBody requires no body, as for HEAD.
func EmptyBody(resp *Response) error {
	if len(resp.Body) != 0 {
		return fmt.Errorf("expected empty body, got %d bytes", len(resp.Body))
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{") && json.Valid(raw)
}

func excerpt(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
