// Package battery holds the canonical, versioned table of test cases per
// resource type. The test and documentation generators both render from it,
// so a generated module and its document always list the same cases.
package battery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"rest-recon/internal/model"
	"rest-recon/internal/utils"
)

// Version identifies the table below. Bump it whenever a case changes.
const Version = "2"

// Target says how a case turns the endpoint path into a request URL.
type Target int

const (
	// TargetCollection requests the endpoint path as is.
	TargetCollection Target = iota
	// TargetItem fills the placeholder with an identifier taken from the live listing.
	TargetItem
	// TargetFixed fills the placeholder with Case.Value.
	TargetFixed
	// TargetAbility fills the placeholder with an ability found by annotation.
	TargetAbility
)

// Check is a response assertion applied once the status is accepted with 200.
type Check string

const (
	CheckJSON        Check = "json"         // body parses as JSON
	CheckAggregate   Check = "aggregate"    // array of objects or keyed object
	CheckLinks       Check = "links"        // _links, when present, is an object
	CheckFirstItem   Check = "first_item"   // first listed item is a non-empty object
	CheckObject      Check = "object"       // non-empty JSON object
	CheckIdentifier  Check = "identifier"   // object carries id, slug or name
	CheckContentType Check = "content_type" // Content-Type header present
	CheckEmptyBody   Check = "empty_body"
)

// Pagination is the query shape of the pagination case.
type Pagination struct {
	Page    int `schema:"page"`
	PerPage int `schema:"per_page"`
}

// Case is one test in a battery.
type Case struct {
	ID      string
	Title   string // %s is replaced with the endpoint name
	Purpose string

	Method string
	Auth   bool
	Target Target
	Value  string          // identifier for TargetFixed
	Filter map[string]bool // annotation filter for TargetAbility
	Query  *Pagination
	Body   string // JSON request body, empty for none

	Accept  []int  // acceptable status codes
	Message string // substring required in the error message, if any
	Checks  []Check

	RequiresMethod string // case only applies when the endpoint allows this verb
}

var encoder = schema.NewEncoder()

// QueryString encodes the case's query shape, or returns "".
func (c Case) QueryString() string {
	if c.Query == nil {
		return ""
	}
	values := url.Values{}
	if err := encoder.Encode(c.Query, values); err != nil {
		return ""
	}
	return values.Encode()
}

// TitleFor renders the case title for an endpoint.
func (c Case) TitleFor(ep model.Endpoint) string {
	if strings.Contains(c.Title, "%s") {
		return fmt.Sprintf(c.Title, ep.Name)
	}
	return c.Title
}

// TestName is the Go test function name of the case for ep.
func (c Case) TestName(ep model.Endpoint) string {
	return "Test" + utils.CamelCase(c.ID) + utils.CamelCase(ep.Name)
}

// ArtifactName is the file stem under which the case's response is saved.
func (c Case) ArtifactName(ep model.Endpoint) string {
	return utils.NormalizeName(c.ID + "_" + ep.Name)
}

// PassesOn reports whether status is in the accepted set.
func (c Case) PassesOn(status int) bool {
	for _, s := range c.Accept {
		if s == status {
			return true
		}
	}
	return false
}

// SkipConditions lists, in prose, when the case skips instead of failing.
func (c Case) SkipConditions() []string {
	conds := []string{"the target service is unreachable"}
	switch c.Target {
	case TargetItem:
		conds = append(conds, "the listing is not 200, not JSON, or empty")
	case TargetAbility:
		conds = append(conds, "no ability matches "+FilterString(c.Filter))
	}
	return conds
}

// FilterString renders an annotation filter as "readonly=true, destructive=false".
func FilterString(filter map[string]bool) string {
	var parts []string
	for _, key := range annotationKeys {
		if v, ok := filter[key]; ok {
			parts = append(parts, fmt.Sprintf("%s=%t", key, v))
		}
	}
	if len(parts) == 0 {
		return "any annotations"
	}
	return strings.Join(parts, ", ")
}

var annotationKeys = []string{"readonly", "destructive", "idempotent"}

// For returns a copy of the battery for rt. Unknown types get the generic battery.
func For(rt model.ResourceType) []Case {
	cases, ok := table[rt]
	if !ok {
		cases = table[model.ResourceGeneric]
	}
	return append([]Case(nil), cases...)
}

// Cases returns the cases that apply to ep, in battery order.
func Cases(ep model.Endpoint) []Case {
	var out []Case
	for _, c := range For(ep.ResourceType) {
		if c.RequiresMethod != "" && !ep.HasMethod(c.RequiresMethod) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// TestNames lists the Go test function names generated for ep.
func TestNames(ep model.Endpoint) []string {
	cases := Cases(ep)
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.TestName(ep)
	}
	return names
}
