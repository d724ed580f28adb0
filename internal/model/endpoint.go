package model

import "strings"

// ResourceType selects which test battery an endpoint receives.
type ResourceType string

const (
	ResourceCollection ResourceType = "collection"
	ResourceSingle     ResourceType = "single"
	ResourceAction     ResourceType = "action"
	ResourceCategories ResourceType = "categories"
	ResourceGeneric    ResourceType = "generic"
)

// ResourceTypes lists every resource type in a stable order.
var ResourceTypes = []ResourceType{
	ResourceCollection,
	ResourceSingle,
	ResourceAction,
	ResourceCategories,
	ResourceGeneric,
}

// Endpoint is the typed, test-ready description of one route.
type Endpoint struct {
	Name         string // valid identifier
	Path         string // "/<namespace>/<path>" with {name} placeholders
	Methods      []string
	ResourceType ResourceType
	Params       []Param
	Description  string

	Controller string // class name of the source controller
	FileName   string // source file base name
}

// HasMethod reports whether method is among the endpoint's verbs.
func (e Endpoint) HasMethod(method string) bool {
	for _, m := range e.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// PrimaryParam returns the first placeholder name, or "" when there is none.
func (e Endpoint) PrimaryParam() string {
	if len(e.Params) == 0 {
		return ""
	}
	return e.Params[0].Name
}

// ListingPath is the path of the collection an item or action endpoint hangs off.
// For "/wp/v2/categories/{slug}" it is "/wp/v2/categories"; for
// "/wp-abilities/v1/abilities/{name}/run" it is "/wp-abilities/v1/abilities".
func (e Endpoint) ListingPath() string {
	if i := strings.Index(e.Path, "/{"); i > 0 {
		return e.Path[:i]
	}
	if i := strings.LastIndex(e.Path, "/"); i > 0 {
		return e.Path[:i]
	}
	return e.Path
}

// Artifact is a generated file relative to its output directory.
type Artifact struct {
	FileName string
	Body     []byte
}
