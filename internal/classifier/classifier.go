// Package classifier turns parsed controllers into typed endpoint descriptors.
package classifier

import (
	"fmt"
	"strings"

	"rest-recon/internal/model"
	"rest-recon/internal/utils"
)

// wellKnownBases are recognised in class names when a collection controller has no base.
var wellKnownBases = []string{"posts", "comments", "users", "terms"}

// Classify returns the endpoints for c, in route order.
// Controllers without extracted routes get fixed shapes chosen by controller type.
func Classify(c *model.Controller) []model.Endpoint {
	if len(c.Routes) > 0 {
		endpoints := make([]model.Endpoint, 0, len(c.Routes))
		for _, r := range c.Routes {
			endpoints = append(endpoints, fromRoute(c, r))
		}
		return endpoints
	}

	switch c.Type {
	case model.ControllerCategories:
		return categoriesFallback(c)
	case model.ControllerCollection:
		return collectionFallback(c)
	case model.ControllerSingle:
		return singleFallback(c)
	case model.ControllerAction:
		return actionFallback(c)
	default:
		return genericFallback(c)
	}
}

// ResourceTypeOf classifies a single route: action when the raw path runs or
// executes something, single when it has placeholders, collection otherwise.
func ResourceTypeOf(r model.Route) model.ResourceType {
	raw := "/" + r.RawPath
	switch {
	case strings.Contains(raw, "/run") || strings.Contains(raw, "/execute"):
		return model.ResourceAction
	case r.HasParams():
		return model.ResourceSingle
	default:
		return model.ResourceCollection
	}
}

func fromRoute(c *model.Controller, r model.Route) model.Endpoint {
	namespace := c.Namespace
	if r.Namespace != "" {
		namespace = r.Namespace
	}
	resourceType := ResourceTypeOf(r)

	name := c.RestBase
	if name == "" {
		name = strings.SplitN(r.Path, "/", 2)[0]
	}
	if resourceType == model.ResourceSingle {
		name = utils.Singularize(name)
	}

	return model.Endpoint{
		Name:         utils.NormalizeName(name),
		Path:         joinPath(namespace, r.Path),
		Methods:      append([]string(nil), r.Methods...),
		ResourceType: resourceType,
		Params:       append([]model.Param(nil), r.Params...),
		Description:  "Endpoint for " + r.Path,
		Controller:   c.ClassName,
		FileName:     c.FileName,
	}
}

func categoriesFallback(c *model.Controller) []model.Endpoint {
	base := c.RestBase
	if base == "" {
		base = "categories"
	}
	singular := utils.Singularize(base)

	return []model.Endpoint{
		newEndpoint(c, base, joinPath(c.Namespace, base), model.ResourceCollection,
			[]string{"GET", "HEAD"}, nil, "List all "+base),
		newEndpoint(c, singular, joinPath(c.Namespace, base+"/{slug}"), model.ResourceSingle,
			[]string{"GET"}, []string{"slug"}, "Get single "+singular),
	}
}

func collectionFallback(c *model.Controller) []model.Endpoint {
	base := c.RestBase
	if base == "" {
		base = InferBase(c.ClassName)
	}

	endpoints := []model.Endpoint{
		newEndpoint(c, base, joinPath(c.Namespace, base), model.ResourceCollection,
			[]string{"GET", "HEAD"}, nil, "List all "+base),
	}
	if c.Capabilities.GetItem {
		singular := utils.Singularize(base)
		endpoints = append(endpoints, newEndpoint(c, singular, joinPath(c.Namespace, base+"/{id}"),
			model.ResourceSingle, []string{"GET"}, []string{"id"}, "Get single "+singular))
	}
	return endpoints
}

func singleFallback(c *model.Controller) []model.Endpoint {
	if c.RestBase == "" {
		return nil
	}
	return []model.Endpoint{
		newEndpoint(c, c.RestBase, joinPath(c.Namespace, c.RestBase+"/{id}"), model.ResourceSingle,
			[]string{"GET"}, []string{"id"}, "Get "+c.RestBase),
	}
}

func actionFallback(c *model.Controller) []model.Endpoint {
	base := c.RestBase
	if base == "" {
		base = "abilities"
	}
	return []model.Endpoint{
		newEndpoint(c, base+"_run", joinPath(c.Namespace, base+"/{name}/run"), model.ResourceAction,
			[]string{"GET", "POST", "DELETE"}, []string{"name"}, "Execute "+base),
	}
}

func genericFallback(c *model.Controller) []model.Endpoint {
	if c.RestBase == "" {
		return nil
	}
	return []model.Endpoint{
		newEndpoint(c, c.RestBase, joinPath(c.Namespace, c.RestBase), model.ResourceGeneric,
			[]string{"GET"}, nil, c.Description),
	}
}

// InferBase guesses a rest base from a controller class name:
// WP_REST_Posts_Controller -> posts, WP_REST_Menu_Items_Controller -> menu-items.
func InferBase(className string) string {
	lower := strings.ToLower(className)
	for _, base := range wellKnownBases {
		if strings.Contains(lower, base) {
			return base
		}
	}
	lower = strings.ReplaceAll(lower, "wp_rest_", "")
	lower = strings.ReplaceAll(lower, "_controller", "")
	return strings.ReplaceAll(lower, "_", "-")
}

func newEndpoint(c *model.Controller, name, path string, rt model.ResourceType, methods, params []string, desc string) model.Endpoint {
	ep := model.Endpoint{
		Name:         utils.NormalizeName(name),
		Path:         path,
		Methods:      methods,
		ResourceType: rt,
		Description:  desc,
		Controller:   c.ClassName,
		FileName:     c.FileName,
	}
	for _, p := range params {
		ep.Params = append(ep.Params, model.Param{Name: p, Type: "string"})
	}
	return ep
}

func joinPath(namespace, path string) string {
	if strings.Trim(path, "/") == "" {
		return "/" + strings.Trim(namespace, "/")
	}
	return fmt.Sprintf("/%s/%s", strings.Trim(namespace, "/"), strings.Trim(path, "/"))
}
