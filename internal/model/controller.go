package model

// ControllerType is the coarse category assigned to a controller.
// It only drives the fallback shapes used when no routes are found.
type ControllerType string

const (
	ControllerCategories ControllerType = "categories"
	ControllerAction     ControllerType = "action"
	ControllerCollection ControllerType = "collection"
	ControllerSingle     ControllerType = "single"
	ControllerGeneric    ControllerType = "generic"
)

// Capabilities records which standard handler names appear in a controller.
type Capabilities struct {
	GetItems   bool
	GetItem    bool
	CreateItem bool
	UpdateItem bool
	DeleteItem bool
}

// Controller is the metadata recovered from one controller source file.
type Controller struct {
	FileName string // base name, e.g. "class-wp-rest-posts-controller.php"
	FilePath string

	ClassName   string
	Namespace   string // e.g. "wp/v2"
	RestBase    string // may be empty
	Description string

	Routes        []Route
	PublicMethods []string
	Capabilities  Capabilities
	Type          ControllerType
}

// Param is a path placeholder. Type is always "string" since nothing is inferred.
type Param struct {
	Name string
	Type string
}

// Route is one route registration found in a controller.
type Route struct {
	RawPath   string   // as written, leading "/" removed
	Path      string   // capture groups rewritten to {name}
	Namespace string   // literal namespace argument, empty when $this->namespace is used
	Methods   []string // never empty
	Params    []Param
}

// HasParams reports whether the route has any path placeholder.
func (r Route) HasParams() bool {
	return len(r.Params) > 0
}
