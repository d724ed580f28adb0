package phpparser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"rest-recon/internal/model"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "endpoints", name))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return string(data)
}

func TestParseControllerRejectsNonControllers(t *testing.T) {
	inputs := map[string]string{
		"empty":           "",
		"functions only":  "<?php\nfunction rest_get_server() { return null; }\n",
		"class no marker": "<?php\nclass Foo extends Bar {}\n",
		"marker no class": "<?php\n// uses WP_REST_Server::READABLE\n$x = 1;\n",
		"load.php":        readFixture(t, "load.php"),
	}

	for name, content := range inputs {
		t.Run(name, func(t *testing.T) {
			c, err := ParseController(content)
			if !errors.Is(err, ErrNotController) {
				t.Fatalf("expected ErrNotController, got %v", err)
			}
			if c != nil {
				t.Errorf("expected nil controller, got %+v", c)
			}
		})
	}
}

func TestParseControllerDefaults(t *testing.T) {
	c, err := ParseController("<?php\nclass WP_REST_Thing {\n}\n")
	if err != nil {
		t.Fatalf("ParseController() error: %v", err)
	}

	if c.ClassName != DefaultClassName {
		t.Errorf("ClassName = %q, want %q", c.ClassName, DefaultClassName)
	}
	if c.Namespace != DefaultNamespace {
		t.Errorf("Namespace = %q, want %q", c.Namespace, DefaultNamespace)
	}
	if c.RestBase != "" {
		t.Errorf("RestBase = %q, want empty", c.RestBase)
	}
	if c.Description != DefaultDescription {
		t.Errorf("Description = %q, want %q", c.Description, DefaultDescription)
	}
	if c.Type != model.ControllerGeneric {
		t.Errorf("Type = %q, want generic", c.Type)
	}
}

func TestParseControllerFixtures(t *testing.T) {
	tests := []struct {
		file        string
		className   string
		namespace   string
		restBase    string
		description string
		ctype       model.ControllerType
		routes      int
	}{
		{
			file:        "class-wp-rest-categories-controller.php",
			className:   "WP_REST_Categories_Controller",
			namespace:   "wp/v2",
			restBase:    "categories",
			description: "REST API: WP_REST_Categories_Controller class.",
			ctype:       model.ControllerCategories,
			routes:      0,
		},
		{
			file:        "class-wp-rest-abilities-run-controller.php",
			className:   "WP_REST_Abilities_Run_Controller",
			namespace:   "wp-abilities/v1",
			restBase:    "abilities",
			description: "Executes registered abilities.",
			ctype:       model.ControllerAction,
			routes:      1,
		},
		{
			file:        "class-wp-rest-abilities-list-controller.php",
			className:   "WP_REST_Abilities_List_Controller",
			namespace:   "wp-abilities/v1",
			restBase:    "abilities",
			description: "Lists registered abilities.",
			ctype:       model.ControllerCollection,
			routes:      2,
		},
		{
			file:        "class-wp-rest-posts-controller.php",
			className:   "WP_REST_Posts_Controller",
			namespace:   "wp/v2",
			restBase:    "",
			description: "Core class to access posts via the REST API.",
			ctype:       model.ControllerCollection,
			routes:      0,
		},
		{
			file:        "class-wp-rest-url-details-controller.php",
			className:   "WP_REST_URL_Details_Controller",
			namespace:   "wp-block-editor/v1",
			restBase:    "url-details",
			description: "Retrieves the title and other details of a remote URL for the block editor.",
			ctype:       model.ControllerGeneric,
			routes:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			c, err := ParseController(readFixture(t, tt.file))
			if err != nil {
				t.Fatalf("ParseController() error: %v", err)
			}
			if c.ClassName != tt.className {
				t.Errorf("ClassName = %q, want %q", c.ClassName, tt.className)
			}
			if c.Namespace != tt.namespace {
				t.Errorf("Namespace = %q, want %q", c.Namespace, tt.namespace)
			}
			if c.RestBase != tt.restBase {
				t.Errorf("RestBase = %q, want %q", c.RestBase, tt.restBase)
			}
			if c.Description != tt.description {
				t.Errorf("Description = %q, want %q", c.Description, tt.description)
			}
			if c.Type != tt.ctype {
				t.Errorf("Type = %q, want %q", c.Type, tt.ctype)
			}
			if len(c.Routes) != tt.routes {
				t.Errorf("got %d routes, want %d: %+v", len(c.Routes), tt.routes, c.Routes)
			}
		})
	}
}

func TestPublicMethods(t *testing.T) {
	c, err := ParseController(readFixture(t, "class-wp-rest-categories-controller.php"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"register_routes", "get_items", "get_item"}
	if !reflect.DeepEqual(c.PublicMethods, want) {
		t.Errorf("PublicMethods = %v, want %v", c.PublicMethods, want)
	}
	if !c.Capabilities.GetItems || !c.Capabilities.GetItem || c.Capabilities.CreateItem {
		t.Errorf("unexpected capabilities %+v", c.Capabilities)
	}
}

func TestNamespaceFallbackChain(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"property", `protected $namespace = 'custom/v3'; $this->namespace = 'other/v1';`, "custom/v3"},
		{"assignment", `$this->namespace = "other/v1";`, "other/v1"},
		{"abilities keyword", `// serves wp-abilities routes, see wp/v2 too`, "wp-abilities/v1"},
		{"v2 keyword", `register_rest_route( 'wp/v2', '/x' );`, "wp/v2"},
		{"nothing", `class X {}`, DefaultNamespace},
	}
	for _, tt := range tests {
		if got := extractNamespace(tt.content); got != tt.want {
			t.Errorf("%s: extractNamespace() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRestBaseFallbackChain(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"property", `protected $rest_base = 'tags';`, "tags"},
		{"assignment", `$this->rest_base = 'block-types';`, "block-types"},
		{"ternary assignment", `$this->rest_base = $x ? $x : 'menus';`, "menus"},
		{"from run route", `register_rest_route( $this->namespace, '/abilities/(?P<name>[\w-]+)/run', array() );`, "abilities"},
		{"from autosave route", `register_rest_route( $this->namespace, '/posts/(?P<parent>[\d]+)/autosaves', array() );`, "posts"},
		{"from plain route", `register_rest_route( $this->namespace, '/block-renderer/(?P<name>[a-z0-9-]+/[a-z0-9-]+)', array() );`, "block-renderer"},
		{"nothing", `register_rest_route( $this->namespace, '/' . $this->rest_base );`, ""},
	}
	for _, tt := range tests {
		if got := extractRestBase(tt.content); got != tt.want {
			t.Errorf("%s: extractRestBase() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDetermineTypePrecedence(t *testing.T) {
	tests := []struct {
		name string
		c    model.Controller
		want model.ControllerType
	}{
		{
			name: "categories beats run",
			c:    model.Controller{ClassName: "WP_REST_Run_Categories_Controller"},
			want: model.ControllerCategories,
		},
		{
			name: "categories from base",
			c:    model.Controller{ClassName: "X", RestBase: "categories", Capabilities: model.Capabilities{GetItems: true}},
			want: model.ControllerCategories,
		},
		{
			name: "run beats list",
			c:    model.Controller{ClassName: "WP_REST_Abilities_Run_Controller", Capabilities: model.Capabilities{GetItems: true}},
			want: model.ControllerAction,
		},
		{
			name: "execute in class",
			c:    model.Controller{ClassName: "WP_REST_Execute_Controller"},
			want: model.ControllerAction,
		},
		{
			name: "run route",
			c:    model.Controller{ClassName: "X", Routes: []model.Route{{RawPath: "things/(?P<id>\\d+)/run"}}},
			want: model.ControllerAction,
		},
		{
			name: "list in class",
			c:    model.Controller{ClassName: "WP_REST_List_Controller"},
			want: model.ControllerCollection,
		},
		{
			name: "get_items",
			c:    model.Controller{ClassName: "X", Capabilities: model.Capabilities{GetItems: true, GetItem: true}},
			want: model.ControllerCollection,
		},
		{
			name: "get_item only",
			c:    model.Controller{ClassName: "X", Capabilities: model.Capabilities{GetItem: true}},
			want: model.ControllerSingle,
		},
		{
			name: "nothing",
			c:    model.Controller{ClassName: "X"},
			want: model.ControllerGeneric,
		},
	}

	for _, tt := range tests {
		if got := DetermineType(&tt.c); got != tt.want {
			t.Errorf("%s: DetermineType() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
