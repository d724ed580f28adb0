package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

type ability struct {
	Name string `json:"name"`
	Meta struct {
		Annotations map[string]bool `json:"annotations"`
	} `json:"meta"`
}

func newAbility(name string, annotations map[string]bool) ability {
	a := ability{Name: name}
	a.Meta.Annotations = annotations
	return a
}

var abilities = []ability{
	newAbility("core/get-site-info", map[string]bool{"readonly": true}),
	newAbility("core/update-option", map[string]bool{"readonly": false, "destructive": false}),
	newAbility("core/delete-post", map[string]bool{"destructive": true, "idempotent": true}),
}

// site behaves like a WordPress install for every route the fixture
// controllers declare. With broken set, read-only abilities accept any verb.
type site struct {
	broken bool
}

func (s site) handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/wp/v2/categories", s.list(`[{"id": 7, "slug": "news", "name": "News", "_links": {"self": [{"href": "x"}]}}]`)).
		Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/wp/v2/categories/{slug}", s.item("slug", "news", `{"id": 7, "slug": "news", "name": "News"}`)).
		Methods(http.MethodGet)

	r.HandleFunc("/wp/v2/posts", s.list(`[{"id": 1, "slug": "hello-world", "title": {"rendered": "Hello"}}]`)).
		Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/wp/v2/posts/{id}", s.item("id", "1", `{"id": 1, "slug": "hello-world"}`)).
		Methods(http.MethodGet)

	r.HandleFunc("/wp-block-editor/v1/url-details", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"title": "Example Domain"}`)
	}).Methods(http.MethodGet)

	r.HandleFunc("/wp-abilities/v1/abilities", func(w http.ResponseWriter, req *http.Request) {
		if !authorized(w, req) {
			return
		}
		body, _ := json.Marshal(abilities)
		writeJSON(w, http.StatusOK, string(body))
	}).Methods(http.MethodGet, http.MethodHead)

	// Run routes first: {ns}/{name} would also match "<name>/run".
	r.HandleFunc("/wp-abilities/v1/abilities/{name}/run", notFound).
		Methods(http.MethodGet, http.MethodPost, http.MethodDelete)
	r.HandleFunc("/wp-abilities/v1/abilities/{ns}/{name}/run", s.run).
		Methods(http.MethodGet, http.MethodPost, http.MethodDelete)

	r.HandleFunc("/wp-abilities/v1/abilities/{name}", notFound).Methods(http.MethodGet)
	r.HandleFunc("/wp-abilities/v1/abilities/{ns}/{name}", func(w http.ResponseWriter, req *http.Request) {
		if !authorized(w, req) {
			return
		}
		vars := mux.Vars(req)
		a, ok := lookup(vars["ns"] + "/" + vars["name"])
		if !ok {
			notFound(w, req)
			return
		}
		body, _ := json.Marshal(a)
		writeJSON(w, http.StatusOK, string(body))
	}).Methods(http.MethodGet)

	return r
}

func (s site) list(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}
}

func (s site) item(param, valid, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if mux.Vars(req)[param] != valid {
			writeJSON(w, http.StatusNotFound, `{"code": "rest_post_invalid_id", "message": "Invalid ID.", "data": {"status": 404}}`)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func (s site) run(w http.ResponseWriter, req *http.Request) {
	if !authorized(w, req) {
		return
	}
	vars := mux.Vars(req)
	a, ok := lookup(vars["ns"] + "/" + vars["name"])
	if !ok {
		notFound(w, req)
		return
	}

	ann := a.Meta.Annotations
	switch {
	case ann["readonly"] && req.Method != http.MethodGet && !s.broken:
		methodNotAllowed(w, "Read-only abilities require GET method.")
		return
	case ann["destructive"] && req.Method != http.MethodDelete:
		methodNotAllowed(w, "Invalid HTTP method. destructive actions require DELETE method.")
		return
	case !ann["readonly"] && !ann["destructive"] && req.Method != http.MethodPost:
		methodNotAllowed(w, "Abilities that perform updates require POST method.")
		return
	}
	writeJSON(w, http.StatusOK, `{"name": "Example", "url": "http://example.test"}`)
}

func authorized(w http.ResponseWriter, req *http.Request) bool {
	if _, _, ok := req.BasicAuth(); ok {
		return true
	}
	writeJSON(w, http.StatusUnauthorized, `{"code": "rest_forbidden", "message": "Sorry, you are not allowed to do that.", "data": {"status": 401}}`)
	return false
}

func lookup(name string) (ability, bool) {
	for _, a := range abilities {
		if a.Name == name {
			return a, true
		}
	}
	return ability{}, false
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, `{"code": "rest_no_route", "message": "No route was found matching the URL and request method.", "data": {"status": 404}}`)
}

func methodNotAllowed(w http.ResponseWriter, message string) {
	body, _ := json.Marshal(map[string]any{
		"code":    "rest_ability_invalid_method",
		"message": message,
		"data":    map[string]int{"status": http.StatusMethodNotAllowed},
	})
	writeJSON(w, http.StatusMethodNotAllowed, string(body))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func startSite(t *testing.T, s site) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(s.handler())
	t.Cleanup(srv.Close)
	return srv
}
