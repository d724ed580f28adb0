package utils

import (
	"regexp"
	"strings"
	"testing"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"categories", "categories"},
		{"url-details", "url_details"},
		{"wp/v2//posts", "wp_v2_posts"},
		{"__weird__name__", "weird_name"},
		{"404-page", "ep_404_page"},
		{"", "endpoint"},
		{"---", "endpoint"},
		{"(?P<id>[\\d]+)", "P_id_d"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeNameInvariants(t *testing.T) {
	inputs := []string{
		strings.Repeat("a_b-", 40),
		"élan vital",
		"9",
		"x" + strings.Repeat("_", 60) + "y",
		"abilities/{name}/run",
	}

	for _, in := range inputs {
		got := NormalizeName(in)
		if !identRegex.MatchString(got) {
			t.Errorf("NormalizeName(%q) = %q is not an identifier", in, got)
		}
		if len(got) > MaxNameLength {
			t.Errorf("NormalizeName(%q) has %d chars", in, len(got))
		}
		if strings.Contains(got, "__") || strings.HasPrefix(got, "_") || strings.HasSuffix(got, "_") {
			t.Errorf("NormalizeName(%q) = %q has stray separators", in, got)
		}
	}
}

func TestSingularize(t *testing.T) {
	tests := map[string]string{
		"categories": "category",
		"posts":      "post",
		"status":     "statu",
		"address":    "address",
		"media":      "media",
		"s":          "s",
	}
	for in, want := range tests {
		if got := Singularize(in); got != want {
			t.Errorf("Singularize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"get_all_categories":      "GetAllCategories",
		"execute_wrong_method_ab": "ExecuteWrongMethodAb",
		"head_url_details":        "HeadUrlDetails",
	}
	for in, want := range tests {
		if got := CamelCase(in); got != want {
			t.Errorf("CamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPackageName(t *testing.T) {
	if got := PackageName("Type"); got != "type_api" {
		t.Errorf("PackageName(Type) = %q", got)
	}
	if got := PackageName("categories"); got != "categories" {
		t.Errorf("PackageName(categories) = %q", got)
	}
}

func TestUniqueStem(t *testing.T) {
	taken := map[string]bool{}
	got := []string{
		UniqueStem("abilities", taken),
		UniqueStem("abilities", taken),
		UniqueStem("Abilities", taken),
		UniqueStem("category", taken),
	}
	want := []string{"abilities", "abilities_2", "abilities_3", "category"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UniqueStem #%d = %q, want %q", i, got[i], want[i])
		}
	}
}
