package recovery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePermissive(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			name: "single quoted strings",
			in:   `{'title': 'Intake', 'pages': []}`,
		},
		{
			name: "mixed quotes",
			in:   `{'title': "Intake", "pages": []}`,
		},
		{
			name: "missing commas everywhere",
			in:   `{"title": "Intake" "pages": [{"name": "page1" "elements": []}]}`,
		},
		{
			name: "stray commas",
			in:   `{,"title": "Intake",,, "pages": [,],}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := parsePermissive(tt.in)
			if err != nil {
				t.Fatalf("parsePermissive(%q) error: %v", tt.in, err)
			}
			if form.Title != "Intake" {
				t.Fatalf("title = %q, want %q", form.Title, "Intake")
			}
		})
	}
}

func TestParsePermissiveValues(t *testing.T) {
	form, err := parsePermissive(`{
		'title': 'Vitals'
		'pages': [{
			'name': 'page1'
			'elements': [{
				'type': 'rating'
				'name': 'pain_level'
				'rateMax': 10
				'isRequired': true
			}]
		}]
	}`)
	if err != nil {
		t.Fatalf("parsePermissive() error: %v", err)
	}

	el := form.Pages[0].Elements[0]
	if el.Type != "rating" || el.Name != "pain_level" {
		t.Fatalf("element = %+v", el)
	}
	if el.RateMax == nil || *el.RateMax != 10 {
		t.Fatalf("rateMax = %v", el.RateMax)
	}
	if !el.IsRequired {
		t.Fatal("isRequired not carried through")
	}
}

func TestParsePermissiveEscapes(t *testing.T) {
	form, err := parsePermissive(`{"title": "Line\none \"quoted\" é"}`)
	if err != nil {
		t.Fatalf("parsePermissive() error: %v", err)
	}
	want := "Line\none \"quoted\" é"
	if diff := cmp.Diff(want, form.Title); diff != "" {
		t.Fatalf("title mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePermissiveErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "top level array", in: `[1, 2]`},
		{name: "unquoted key", in: `{title: "x"}`},
		{name: "missing colon", in: `{"title" "x"}`},
		{name: "unterminated string", in: `{"title": "x`},
		{name: "unterminated object", in: `{"title": "x"`},
		{name: "bare word", in: `undefined`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePermissive(tt.in); err == nil {
				t.Fatalf("parsePermissive(%q) should fail", tt.in)
			}
		})
	}
}
