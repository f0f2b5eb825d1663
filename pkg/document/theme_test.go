package document

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

type stubSelector struct {
	selection *theme.Selection
	err       error
}

func (s *stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}

func TestThemeFromSelector(t *testing.T) {
	selector := &stubSelector{selection: &theme.Selection{
		Theme:   "clinic",
		Variant: "print",
		Manifest: &theme.Manifest{
			Name:    "clinic",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456"},
		},
	}}

	resolver := ThemeFromSelector(selector, "clinic", "print")
	name, variant, tokens, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if name != "clinic" || variant != "print" {
		t.Fatalf("resolved %q/%q", name, variant)
	}
	if diff := cmp.Diff(map[string]string{"brand": "#123456"}, tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestThemeFromSelectorWithoutManifest(t *testing.T) {
	selector := &stubSelector{selection: &theme.Selection{Theme: "clinic"}}

	resolver := ThemeFromSelector(selector, "clinic", "")
	name, _, tokens, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if name != "clinic" || tokens != nil {
		t.Fatalf("resolved %q with tokens %v", name, tokens)
	}
}

func TestThemeFromSelectorErrors(t *testing.T) {
	resolver := ThemeFromSelector(&stubSelector{err: errors.New("unknown theme")}, "missing", "")
	if _, _, _, err := resolver.Resolve(); err == nil {
		t.Fatal("Resolve() should surface the selector error")
	}

	resolver = ThemeFromSelector(nil, "clinic", "")
	if _, _, _, err := resolver.Resolve(); err == nil {
		t.Fatal("Resolve() should fail with a nil selector")
	}
}
