package document

import (
	"errors"

	theme "github.com/goliatone/go-theme"
)

// ThemeFromSelector adapts a go-theme selector to the ThemeResolver port,
// pinning a theme name and variant at construction time.
func ThemeFromSelector(selector theme.ThemeSelector, name, variant string) ThemeResolver {
	return &selectorResolver{selector: selector, name: name, variant: variant}
}

type selectorResolver struct {
	selector theme.ThemeSelector
	name     string
	variant  string
}

func (r *selectorResolver) Resolve() (string, string, map[string]string, error) {
	if r.selector == nil {
		return "", "", nil, errors.New("document: theme selector is nil")
	}
	selection, err := r.selector.Select(r.name, r.variant)
	if err != nil {
		return "", "", nil, err
	}
	if selection == nil {
		return "", "", nil, errors.New("document: empty theme selection")
	}

	var tokens map[string]string
	if selection.Manifest != nil && len(selection.Manifest.Tokens) > 0 {
		tokens = make(map[string]string, len(selection.Manifest.Tokens))
		for key, value := range selection.Manifest.Tokens {
			tokens[key] = value
		}
	}
	return selection.Theme, selection.Variant, tokens, nil
}
