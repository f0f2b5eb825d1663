package document

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-intake/pkg/document/template"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Templates exposes the built-in document templates as an fs.FS rooted at
// the template names.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultEngine returns a template engine loaded with the built-in
// templates.
func DefaultEngine() (*template.Engine, error) {
	return template.New(template.WithFS(Templates()))
}
