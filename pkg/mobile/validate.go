package mobile

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Warning flags a schema construct that degrades mobile rendering. Warnings
// are advisory: a schema that produces them still renders.
type Warning struct {
	// Path locates the offending element, e.g. "page:intake/smoking_status".
	// Empty for form-level findings.
	Path    string
	Message string
}

func (w Warning) String() string {
	if w.Path == "" {
		return w.Message
	}
	return w.Path + ": " + w.Message
}

// Validate audits a form against the mobile rendering rules without modifying
// it. A tree that just passed through Optimize yields no warnings.
func Validate(form *schema.Form) []Warning {
	if form == nil {
		return nil
	}

	var warnings []Warning

	if form.WidthMode != DefaultWidthMode {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("widthMode should be %q for mobile rendering, got %q", DefaultWidthMode, form.WidthMode),
		})
	}

	err := schema.Walk(form, func(el *schema.Element, path schema.Path) {
		switch el.Type {
		case schema.TypeRadioGroup, schema.TypeCheckbox:
			if el.ColCount != nil && *el.ColCount > 1 {
				warnings = append(warnings, Warning{
					Path:    path.String(),
					Message: fmt.Sprintf("colCount=%d may cause alignment issues on mobile", *el.ColCount),
				})
			}
			if el.RenderAs == tableRenderMode {
				warnings = append(warnings, Warning{
					Path:    path.String(),
					Message: `renderAs="table" causes layout issues on mobile`,
				})
			}

		case schema.TypeFile:
			if !strings.Contains(el.SourceType, "camera") {
				warnings = append(warnings, Warning{
					Path:    path.String(),
					Message: `file upload should include "camera" in sourceType`,
				})
			}
		}
	})
	if err != nil {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("%v; deeper levels were not audited", err),
		})
	}

	return warnings
}
