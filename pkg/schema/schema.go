package schema

// Element type discriminators the pipelines special-case. Any other value is
// passed through untouched.
const (
	TypeRadioGroup     = "radiogroup"
	TypeCheckbox       = "checkbox"
	TypeText           = "text"
	TypeComment        = "comment"
	TypeDropdown       = "dropdown"
	TypeFile           = "file"
	TypeBoolean        = "boolean"
	TypeRating         = "rating"
	TypePanel          = "panel"
	TypeMatrix         = "matrix"
	TypeMatrixDropdown = "matrixdropdown"
	TypeMatrixDynamic  = "matrixdynamic"
)

// Form is the root of a schema tree.
type Form struct {
	Title       string
	Description string
	Pages       []Page

	// Render-mode options. Zero values mean "absent"; the mobile optimizer
	// fills the defaults.
	WidthMode           string
	ShowQuestionNumbers string
	MobileBreakpoint    int

	// Extra preserves root attributes the package does not model.
	Extra map[string]any
}

// Page groups an ordered run of elements under a name unique within the form.
type Page struct {
	Name     string
	Title    string
	Elements []Element

	Extra map[string]any
}

// Element is one field, question, panel, or matrix node. The Type string
// selects which of the optional attributes are meaningful; pointer fields
// distinguish "absent" from an explicit zero, which the optimizer relies on.
type Element struct {
	Type       string
	Name       string
	Title      string
	IsRequired bool
	VisibleIf  string

	ColCount       *int
	RenderAs       string
	MaxWidth       string
	SourceType     string
	MobileView     string
	ColumnColCount *int
	RateMax        *int
	Choices        []any

	// Panels carry nested Elements; matrix kinds may carry Rows whose
	// entries own elements of their own.
	Elements []Element
	Rows     []Row

	Extra map[string]any
}

// Row is a matrix row. Plain string rows from the wire format keep only
// Value; object rows may own nested elements.
type Row struct {
	Value    string
	Text     string
	Elements []Element

	Extra map[string]any
}

// Response maps element names to captured answer values. Value shapes depend
// on the element type (string, bool, []any, number) and are interpreted only
// at render time.
type Response map[string]any

// PageByName returns the first page with the given name.
func (f *Form) PageByName(name string) (*Page, bool) {
	for i := range f.Pages {
		if f.Pages[i].Name == name {
			return &f.Pages[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the form so callers can normalize or decorate
// without aliasing the original tree.
func (f Form) Clone() Form {
	out := f
	out.Pages = clonePages(f.Pages)
	out.Extra = cloneMap(f.Extra)
	return out
}

func clonePages(pages []Page) []Page {
	if pages == nil {
		return nil
	}
	out := make([]Page, len(pages))
	for i, page := range pages {
		out[i] = page
		out[i].Elements = cloneElements(page.Elements)
		out[i].Extra = cloneMap(page.Extra)
	}
	return out
}

func cloneElements(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	out := make([]Element, len(elements))
	for i, el := range elements {
		out[i] = el
		out[i].ColCount = cloneInt(el.ColCount)
		out[i].ColumnColCount = cloneInt(el.ColumnColCount)
		out[i].RateMax = cloneInt(el.RateMax)
		out[i].Choices = cloneSlice(el.Choices)
		out[i].Elements = cloneElements(el.Elements)
		out[i].Rows = cloneRows(el.Rows)
		out[i].Extra = cloneMap(el.Extra)
	}
	return out
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row
		out[i].Elements = cloneElements(row.Elements)
		out[i].Extra = cloneMap(row.Extra)
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		return cloneSlice(typed)
	default:
		return v
	}
}
