package mobile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/schema"
)

func intPtr(v int) *int { return &v }

func singlePageForm(elements ...schema.Element) schema.Form {
	return schema.Form{
		Pages: []schema.Page{{Name: "page1", Elements: elements}},
	}
}

func TestOptimizeRootDefaults(t *testing.T) {
	form := singlePageForm()
	Optimize(&form)

	if form.WidthMode != "responsive" {
		t.Fatalf("widthMode = %q, want %q", form.WidthMode, "responsive")
	}
	if form.ShowQuestionNumbers != "off" {
		t.Fatalf("showQuestionNumbers = %q, want %q", form.ShowQuestionNumbers, "off")
	}
	if form.MobileBreakpoint != 768 {
		t.Fatalf("mobileBreakpoint = %d, want 768", form.MobileBreakpoint)
	}
}

func TestOptimizeRootDefaultsPreserveExplicit(t *testing.T) {
	form := singlePageForm()
	form.WidthMode = "static"
	form.ShowQuestionNumbers = "on"
	form.MobileBreakpoint = 1024

	Optimize(&form)

	if form.WidthMode != "static" || form.ShowQuestionNumbers != "on" || form.MobileBreakpoint != 1024 {
		t.Fatalf("explicit root settings were overwritten: %+v", form)
	}
}

func TestOptimizeChoiceGroups(t *testing.T) {
	tests := []struct {
		name     string
		element  schema.Element
		wantCols int
	}{
		{
			name:     "absent colCount forced to zero",
			element:  schema.Element{Type: schema.TypeRadioGroup, Name: "q1"},
			wantCols: 0,
		},
		{
			name:     "positive colCount forced to zero",
			element:  schema.Element{Type: schema.TypeCheckbox, Name: "q2", ColCount: intPtr(3)},
			wantCols: 0,
		},
		{
			name:     "explicit zero preserved",
			element:  schema.Element{Type: schema.TypeRadioGroup, Name: "q3", ColCount: intPtr(0)},
			wantCols: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := singlePageForm(tt.element)
			Optimize(&form)

			got := form.Pages[0].Elements[0].ColCount
			if got == nil || *got != tt.wantCols {
				t.Fatalf("colCount = %v, want %d", got, tt.wantCols)
			}
		})
	}
}

func TestOptimizeStripsTableRenderMode(t *testing.T) {
	form := singlePageForm(schema.Element{
		Type:     schema.TypeRadioGroup,
		Name:     "q1",
		RenderAs: "table",
	})
	Optimize(&form)

	if got := form.Pages[0].Elements[0].RenderAs; got != "" {
		t.Fatalf("renderAs = %q, want empty", got)
	}
}

func TestOptimizeTextInputs(t *testing.T) {
	form := singlePageForm(
		schema.Element{Type: schema.TypeText, Name: "q1"},
		schema.Element{Type: schema.TypeComment, Name: "q2", MaxWidth: "50%"},
	)
	Optimize(&form)

	if got := form.Pages[0].Elements[0].MaxWidth; got != "100%" {
		t.Fatalf("text maxWidth = %q, want %q", got, "100%")
	}
	if got := form.Pages[0].Elements[1].MaxWidth; got != "50%" {
		t.Fatalf("explicit maxWidth was overwritten: %q", got)
	}
}

func TestOptimizeDropdownAlwaysSelect(t *testing.T) {
	form := singlePageForm(schema.Element{
		Type:     schema.TypeDropdown,
		Name:     "q1",
		RenderAs: "autocomplete",
	})
	Optimize(&form)

	if got := form.Pages[0].Elements[0].RenderAs; got != "select" {
		t.Fatalf("dropdown renderAs = %q, want %q", got, "select")
	}
}

func TestOptimizeFileUploads(t *testing.T) {
	form := singlePageForm(
		schema.Element{Type: schema.TypeFile, Name: "q1"},
		schema.Element{Type: schema.TypeFile, Name: "q2", SourceType: "file-picker"},
	)
	Optimize(&form)

	if got := form.Pages[0].Elements[0].SourceType; got != "camera,file-picker" {
		t.Fatalf("sourceType = %q, want %q", got, "camera,file-picker")
	}
	if got := form.Pages[0].Elements[1].SourceType; got != "file-picker" {
		t.Fatalf("explicit sourceType was overwritten: %q", got)
	}
}

func TestOptimizeMatrices(t *testing.T) {
	form := singlePageForm(
		schema.Element{Type: schema.TypeMatrix, Name: "m1"},
		schema.Element{Type: schema.TypeMatrixDropdown, Name: "m2", ColumnColCount: intPtr(4)},
		schema.Element{Type: schema.TypeMatrixDynamic, Name: "m3", MobileView: "table", ColumnColCount: intPtr(1)},
	)
	Optimize(&form)

	els := form.Pages[0].Elements
	if els[0].MobileView != "list" {
		t.Fatalf("matrix mobileView = %q, want %q", els[0].MobileView, "list")
	}
	if els[1].ColumnColCount == nil || *els[1].ColumnColCount != 1 {
		t.Fatalf("columnColCount = %v, want 1", els[1].ColumnColCount)
	}
	if els[2].MobileView != "table" {
		t.Fatalf("explicit mobileView was overwritten: %q", els[2].MobileView)
	}
	if *els[2].ColumnColCount != 1 {
		t.Fatalf("columnColCount 1 should stand, got %d", *els[2].ColumnColCount)
	}
}

func TestOptimizeRecursesIntoNestedElements(t *testing.T) {
	form := singlePageForm(schema.Element{
		Type: schema.TypePanel,
		Name: "outer",
		Elements: []schema.Element{
			{Type: schema.TypeDropdown, Name: "inner"},
		},
		Rows: []schema.Row{
			{Value: "r1", Elements: []schema.Element{
				{Type: schema.TypeRadioGroup, Name: "row_q", ColCount: intPtr(2)},
			}},
		},
	})
	Optimize(&form)

	panel := form.Pages[0].Elements[0]
	if panel.Elements[0].RenderAs != "select" {
		t.Fatalf("nested dropdown renderAs = %q, want %q", panel.Elements[0].RenderAs, "select")
	}
	rowEl := panel.Rows[0].Elements[0]
	if rowEl.ColCount == nil || *rowEl.ColCount != 0 {
		t.Fatalf("row element colCount = %v, want 0", rowEl.ColCount)
	}
}

func TestOptimizeUnknownTypePassthrough(t *testing.T) {
	el := schema.Element{Type: "signaturepad", Name: "sig", RenderAs: "table", ColCount: intPtr(3)}
	form := singlePageForm(el)
	Optimize(&form)

	if diff := cmp.Diff(el, form.Pages[0].Elements[0]); diff != "" {
		t.Fatalf("unknown element kind changed (-want +got):\n%s", diff)
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	form := singlePageForm(
		schema.Element{Type: schema.TypeRadioGroup, Name: "q1", ColCount: intPtr(2), RenderAs: "table"},
		schema.Element{Type: schema.TypeDropdown, Name: "q2"},
		schema.Element{Type: schema.TypeFile, Name: "q3"},
		schema.Element{Type: schema.TypeMatrix, Name: "q4", ColumnColCount: intPtr(3)},
	)

	Optimize(&form)
	once := form.Clone()
	Optimize(&form)

	if diff := cmp.Diff(once, form); diff != "" {
		t.Fatalf("second pass changed the form (-once +twice):\n%s", diff)
	}
}

func TestOptimizeNilForm(t *testing.T) {
	Optimize(nil)
}
