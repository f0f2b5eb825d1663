package recovery

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/testsupport"
)

const minimalForm = `{
  "title": "Intake",
  "pages": [{
    "name": "page1",
    "elements": [{"type": "text", "name": "full_name", "title": "Full name"}]
  }]
}`

func TestRecoverDirectJSON(t *testing.T) {
	form, err := Recover(minimalForm)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if form.Title != "Intake" || len(form.Pages) != 1 {
		t.Fatalf("form = %+v", form)
	}
}

func TestRecoverFencedEquivalence(t *testing.T) {
	direct, err := Recover(minimalForm)
	if err != nil {
		t.Fatalf("Recover(direct) error: %v", err)
	}

	wrapped := "Sure! Here is the schema you asked for:\n\n```json\n" +
		minimalForm + "\n```\n\nLet me know if it needs changes."
	fenced, err := Recover(wrapped)
	if err != nil {
		t.Fatalf("Recover(fenced) error: %v", err)
	}

	if diff := cmp.Diff(direct, fenced); diff != "" {
		t.Fatalf("fenced output differs from direct (-direct +fenced):\n%s", diff)
	}
}

func TestRecoverFenceWithoutLanguageTag(t *testing.T) {
	wrapped := "```\n" + minimalForm + "\n```"
	form, err := Recover(wrapped)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if form.Title != "Intake" {
		t.Fatalf("title = %q", form.Title)
	}
}

func TestRecoverProseWithEmbeddedObject(t *testing.T) {
	raw := "The form is defined as " + minimalForm + " and that is all."
	form, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if form.Title != "Intake" {
		t.Fatalf("title = %q", form.Title)
	}
}

func TestRecoverTrailingComma(t *testing.T) {
	raw := `{
  "title": "Intake",
  "pages": [{
    "name": "page1",
    "elements": [{"type": "text", "name": "q1",},],
  },],
}`
	form, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if len(form.Pages) != 1 || len(form.Pages[0].Elements) != 1 {
		t.Fatalf("form = %+v", form)
	}
}

func TestRecoverComments(t *testing.T) {
	raw := `{
  // generated schema
  "title": "Intake", /* inline */
  "pages": []
}`
	form, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if form.Title != "Intake" {
		t.Fatalf("title = %q", form.Title)
	}
}

func TestRecoverMissingCommas(t *testing.T) {
	raw := `{
  "title": "Intake"
  "pages": [{
    "name": "page1"
    "elements": [
      {"type": "text" "name": "q1"}
      {"type": "text", "name": "q2"}
    ]
  }]
}`
	form, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if len(form.Pages[0].Elements) != 2 {
		t.Fatalf("elements = %+v", form.Pages[0].Elements)
	}
}

func TestRecoverPermissiveSingleQuotes(t *testing.T) {
	raw := `{'title': 'Intake', 'pages': [{'name': 'page1', 'elements': []}]}`
	form, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if form.Title != "Intake" {
		t.Fatalf("title = %q", form.Title)
	}
}

func TestRecoverPreservesUnknownAttributes(t *testing.T) {
	raw := `{"title": "Intake", "customBranding": {"logo": "x.png"}, "pages": []}`
	form, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	branding, ok := form.Extra["customBranding"].(map[string]any)
	if !ok || branding["logo"] != "x.png" {
		t.Fatalf("extra = %+v", form.Extra)
	}
}

func TestRecoverBareRootElements(t *testing.T) {
	raw := `{"title": "Intake", "elements": [{"type": "text", "name": "q1"}]}`
	form, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if len(form.Pages) != 1 || form.Pages[0].Name != "page1" {
		t.Fatalf("pages = %+v", form.Pages)
	}
	if len(form.Pages[0].Elements) != 1 {
		t.Fatalf("elements = %+v", form.Pages[0].Elements)
	}
}

func TestRecoverFailureDiagnostics(t *testing.T) {
	raw := "no structured data here at all"
	_, err := Recover(raw)

	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Recover() error = %T, want *Failure", err)
	}
	if failure.Err == nil {
		t.Fatal("failure carries no cause")
	}
}

func TestRecoverFailureOffsetContext(t *testing.T) {
	// A text that looks like JSON but cannot be parsed by any strategy.
	raw := `{"title": <<<>>>}`
	_, err := Recover(raw)

	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Recover() error = %T, want *Failure", err)
	}
	if failure.Context == "" {
		t.Fatal("failure context is empty")
	}
	if !strings.Contains(failure.Context, "<<<") {
		t.Fatalf("context does not show the offending text: %q", failure.Context)
	}
}

func TestRecoverEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, err := Recover(raw); err == nil {
			t.Fatalf("Recover(%q) should fail", raw)
		}
	}
}

func TestRecoverDeterministic(t *testing.T) {
	raw := "```json\n" + minimalForm + "\n```"
	first, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	second, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("non-deterministic recovery:\n%s", diff)
	}
}

func TestRecoverCapturedModelOutput(t *testing.T) {
	raw := testsupport.LoadRaw(t, "testdata/model_output.txt")

	form, err := Recover(raw)
	if err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if len(form.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(form.Pages))
	}
	testsupport.AssertGolden(t, "testdata/model_output.golden.json", form)
}

func TestRecoverNonObjectInput(t *testing.T) {
	if _, err := Recover(`[1, 2, 3]`); err == nil {
		t.Fatal("array input should fail: a schema must be an object")
	}
}

var recoverSink schema.Form

func BenchmarkRecoverFenced(b *testing.B) {
	raw := "```json\n" + minimalForm + "\n```"
	for i := 0; i < b.N; i++ {
		form, err := Recover(raw)
		if err != nil {
			b.Fatal(err)
		}
		recoverSink = form
	}
}
