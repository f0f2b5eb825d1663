package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/testsupport"
)

func ratePtr(v int) *int { return &v }

func intakeForm() *schema.Form {
	return &schema.Form{
		Title: "New Patient Intake",
		Pages: []schema.Page{{
			Name: "page1",
			Elements: []schema.Element{
				{Type: schema.TypeText, Name: "full_name", Title: "Full name", IsRequired: true},
				{Type: schema.TypeCheckbox, Name: "symptoms", Title: "Current symptoms",
					Choices: []any{"Fever", "Cough", "Fatigue"}},
				{Type: schema.TypeBoolean, Name: "smoker", Title: "Do you smoke?"},
				{Type: schema.TypeRating, Name: "pain", Title: "Pain level", RateMax: ratePtr(10)},
				{Type: schema.TypeRating, Name: "mood", Title: "Mood"},
				{Type: schema.TypeText, Name: "quit_date", Title: "When did you quit?",
					VisibleIf: "{smoker} = true"},
			},
		}},
	}
}

func TestTransformFormatting(t *testing.T) {
	form := intakeForm()
	response := schema.Response{
		"full_name": "Ada Osei",
		"symptoms":  []any{"Fever", "Fatigue"},
		"smoker":    false,
		"pain":      float64(7),
		"mood":      float64(3),
	}

	rows := Transform(form, response)

	byName := map[string]Row{}
	for _, row := range rows {
		byName[row.Name] = row
	}

	if got := byName["symptoms"].FormattedValue; got != "Fever, Fatigue" {
		t.Fatalf("checkbox formatting = %q", got)
	}
	if got := byName["smoker"].FormattedValue; got != "No" {
		t.Fatalf("boolean formatting = %q", got)
	}
	if got := byName["pain"].FormattedValue; got != "7 out of 10" {
		t.Fatalf("rating formatting = %q", got)
	}
	if got := byName["mood"].FormattedValue; got != "3 out of 5" {
		t.Fatalf("rating default max = %q", got)
	}
	if got := byName["full_name"]; got.FormattedValue != "Ada Osei" || !got.Required {
		t.Fatalf("text row = %+v", got)
	}
}

func TestTransformSkipsUnansweredAndHidden(t *testing.T) {
	form := intakeForm()
	response := schema.Response{
		"full_name": "Ada Osei",
		"smoker":    false,
		"quit_date": "2019",
	}

	rows := Transform(form, response)

	for _, row := range rows {
		if row.Name == "symptoms" {
			t.Fatal("unanswered question produced a row")
		}
		if row.Name == "quit_date" {
			t.Fatal("hidden question produced a row despite its answer")
		}
	}
}

func TestTransformFlattensPanels(t *testing.T) {
	form := &schema.Form{
		Pages: []schema.Page{{
			Name: "page1",
			Elements: []schema.Element{{
				Type:  schema.TypePanel,
				Name:  "history",
				Title: "Medical History",
				Elements: []schema.Element{
					{Type: schema.TypeText, Name: "conditions", Title: "Known conditions"},
				},
			}},
		}},
	}
	response := schema.Response{"conditions": "asthma"}

	rows := Transform(form, response)
	if len(rows) != 1 || rows[0].Name != "conditions" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestTransformBlank(t *testing.T) {
	form := intakeForm()
	rows := TransformBlank(form)

	if len(rows) != 6 {
		t.Fatalf("blank rows = %d, want every question", len(rows))
	}
	for _, row := range rows {
		if row.Value != nil || row.FormattedValue != "" {
			t.Fatalf("blank row carries a value: %+v", row)
		}
	}

	want := []any{"Fever", "Cough", "Fatigue"}
	var symptoms Row
	for _, row := range rows {
		if row.Name == "symptoms" {
			symptoms = row
		}
	}
	if diff := cmp.Diff(want, symptoms.Choices); diff != "" {
		t.Fatalf("choices (-want +got):\n%s", diff)
	}
}

func TestChoiceTextsObjectChoices(t *testing.T) {
	got := choiceTexts([]any{
		map[string]any{"value": "opt1", "text": "Option One"},
		map[string]any{"value": "opt2"},
		"plain",
	})
	want := []any{"Option One", "opt2", "plain"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("choiceTexts (-want +got):\n%s", diff)
	}
}

func TestTransformTitleFallsBackToName(t *testing.T) {
	form := &schema.Form{
		Pages: []schema.Page{{
			Name:     "page1",
			Elements: []schema.Element{{Type: schema.TypeText, Name: "dob"}},
		}},
	}
	rows := Transform(form, schema.Response{"dob": "1990-01-01"})
	if len(rows) != 1 || rows[0].Title != "dob" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestTransformFixtureGolden(t *testing.T) {
	form := testsupport.LoadForm(t, "testdata/intake_form.json")
	response := testsupport.LoadResponse(t, "testdata/intake_response.json")

	rows := Transform(&form, response)
	testsupport.AssertGolden(t, "testdata/response_rows.golden.json", rows)
}
