package document

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
)

const defaultRateMax = 5

// Row is one question/answer pair projected for template rendering.
type Row struct {
	Type           string `json:"type"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	Value          any    `json:"value"`
	Required       bool   `json:"required"`
	FormattedValue string `json:"formattedValue"`
	Choices        []any  `json:"choices,omitempty"`
}

// Transform projects a form plus its response into template rows. Panels are
// flattened in place, elements hidden by their visibleIf condition are
// skipped along with their children, and only answered questions produce
// rows.
func Transform(form *schema.Form, response schema.Response) []Row {
	if form == nil {
		return nil
	}
	var rows []Row
	for _, page := range form.Pages {
		rows = appendRows(rows, page.Elements, response, false)
	}
	return rows
}

// TransformBlank projects every question into a row with an empty value,
// for printable unfilled forms. Visibility conditions are ignored because
// there are no answers to evaluate them against.
func TransformBlank(form *schema.Form) []Row {
	if form == nil {
		return nil
	}
	var rows []Row
	for _, page := range form.Pages {
		rows = appendRows(rows, page.Elements, nil, true)
	}
	return rows
}

func appendRows(rows []Row, elements []schema.Element, response schema.Response, blank bool) []Row {
	for i := range elements {
		el := &elements[i]

		if !blank && el.VisibleIf != "" && !Visible(el.VisibleIf, response) {
			continue
		}

		if len(el.Elements) > 0 {
			rows = appendRows(rows, el.Elements, response, blank)
		}
		if el.Type == schema.TypePanel || el.Name == "" {
			continue
		}

		title := el.Title
		if title == "" {
			title = el.Name
		}

		var value any
		if !blank {
			answered := false
			value, answered = response[el.Name]
			if !answered {
				continue
			}
		}

		rows = append(rows, Row{
			Type:           el.Type,
			Name:           el.Name,
			Title:          title,
			Value:          value,
			Required:       el.IsRequired,
			FormattedValue: formatValue(el, value),
			Choices:        choiceTexts(el.Choices),
		})
	}
	return rows
}

// choiceTexts flattens choice entries to display strings. Object choices
// prefer their text over their value.
func choiceTexts(choices []any) []any {
	if len(choices) == 0 {
		return nil
	}
	out := make([]any, 0, len(choices))
	for _, choice := range choices {
		if m, ok := choice.(map[string]any); ok {
			if text, ok := m["text"].(string); ok && text != "" {
				out = append(out, text)
				continue
			}
			if value, ok := m["value"]; ok {
				out = append(out, fmt.Sprintf("%v", value))
				continue
			}
		}
		out = append(out, fmt.Sprintf("%v", choice))
	}
	return out
}

// formatValue renders an answer as display text. Checkbox answers join with
// a comma, booleans read as Yes/No, and ratings show their scale.
func formatValue(el *schema.Element, value any) string {
	if value == nil {
		return ""
	}

	switch el.Type {
	case schema.TypeCheckbox:
		if items, ok := value.([]any); ok {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			return strings.Join(parts, ", ")
		}
	case schema.TypeBoolean:
		if b, ok := value.(bool); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	case schema.TypeRating:
		max := defaultRateMax
		if el.RateMax != nil && *el.RateMax > 0 {
			max = *el.RateMax
		}
		return fmt.Sprintf("%v out of %d", value, max)
	}

	return fmt.Sprintf("%v", value)
}
