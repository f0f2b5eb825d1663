package generative

import (
	"fmt"
	"strings"
)

// QA is one question/answer pair fed into the summary prompt.
type QA struct {
	Question string
	Answer   string
}

// SchemaExtractionPrompt asks the model to turn a source document into a
// SurveyJS form definition. The response is expected to be JSON, possibly
// wrapped in markdown fences, and is handed to the recovery parser as-is.
func SchemaExtractionPrompt(document string) string {
	var b strings.Builder
	b.WriteString("Convert the following document into a SurveyJS JSON form.\n\n")
	b.WriteString("Requirements:\n")
	b.WriteString("1. Use only these question types: text, comment, radiogroup, checkbox, dropdown, boolean, rating, file, matrix, panel.\n")
	b.WriteString("2. Give every question a unique snake_case name and a human-readable title.\n")
	b.WriteString("3. Group related questions into pages, each with a name and title.\n")
	b.WriteString("4. Mark questions the document treats as mandatory with \"isRequired\": true.\n")
	b.WriteString("5. Output a single JSON object with \"title\" and \"pages\" keys and nothing else.\n\n")
	b.WriteString("Document:\n")
	b.WriteString(document)
	return b.String()
}

// SummaryPrompt asks the model for a narrative clinical summary of a
// completed intake form. Only the title and the answered questions go in.
func SummaryPrompt(title string, pairs []QA) string {
	var b strings.Builder
	b.WriteString("You are a medical assistant helping doctors quickly understand patient intake forms.\n\n")
	fmt.Fprintf(&b, "Form: %s\n\n", title)
	b.WriteString("Patient Responses:\n")
	for _, qa := range pairs {
		fmt.Fprintf(&b, "- %s: %s\n", qa.Question, qa.Answer)
	}
	b.WriteString("\nPlease provide a concise clinical summary (2-3 paragraphs) that:\n")
	b.WriteString("1. Highlights the chief complaint and key symptoms\n")
	b.WriteString("2. Notes any red flags or concerning findings\n")
	b.WriteString("3. Summarizes relevant medical history\n")
	b.WriteString("4. Is written in professional medical language suitable for physician notes\n\n")
	b.WriteString("Keep it factual and based only on the provided information.")
	return b.String()
}
