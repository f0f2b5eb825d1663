// Package document turns a schema plus a response into a printable PDF. The
// projection step flattens the form into question/answer rows, an optional
// generative summary is prepended, and a template engine plus an HTML-to-PDF
// backend produce the final bytes.
package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/generative"
	"github.com/goliatone/go-intake/pkg/schema"
)

// SummaryFallback replaces the narrative summary when the generative model
// fails or times out. Summary failure never aborts document generation.
const SummaryFallback = "AI summary generation failed. Please review the full responses below."

// DefaultSummaryTimeout bounds the generative summary call.
const DefaultSummaryTimeout = 30 * time.Second

// Template names resolved through the engine.
const (
	ResponseTemplate = "response_form"
	BlankTemplate    = "blank_form"
)

// RenderError reports a template or backend failure. Rendering is read-only
// over persisted state, so the failure is scoped to the single request.
type RenderError struct {
	Stage    string // "template" or "backend"
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("document: %s failed for template %q: %v", e.Stage, e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// TemplateEngine renders a named template against a context value.
type TemplateEngine interface {
	RenderTemplate(name string, data any) (string, error)
}

// Backend converts rendered HTML into PDF bytes.
type Backend interface {
	Convert(ctx context.Context, html []byte) ([]byte, error)
}

// ThemeResolver supplies design tokens for the document chrome.
type ThemeResolver interface {
	Resolve() (name, variant string, tokens map[string]string, err error)
}

// Renderer produces documents. Construct with New; the zero value is not
// usable.
type Renderer struct {
	engine     TemplateEngine
	backend    Backend
	summarizer generative.Generator
	theme      ThemeResolver
	sanitizer  *bluemonday.Policy
	timeout    time.Duration
	now        func() time.Time
	log        *zap.Logger
}

// New builds a Renderer around a template engine. Without a backend the
// renderer returns the intermediate HTML bytes, which is what tests and the
// CLI's --html mode consume.
func New(engine TemplateEngine, options ...Option) (*Renderer, error) {
	if engine == nil {
		return nil, errors.New("document: template engine is required")
	}
	r := &Renderer{
		engine:    engine,
		sanitizer: bluemonday.UGCPolicy(),
		timeout:   DefaultSummaryTimeout,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// ResponseOptions shape one response document.
type ResponseOptions struct {
	Title          string
	SubjectName    string
	IncludeSummary bool
}

type documentContext struct {
	FormTitle      string            `json:"form_title"`
	PatientName    string            `json:"patient_name"`
	SubmissionDate string            `json:"submission_date"`
	SubmissionTime string            `json:"submission_time"`
	Summary        string            `json:"clinical_summary"`
	IncludeSummary bool              `json:"include_summary"`
	Rows           []Row             `json:"form_data"`
	ThemeName      string            `json:"theme_name"`
	ThemeTokens    map[string]string `json:"theme_tokens"`
}

// RenderResponseDocument renders a completed form. The generative summary,
// when requested, runs under a bounded timeout and degrades to
// SummaryFallback on any failure.
func (r *Renderer) RenderResponseDocument(ctx context.Context, form *schema.Form, response schema.Response, opts ResponseOptions) ([]byte, error) {
	if form == nil {
		return nil, errors.New("document: form is required")
	}

	rows := Transform(form, response)

	data := r.baseContext(opts.Title)
	data.Rows = rows
	if opts.SubjectName != "" {
		data.PatientName = opts.SubjectName
	}
	if opts.IncludeSummary {
		data.IncludeSummary = true
		data.Summary = r.summarize(ctx, opts.Title, rows)
	}

	return r.render(ctx, ResponseTemplate, data)
}

// RenderBlankDocument renders an unfilled form for printing.
func (r *Renderer) RenderBlankDocument(ctx context.Context, form *schema.Form, title string) ([]byte, error) {
	if form == nil {
		return nil, errors.New("document: form is required")
	}

	data := r.baseContext(title)
	data.Rows = TransformBlank(form)

	return r.render(ctx, BlankTemplate, data)
}

func (r *Renderer) baseContext(title string) documentContext {
	now := r.now()
	data := documentContext{
		FormTitle:      title,
		PatientName:    "Anonymous",
		SubmissionDate: now.Format("January 2, 2006"),
		SubmissionTime: now.Format("3:04 PM"),
	}

	if r.theme != nil {
		name, variant, tokens, err := r.theme.Resolve()
		if err != nil {
			r.log.Warn("document: theme resolution failed", zap.Error(err))
		} else {
			data.ThemeName = name
			if variant != "" {
				data.ThemeName = name + "/" + variant
			}
			data.ThemeTokens = tokens
		}
	}
	return data
}

func (r *Renderer) render(ctx context.Context, templateName string, data documentContext) ([]byte, error) {
	html, err := r.engine.RenderTemplate(templateName, data)
	if err != nil {
		return nil, &RenderError{Stage: "template", Template: templateName, Err: err}
	}
	if r.backend == nil {
		return []byte(html), nil
	}

	pdf, err := r.backend.Convert(ctx, []byte(html))
	if err != nil {
		return nil, &RenderError{Stage: "backend", Template: templateName, Err: err}
	}
	return pdf, nil
}

// summarize asks the generative model for a narrative summary of the
// answered questions. Any failure, including timeout, yields the fallback
// sentence.
func (r *Renderer) summarize(ctx context.Context, title string, rows []Row) string {
	if r.summarizer == nil {
		return SummaryFallback
	}

	pairs := make([]generative.QA, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, generative.QA{Question: row.Title, Answer: row.FormattedValue})
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	summary, err := r.summarizer.Generate(ctx, generative.SummaryPrompt(title, pairs))
	if err != nil {
		r.log.Warn("document: summary generation failed", zap.Error(err))
		return SummaryFallback
	}
	return r.sanitizer.Sanitize(summary)
}
