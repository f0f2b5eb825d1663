package intake

import (
	"context"

	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/mobile"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/recovery"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/sharelink"
)

// Form is the root of a questionnaire schema tree.
type Form = schema.Form

// Response maps question names to submitted answers.
type Response = schema.Response

// Result pairs a normalized form with its audit warnings.
type Result = orchestrator.Result

// Warning flags a schema construct that degrades mobile rendering.
type Warning = mobile.Warning

// ShareLink is one issued access token and its gating policy.
type ShareLink = sharelink.Link

// NewPipeline exposes the pipeline constructor from the top-level module.
func NewPipeline(options ...orchestrator.Option) *orchestrator.Pipeline {
	return orchestrator.New(options...)
}

// Recover parses raw model output into a schema, applying the repair and
// fallback strategies in order.
func Recover(raw string) (schema.Form, error) {
	return recovery.Recover(raw)
}

// Normalize rewrites a form in place to satisfy the mobile rendering
// invariants and returns the advisory audit findings.
func Normalize(form *schema.Form) []mobile.Warning {
	mobile.Optimize(form)
	return mobile.Validate(form)
}

// ProcessRaw recovers, normalizes, and audits raw model output in one step.
// It is the simplest entry point for callers that already hold the model's
// response text.
func ProcessRaw(raw string) (Result, error) {
	return orchestrator.New().ProcessRaw(raw)
}

// RenderResponsePDF renders a completed form to bytes using the built-in
// templates. Callers needing a PDF backend, summaries, or theming should
// build a document.Renderer and a Pipeline directly.
func RenderResponsePDF(ctx context.Context, form *schema.Form, response schema.Response, opts document.ResponseOptions) ([]byte, error) {
	engine, err := document.DefaultEngine()
	if err != nil {
		return nil, err
	}
	renderer, err := document.New(engine)
	if err != nil {
		return nil, err
	}
	return renderer.RenderResponseDocument(ctx, form, response, opts)
}
