// Package orchestrator wires the intake pipeline end to end: generative
// schema extraction, recovery of the model's JSON, mobile normalization with
// an advisory audit, share-link gating, and document rendering.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/generative"
	"github.com/goliatone/go-intake/pkg/mobile"
	"github.com/goliatone/go-intake/pkg/recovery"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/sharelink"
)

// DefaultExtractionTimeout bounds the generative extraction call.
const DefaultExtractionTimeout = 60 * time.Second

// Result is a recovered, normalized schema plus the audit findings that
// accompany it. Warnings are advisory; the form is always usable.
type Result struct {
	Form     schema.Form
	Warnings []mobile.Warning
}

// Pipeline coordinates the intake subsystems. Construct with New.
type Pipeline struct {
	generator generative.Generator
	optimizer *mobile.Optimizer
	renderer  *document.Renderer
	links     *sharelink.Manager
	timeout   time.Duration
	log       *zap.Logger
}

// New builds a Pipeline. Every collaborator is optional except where an
// operation needs it: ExtractSchema requires a generator, the render
// operations require a renderer, and the share-link operations require a
// link manager.
func New(options ...Option) *Pipeline {
	p := &Pipeline{
		optimizer: mobile.New(),
		timeout:   DefaultExtractionTimeout,
		log:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// ExtractSchema sends the source document to the generative model and runs
// the raw output through recovery and normalization.
func (p *Pipeline) ExtractSchema(ctx context.Context, sourceDocument string) (Result, error) {
	if p.generator == nil {
		return Result{}, errors.New("orchestrator: no generator configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.generator.Generate(ctx, generative.SchemaExtractionPrompt(sourceDocument))
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: schema extraction: %w", err)
	}
	return p.ProcessRaw(raw)
}

// ProcessRaw recovers a schema from raw model output, normalizes it for
// mobile rendering, and audits the result.
func (p *Pipeline) ProcessRaw(raw string) (Result, error) {
	form, err := recovery.Recover(raw)
	if err != nil {
		return Result{}, err
	}

	p.optimizer.Optimize(&form)
	warnings := mobile.Validate(&form)
	if len(warnings) > 0 {
		p.log.Info("orchestrator: schema audit produced warnings",
			zap.Int("count", len(warnings)),
		)
	}

	return Result{Form: form, Warnings: warnings}, nil
}

// RenderResponseDocument renders a completed form through the configured
// document renderer.
func (p *Pipeline) RenderResponseDocument(ctx context.Context, form *schema.Form, response schema.Response, opts document.ResponseOptions) ([]byte, error) {
	if p.renderer == nil {
		return nil, errors.New("orchestrator: no renderer configured")
	}
	return p.renderer.RenderResponseDocument(ctx, form, response, opts)
}

// RenderBlankDocument renders a printable unfilled form.
func (p *Pipeline) RenderBlankDocument(ctx context.Context, form *schema.Form, title string) ([]byte, error) {
	if p.renderer == nil {
		return nil, errors.New("orchestrator: no renderer configured")
	}
	return p.renderer.RenderBlankDocument(ctx, form, title)
}

// Links exposes the share-link manager, or nil when none is configured.
func (p *Pipeline) Links() *sharelink.Manager {
	return p.links
}

// SubmitThroughLink gates one public submission: it resolves the token,
// checks the password, and records the submission against the link's expiry
// and quota. The returned link reflects the incremented counter.
func (p *Pipeline) SubmitThroughLink(ctx context.Context, formID, token, password string) (sharelink.Link, error) {
	if p.links == nil {
		return sharelink.Link{}, errors.New("orchestrator: no link manager configured")
	}

	link, err := p.links.Resolve(ctx, formID, token)
	if err != nil {
		return sharelink.Link{}, err
	}
	if err := p.links.VerifyPassword(link, password); err != nil {
		return sharelink.Link{}, err
	}
	return p.links.RecordSubmission(ctx, link)
}
