package document

import (
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/generative"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithBackend attaches the HTML-to-PDF converter. Without one the renderer
// emits HTML bytes.
func WithBackend(backend Backend) Option {
	return func(r *Renderer) {
		r.backend = backend
	}
}

// WithSummarizer attaches the generative model used for narrative summaries.
func WithSummarizer(gen generative.Generator) Option {
	return func(r *Renderer) {
		r.summarizer = gen
	}
}

// WithThemeResolver attaches a source of design tokens for the document
// chrome.
func WithThemeResolver(resolver ThemeResolver) Option {
	return func(r *Renderer) {
		r.theme = resolver
	}
}

// WithSanitizer overrides the HTML sanitization policy applied to generated
// summary text.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.sanitizer = policy
		}
	}
}

// WithSummaryTimeout bounds the generative summary call.
func WithSummaryTimeout(timeout time.Duration) Option {
	return func(r *Renderer) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithClock overrides the time source used for submission stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}
