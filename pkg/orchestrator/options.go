package orchestrator

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/generative"
	"github.com/goliatone/go-intake/pkg/mobile"
	"github.com/goliatone/go-intake/pkg/sharelink"
)

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithGenerator injects the generative model used for schema extraction.
func WithGenerator(gen generative.Generator) Option {
	return func(p *Pipeline) {
		p.generator = gen
	}
}

// WithOptimizer overrides the mobile normalization engine.
func WithOptimizer(opt *mobile.Optimizer) Option {
	return func(p *Pipeline) {
		if opt != nil {
			p.optimizer = opt
		}
	}
}

// WithRenderer injects the document renderer.
func WithRenderer(renderer *document.Renderer) Option {
	return func(p *Pipeline) {
		p.renderer = renderer
	}
}

// WithLinkManager injects the share-link manager.
func WithLinkManager(links *sharelink.Manager) Option {
	return func(p *Pipeline) {
		p.links = links
	}
}

// WithExtractionTimeout bounds the generative extraction call.
func WithExtractionTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}
