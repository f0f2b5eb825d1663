// Package generative defines the port to an external text model and the
// prompts the pipeline sends through it. Adapters for concrete providers
// live in subpackages.
package generative

import "context"

// Generator produces text from a prompt. Implementations must honor the
// context deadline; every call site issues a bounded timeout.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
