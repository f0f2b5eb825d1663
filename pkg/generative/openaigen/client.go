// Package openaigen adapts the OpenAI chat completion API to the
// generative.Generator port.
package openaigen

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = string(openai.ChatModelGPT4o)

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a compatible API endpoint, such as a
// local proxy.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.requestOpts = append(c.requestOpts, option.WithBaseURL(url))
		}
	}
}

// Client calls the OpenAI chat completion endpoint.
type Client struct {
	api         openai.Client
	model       string
	requestOpts []option.RequestOption
}

// New builds a Client authenticated with the given API key.
func New(apiKey string, options ...Option) *Client {
	c := &Client{model: DefaultModel}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	opts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, c.requestOpts...)
	c.api = openai.NewClient(opts...)
	return c
}

// Generate sends the prompt as a single user message and returns the first
// choice's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openaigen: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openaigen: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
