// Package llm wraps an OpenAI-compatible chat completion API behind the
// single generateText call the title extractor needs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// Generator performs one text completion. Implementations must honour ctx
// cancellation; the caller owns the timeout.
type Generator interface {
	GenerateText(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
}

// GenerateOption adjusts a single GenerateText call.
type GenerateOption func(*generateRequest)

type generateRequest struct {
	systemPrompt string
	maxTokens    int
	temperature  float32
}

// WithSystemPrompt prepends a system message to the request.
func WithSystemPrompt(p string) GenerateOption {
	return func(r *generateRequest) { r.systemPrompt = p }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) GenerateOption {
	return func(r *generateRequest) { r.maxTokens = n }
}

// Client is a Generator over the chat completions endpoint.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL     string
	model       string
	temperature float32
	timeout     time.Duration
}

// WithBaseURL points the client at a compatible gateway (or a test server).
func WithBaseURL(url string) Option {
	return func(o *clientOptions) {
		if url != "" {
			o.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithModel selects the model name.
func WithModel(model string) Option {
	return func(o *clientOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) Option {
	return func(o *clientOptions) { o.temperature = t }
}

// WithHTTPTimeout bounds every HTTP round trip made by the client.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewClient builds a Client. It returns nil when apiKey is empty so callers
// can treat "no key configured" as "no model available".
func NewClient(apiKey string, opts ...Option) *Client {
	if apiKey == "" {
		return nil
	}
	o := clientOptions{model: defaultModel, temperature: 0.1, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: o.timeout}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       o.model,
		temperature: o.temperature,
	}
}

// GenerateText implements Generator.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("llm: client not configured")
	}
	req := generateRequest{maxTokens: 300, temperature: c.temperature}
	for _, opt := range opts {
		opt(&req)
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.maxTokens,
		Temperature: req.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: response missing choices")
	}
	return resp.Choices[0].Message.Content, nil
}
