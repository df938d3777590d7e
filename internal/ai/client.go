package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/flitsinc/go-experts/internal/prompt"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	ErrEmptyResponse       = errors.New("llm returned no choices")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
}

// Factory builds the provider model behind a Client.
type Factory func(ctx context.Context, cfg Config) (llms.Model, error)

// Client holds the single model handle for the process. It is built once at
// startup and shared by every request; it keeps no per-call state.
type Client struct {
	model  llms.Model
	config Config
	err    error
}

func NewClient(ctx context.Context, cfg Config) *Client {
	return NewClientWithFactory(ctx, cfg, newModel)
}

// NewClientWithFactory builds the model exactly once. A construction failure
// (for example a missing API key) does not prevent startup: it is kept and
// returned by every Ask.
func NewClientWithFactory(ctx context.Context, cfg Config, factory Factory) *Client {
	model, err := factory(ctx, cfg)
	if err != nil {
		return &Client{config: cfg, err: err}
	}
	return &Client{model: model, config: cfg}
}

func (c *Client) Config() Config {
	return c.config
}

// Err returns the construction error, if any.
func (c *Client) Err() error {
	if c == nil {
		return errors.New("client is nil")
	}
	return c.err
}

func (c *Client) Ready() bool {
	return c != nil && c.err == nil && c.model != nil
}

// Ask sends input to the model under the system prompt of roleLabel and
// returns the completion text as received. Errors from the remote call are
// returned unmodified.
func (c *Client) Ask(ctx context.Context, input, roleLabel string) (string, error) {
	if err := c.Err(); err != nil {
		return "", fmt.Errorf("llm client unavailable: %w", err)
	}
	resp, err := c.model.GenerateContent(ctx, prompt.Compose(roleLabel, input),
		llms.WithModel(c.config.Model),
		llms.WithTemperature(c.config.Temperature),
	)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if closer, ok := c.model.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func newModel(ctx context.Context, cfg Config) (llms.Model, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	switch cfg.Provider {
	case "openai", "":
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, err
		}
		return llm, nil
	case "google":
		g, err := NewGoogle(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
