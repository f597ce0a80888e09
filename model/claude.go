package model

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultClaudeModel     = "claude-sonnet-4-5-20250929"
	defaultClaudeMaxTokens = 1024
	defaultClaudeTimeout   = 60 * time.Second
)

// Claude generates completions through the Anthropic API.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// ClaudeOption configures a Claude adapter at construction.
type ClaudeOption func(*claudeConfig)

type claudeConfig struct {
	baseURL   string
	model     string
	maxTokens int64
	timeout   time.Duration
}

// WithClaudeBaseURL overrides the API base URL.
func WithClaudeBaseURL(baseURL string) ClaudeOption {
	return func(c *claudeConfig) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithClaudeModel overrides the model identifier.
func WithClaudeModel(model string) ClaudeOption {
	return func(c *claudeConfig) {
		if m := strings.TrimSpace(model); m != "" {
			c.model = m
		}
	}
}

// WithClaudeMaxTokens caps the response length.
func WithClaudeMaxTokens(n int) ClaudeOption {
	return func(c *claudeConfig) {
		if n > 0 {
			c.maxTokens = int64(n)
		}
	}
}

// WithClaudeTimeout bounds a single generation.
func WithClaudeTimeout(d time.Duration) ClaudeOption {
	return func(c *claudeConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClaude constructs a Claude adapter. The API key falls back to
// ANTHROPIC_API_KEY when empty (the SDK reads it from the environment).
func NewClaude(apiKey string, opts ...ClaudeOption) *Claude {
	cfg := claudeConfig{
		model:     defaultClaudeModel,
		maxTokens: defaultClaudeMaxTokens,
		timeout:   defaultClaudeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	reqOpts := make([]option.RequestOption, 0, 3)
	if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	}
	if cfg.baseURL != "" {
		// The SDK appends /v1/messages itself.
		base := strings.TrimRight(cfg.baseURL, "/")
		base = strings.TrimSuffix(base, "/v1")
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))

	return &Claude{
		client:    anthropic.NewClient(reqOpts...),
		model:     cfg.model,
		maxTokens: cfg.maxTokens,
	}
}

func (c *Claude) Name() string {
	return "claude"
}

// ModelID returns the configured Anthropic model identifier.
func (c *Claude) ModelID() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", &GenerationError{Provider: "claude", Err: errors.New("nil adapter")}
	}
	if ctx == nil {
		return "", &GenerationError{Provider: "claude", Err: errors.New("nil context")}
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &GenerationError{Provider: "claude", Err: err}
	}
	if msg == nil {
		return "", &GenerationError{Provider: "claude", Err: errors.New("nil response")}
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		sb.WriteString(block.AsText().Text)
	}
	return sb.String(), nil
}
