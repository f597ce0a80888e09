package model

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel   = "gpt-4o"
	defaultOpenAITimeout = 60 * time.Second
)

// OpenAI generates completions through the OpenAI chat API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI constructs an OpenAI adapter. baseURL and model may be
// empty; defaults apply.
func NewOpenAI(apiKey string, baseURL string, model string) *OpenAI {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: defaultOpenAITimeout}

	m := strings.TrimSpace(model)
	if m == "" {
		m = defaultOpenAIModel
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  m,
	}
}

func (p *OpenAI) Name() string {
	return "openai"
}

// ModelID returns the configured chat model identifier.
func (p *OpenAI) ModelID() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if p == nil || p.client == nil {
		return "", &GenerationError{Provider: "openai", Err: errors.New("nil client")}
	}
	if ctx == nil {
		return "", &GenerationError{Provider: "openai", Err: errors.New("nil context")}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &GenerationError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Provider: "openai", Err: errors.New("empty choices")}
	}

	return resp.Choices[0].Message.Content, nil
}
