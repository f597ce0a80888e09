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
	defaultOllamaBaseURL = "http://localhost:11434/v1"
	defaultOllamaModel   = "llama3"
	defaultOllamaTimeout = 120 * time.Second
)

// Ollama generates completions from a self-hosted Ollama server through
// its OpenAI-compatible chat endpoint. Local inference is slow, so the
// default timeout is generous.
type Ollama struct {
	client *openai.Client
	model  string
}

// NewOllama constructs an Ollama adapter. baseURL defaults to the local
// server; no credentials are required.
func NewOllama(baseURL string, model string) *Ollama {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultOllamaBaseURL
	}

	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(base, "/")
	cfg.HTTPClient = &http.Client{Timeout: defaultOllamaTimeout}

	m := strings.TrimSpace(model)
	if m == "" {
		m = defaultOllamaModel
	}

	return &Ollama{
		client: openai.NewClientWithConfig(cfg),
		model:  m,
	}
}

func (p *Ollama) Name() string {
	return "ollama"
}

// ModelID returns the configured local model identifier.
func (p *Ollama) ModelID() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	if p == nil || p.client == nil {
		return "", &GenerationError{Provider: "ollama", Err: errors.New("nil client")}
	}
	if ctx == nil {
		return "", &GenerationError{Provider: "ollama", Err: errors.New("nil context")}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &GenerationError{Provider: "ollama", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Provider: "ollama", Err: errors.New("empty choices")}
	}

	return resp.Choices[0].Message.Content, nil
}
