package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if _, ok := r.Get("claude"); ok {
		t.Fatalf("empty registry returned a model")
	}

	r.Register(NewOllama("", ""))
	r.Register(NewOpenAI("k", "", ""))

	if _, ok := r.Get("ollama"); !ok {
		t.Fatalf("ollama not found after Register")
	}
	if _, ok := r.Get(" OLLAMA "); !ok {
		t.Fatalf("lookup is not case- and space-insensitive")
	}
	if _, ok := r.Get("missing"); ok {
		t.Fatalf("unexpected hit for unregistered name")
	}

	names := r.Names()
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2: %v", len(names), names)
	}

	var rnil *Registry
	rnil.Register(NewOllama("", "")) // must not panic
	if _, ok := rnil.Get("ollama"); ok {
		t.Fatalf("nil registry returned a model")
	}
}

type anonymousModel struct{}

func (anonymousModel) Name() string { return "anon" }

func (anonymousModel) Generate(_ context.Context, _ string) (string, error) {
	return "", nil
}

func TestModelID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		m    Model
		want string
	}{
		{"openai configured", NewOpenAI("k", "", "gpt-4o-mini"), "gpt-4o-mini"},
		{"openai default", NewOpenAI("k", "", ""), defaultOpenAIModel},
		{"ollama configured", NewOllama("", "mistral"), "mistral"},
		{"ollama default", NewOllama("", ""), defaultOllamaModel},
		{"claude configured", NewClaude("k", WithClaudeModel("claude-3-haiku")), "claude-3-haiku"},
		{"claude default", NewClaude("k"), defaultClaudeModel},
		{"handle without id", anonymousModel{}, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ID(tc.m); got != tc.want {
				t.Fatalf("ID: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestGenerationErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &GenerationError{Provider: "openai", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("Unwrap lost the cause")
	}
	if !strings.Contains(err.Error(), "openai") {
		t.Fatalf("error does not name the provider: %q", err)
	}

	var enil *GenerationError
	if enil.Error() == "" || enil.Unwrap() != nil {
		t.Fatalf("nil receiver misbehaves")
	}
}

func chatCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.Body.Close()
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:      "chatcmpl_1",
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   "test-model",
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				FinishReason: openai.FinishReasonStop,
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: content,
				},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGenerate(t *testing.T) {
	t.Parallel()

	srv := chatCompletionServer(t, "hello")

	p := NewOpenAI("k", srv.URL+"/v1", "test-model")
	if p.Name() != "openai" {
		t.Fatalf("Name: got %q", p.Name())
	}

	got, err := p.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hello" {
		t.Fatalf("Generate: got %q want %q", got, "hello")
	}

	if _, err := p.Generate(nil, "hi"); err == nil {
		t.Fatalf("Generate(nil ctx): expected error")
	}

	var pnil *OpenAI
	if _, err := pnil.Generate(context.Background(), "hi"); err == nil {
		t.Fatalf("Generate(nil adapter): expected error")
	}
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.Body.Close()
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl_1",
			Object: "chat.completion",
			Model:  "test-model",
		})
	}))
	t.Cleanup(srv.Close)

	p := NewOpenAI("k", srv.URL+"/v1", "test-model")
	_, err := p.Generate(context.Background(), "hi")
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "empty choices") {
		t.Fatalf("got %v, want empty choices", err)
	}
}

func TestOllamaGenerate(t *testing.T) {
	t.Parallel()

	srv := chatCompletionServer(t, "local answer")

	p := NewOllama(srv.URL+"/v1", "llama3")
	if p.Name() != "ollama" {
		t.Fatalf("Name: got %q", p.Name())
	}

	got, err := p.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "local answer" {
		t.Fatalf("Generate: got %q want %q", got, "local answer")
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.Body.Close()
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	p := NewOllama(srv.URL+"/v1", "llama3")
	_, err := p.Generate(context.Background(), "hi")
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
	if ge.Provider != "ollama" {
		t.Fatalf("provider: got %q", ge.Provider)
	}
}

func TestClaudeGenerate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		_ = r.Body.Close()
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "test-model",
			"stop_reason": "end_turn",
			"content": []map[string]any{
				{"type": "text", "text": "a"},
				{"type": "text", "text": "b"},
			},
			"usage": map[string]any{"input_tokens": 1, "output_tokens": 2},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClaude("k",
		WithClaudeBaseURL(srv.URL+"/v1"),
		WithClaudeModel("test-model"),
		WithClaudeMaxTokens(32),
		WithClaudeTimeout(5*time.Second),
	)
	if c.Name() != "claude" {
		t.Fatalf("Name: got %q", c.Name())
	}

	got, err := c.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "ab" {
		t.Fatalf("Generate: got %q want %q", got, "ab")
	}

	if _, err := c.Generate(nil, "hi"); err == nil {
		t.Fatalf("Generate(nil ctx): expected error")
	}

	var cnil *Claude
	if _, err := cnil.Generate(context.Background(), "hi"); err == nil {
		t.Fatalf("Generate(nil adapter): expected error")
	}
}
