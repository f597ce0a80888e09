// Package app wires configuration into constructed model handles,
// weight mappings, and corpora for the CLI and the HTTP server.
package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Star2578/bap-test/aggregate"
	"github.com/Star2578/bap-test/corpus"
	"github.com/Star2578/bap-test/internal/config"
	"github.com/Star2578/bap-test/model"
)

// NewRegistryFromConfig constructs one model handle per configured
// provider family.
func NewRegistryFromConfig(cfg *config.Config) (*model.Registry, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	r := model.NewRegistry()
	for name, pcfg := range cfg.Models.Providers {
		key := strings.ToLower(strings.TrimSpace(name))
		switch key {
		case "":
			continue
		case "claude", "anthropic":
			opts := make([]model.ClaudeOption, 0, 2)
			if v := strings.TrimSpace(pcfg.BaseURL); v != "" {
				opts = append(opts, model.WithClaudeBaseURL(v))
			}
			if v := strings.TrimSpace(pcfg.Model); v != "" {
				opts = append(opts, model.WithClaudeModel(v))
			}
			r.Register(model.NewClaude(pcfg.APIKey, opts...))
		case "openai":
			r.Register(model.NewOpenAI(pcfg.APIKey, pcfg.BaseURL, pcfg.Model))
		case "ollama":
			r.Register(model.NewOllama(pcfg.BaseURL, pcfg.Model))
		default:
			return nil, fmt.Errorf("app: unknown provider %q", name)
		}
	}

	return r, nil
}

// ResolveModel returns the requested (or default) model handle from the
// configured registry.
func ResolveModel(cfg *config.Config, provider string) (model.Model, error) {
	reg, err := NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(provider)
	if name == "" {
		name = strings.TrimSpace(cfg.Models.DefaultProvider)
	}
	if name == "" {
		name = "claude"
	}
	if m, ok := reg.Get(name); ok {
		return m, nil
	}

	available := reg.Names()
	sort.Strings(available)
	return nil, fmt.Errorf("app: provider %q not configured (available: %s)", name, strings.Join(available, ", "))
}

// WeightsFromConfig maps the configured weights onto the aggregator's
// mapping, falling back to the equal-weight default.
func WeightsFromConfig(cfg *config.Config) aggregate.Weights {
	if cfg == nil || cfg.Weights.Empty() {
		return aggregate.DefaultWeights()
	}
	return aggregate.Weights{
		corpus.Bias:       cfg.Weights.Bias,
		corpus.Accuracy:   cfg.Weights.Accuracy,
		corpus.Politeness: cfg.Weights.Politeness,
	}
}

// LoadCorpus returns the configured corpus: a caller-supplied YAML file
// when a path is set, the built-in default otherwise. An explicit path
// argument wins over the config.
func LoadCorpus(cfg *config.Config, path string) (*corpus.Corpus, error) {
	p := strings.TrimSpace(path)
	if p == "" && cfg != nil {
		p = strings.TrimSpace(cfg.Evaluation.CorpusPath)
	}
	if p == "" {
		return corpus.Default(), nil
	}
	return corpus.LoadFromFile(p)
}
