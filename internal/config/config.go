package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Models     ModelsConfig     `yaml:"models"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Weights    WeightsConfig    `yaml:"weights"`
	Storage    StorageConfig    `yaml:"storage"`
}

type ModelsConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type EvaluationConfig struct {
	MaxRetries int           `yaml:"max_retries,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	CorpusPath string        `yaml:"corpus_path,omitempty"` // empty: built-in default corpus
}

// UnmarshalYAML accepts timeout as a duration string ("30s").
func (e *EvaluationConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxRetries int    `yaml:"max_retries"`
		Timeout    string `yaml:"timeout"`
		CorpusPath string `yaml:"corpus_path"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	e.MaxRetries = raw.MaxRetries
	e.CorpusPath = raw.CorpusPath
	e.Timeout = 0
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: evaluation.timeout: %w", err)
		}
		e.Timeout = d
	}
	return nil
}

// WeightsConfig holds the PEI weight mapping. All zeros means "use the
// equal-weight default".
type WeightsConfig struct {
	Bias       float64 `yaml:"bias,omitempty"`
	Accuracy   float64 `yaml:"accuracy,omitempty"`
	Politeness float64 `yaml:"politeness,omitempty"`
}

// Empty reports whether no weight was configured.
func (w WeightsConfig) Empty() bool {
	return w.Bias == 0 && w.Accuracy == 0 && w.Politeness == 0
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

// Load reads a YAML config file and applies environment overrides for
// provider credentials.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with environment-derived credentials only,
// for use when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Models.Providers == nil {
		cfg.Models.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.Models.DefaultProvider) == "" {
		cfg.Models.DefaultProvider = "claude"
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.Models.Providers["claude"]
		if strings.TrimSpace(p.APIKey) == "" {
			p.APIKey = v
		}
		cfg.Models.Providers["claude"] = p
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.Models.Providers["openai"]
		if strings.TrimSpace(p.APIKey) == "" {
			p.APIKey = v
		}
		cfg.Models.Providers["openai"] = p
	}
}
