package corpus

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadError reports a malformed corpus. It is fatal: no generation may
// start against a corpus that failed validation.
type LoadError struct {
	PromptID string
	Reason   string
}

func (e *LoadError) Error() string {
	if e == nil {
		return "corpus: load error"
	}
	if strings.TrimSpace(e.PromptID) == "" {
		return fmt.Sprintf("corpus: %s", e.Reason)
	}
	return fmt.Sprintf("corpus: prompt %q: %s", e.PromptID, e.Reason)
}

// Corpus is an ordered, read-only sequence of prompts partitioned by
// metric. Partition order follows load order, so scores are reproducible
// across runs.
type Corpus struct {
	version  string
	prompts  []Prompt
	byMetric map[Metric][]Prompt
}

// New validates prompts and builds a corpus. Validation rules:
// unique non-empty ids, non-empty text, recognized metric labels,
// accuracy prompts carry a reference and a valid comparison mode, and
// every metric has at least one prompt (otherwise its mean and PEI
// would be undefined).
func New(version string, prompts []Prompt) (*Corpus, error) {
	if len(prompts) == 0 {
		return nil, &LoadError{Reason: "no prompts"}
	}

	seen := make(map[string]struct{}, len(prompts))
	byMetric := make(map[Metric][]Prompt, len(Metrics))
	out := make([]Prompt, 0, len(prompts))

	for i, p := range prompts {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, &LoadError{Reason: fmt.Sprintf("prompts[%d]: missing id", i)}
		}
		if _, ok := seen[id]; ok {
			return nil, &LoadError{PromptID: id, Reason: "duplicate id"}
		}
		seen[id] = struct{}{}

		if strings.TrimSpace(p.Text) == "" {
			return nil, &LoadError{PromptID: id, Reason: "missing text"}
		}
		if !p.Metric.Known() {
			return nil, &LoadError{PromptID: id, Reason: fmt.Sprintf("unknown metric %q", p.Metric)}
		}

		if p.Metric == Accuracy {
			if strings.TrimSpace(p.Reference) == "" {
				return nil, &LoadError{PromptID: id, Reason: "accuracy prompt has no reference"}
			}
			switch p.Match {
			case "":
				p.Match = MatchOverlap
			case MatchExact, MatchOverlap:
			default:
				return nil, &LoadError{PromptID: id, Reason: fmt.Sprintf("unknown match mode %q", p.Match)}
			}
		} else if p.Match != "" {
			return nil, &LoadError{PromptID: id, Reason: "match mode only applies to accuracy prompts"}
		}

		p.ID = id
		out = append(out, p)
		byMetric[p.Metric] = append(byMetric[p.Metric], p)
	}

	for _, m := range Metrics {
		if len(byMetric[m]) == 0 {
			return nil, &LoadError{Reason: fmt.Sprintf("no prompts for metric %q", m)}
		}
	}

	return &Corpus{
		version:  strings.TrimSpace(version),
		prompts:  out,
		byMetric: byMetric,
	}, nil
}

// Version returns the corpus version label.
func (c *Corpus) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}

// Len returns the total prompt count.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.prompts)
}

// Prompts returns all prompts in load order. The returned slice is a
// copy; the corpus itself never changes after construction.
func (c *Corpus) Prompts() []Prompt {
	if c == nil {
		return nil
	}
	out := make([]Prompt, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// Partition returns the prompts tagged with the given metric, in load
// order.
func (c *Corpus) Partition(m Metric) []Prompt {
	if c == nil {
		return nil
	}
	src := c.byMetric[m]
	out := make([]Prompt, len(src))
	copy(out, src)
	return out
}

type corpusFile struct {
	Version string   `yaml:"version"`
	Prompts []Prompt `yaml:"prompts"`
}

// LoadFromFile loads and validates a caller-supplied corpus from a YAML
// file of the shape:
//
//	version: "1"
//	prompts:
//	  - id: acc_capital
//	    metric: accuracy
//	    text: "What is the capital of Canada?"
//	    reference: "Ottawa"
//	    match: exact
func LoadFromFile(path string) (*Corpus, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %q: %w", path, err)
	}

	var f corpusFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("corpus: parse %q: %w", path, err)
	}

	c, err := New(f.Version, f.Prompts)
	if err != nil {
		return nil, fmt.Errorf("corpus: validate %q: %w", path, err)
	}
	return c, nil
}
