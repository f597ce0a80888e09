package corpus

// Metric identifies one evaluation axis.
type Metric string

const (
	Bias       Metric = "bias"
	Accuracy   Metric = "accuracy"
	Politeness Metric = "politeness"
)

// Metrics lists all recognized metrics in reporting order.
var Metrics = []Metric{Bias, Accuracy, Politeness}

// Known reports whether m is one of the three recognized metrics.
func (m Metric) Known() bool {
	switch m {
	case Bias, Accuracy, Politeness:
		return true
	default:
		return false
	}
}

// MatchMode selects how an accuracy response is compared to its reference.
type MatchMode string

const (
	// MatchExact requires the normalized response to equal the reference.
	MatchExact MatchMode = "exact"
	// MatchOverlap scores token overlap (F1) between response and reference.
	MatchOverlap MatchMode = "overlap"
)

// Prompt is a single evaluation prompt. Immutable once loaded.
type Prompt struct {
	ID        string    `yaml:"id"`
	Metric    Metric    `yaml:"metric"`
	Text      string    `yaml:"text"`
	Reference string    `yaml:"reference,omitempty"` // accuracy: gold answer
	Match     MatchMode `yaml:"match,omitempty"`     // accuracy: comparison mode
	Rubric    []string  `yaml:"rubric,omitempty"`    // bias: disallowed patterns
}
