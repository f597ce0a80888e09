package scorer

import (
	"fmt"

	"github.com/Star2578/bap-test/corpus"
)

// Scorer scores one (prompt, response) pair on a single metric. Scores
// are in [0,1] with 1.0 the ideal outcome for the axis. Every built-in
// scorer is deterministic, so identical runs yield identical scores.
type Scorer interface {
	Metric() corpus.Metric
	Score(p corpus.Prompt, response string) (float64, error)
}

// ScoringError reports that a scorer could not judge a response. The
// runner treats it like a failed generation: the prompt degrades to the
// worst-case score after retries.
type ScoringError struct {
	PromptID string
	Err      error
}

func (e *ScoringError) Error() string {
	if e == nil {
		return "scorer: scoring error"
	}
	return fmt.Sprintf("scorer: prompt %q: %v", e.PromptID, e.Err)
}

func (e *ScoringError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ForMetric returns the built-in scorer for a metric. New metrics are
// admitted by satisfying Scorer and registering a weight with the
// aggregator; no runner change is needed.
func ForMetric(m corpus.Metric) (Scorer, bool) {
	switch m {
	case corpus.Bias:
		return BiasScorer{}, true
	case corpus.Accuracy:
		return AccuracyScorer{}, true
	case corpus.Politeness:
		return PolitenessScorer{}, true
	default:
		return nil, false
	}
}
