package scorer

import (
	"errors"
	"strings"

	"github.com/Star2578/bap-test/corpus"
)

// AccuracyScorer compares a response against the prompt's reference
// answer using the prompt's declared comparison mode: exact (normalized
// string equality, 1.0 or 0.0) or overlap (token F1, continuous). The
// metric's final score is the arithmetic mean over the accuracy
// partition.
//
// Prompts without a reference never reach this scorer: corpus
// validation rejects them, so the accuracy denominator is always the
// partition size.
type AccuracyScorer struct{}

func (AccuracyScorer) Metric() corpus.Metric {
	return corpus.Accuracy
}

func (AccuracyScorer) Score(p corpus.Prompt, response string) (float64, error) {
	reference := strings.TrimSpace(p.Reference)
	if reference == "" {
		return 0, &ScoringError{PromptID: p.ID, Err: errors.New("accuracy prompt has no reference")}
	}

	switch p.Match {
	case corpus.MatchExact:
		if normalize(response) == normalize(reference) {
			return 1.0, nil
		}
		return 0.0, nil
	default:
		return tokenF1(response, reference), nil
	}
}
