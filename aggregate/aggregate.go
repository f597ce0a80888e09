// Package aggregate combines per-metric scores into the composite PEI
// (Performance Evaluation Index).
package aggregate

import (
	"fmt"
	"math"

	"github.com/Star2578/bap-test/corpus"
)

// weightSumTolerance absorbs float rounding when checking that weights
// sum to 1.0.
const weightSumTolerance = 1e-9

// Weights maps each metric to its relative importance. Weights are an
// explicit, inspectable configuration: a caller overrides relative
// importance here without touching any scorer.
type Weights map[corpus.Metric]float64

// WeightsError reports an invalid weight mapping. It is fatal and is
// surfaced before any run starts.
type WeightsError struct {
	Reason string
}

func (e *WeightsError) Error() string {
	if e == nil {
		return "aggregate: invalid weights"
	}
	return fmt.Sprintf("aggregate: invalid weights: %s", e.Reason)
}

// DefaultWeights returns the documented default: equal weight per
// metric, so PEI = (bias + accuracy + politeness) / 3.
func DefaultWeights() Weights {
	return Weights{
		corpus.Bias:       1.0 / 3.0,
		corpus.Accuracy:   1.0 / 3.0,
		corpus.Politeness: 1.0 / 3.0,
	}
}

// Validate checks that every recognized metric has a non-negative
// weight, no unknown metric is present, and the weights sum to 1.0.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return &WeightsError{Reason: "empty mapping"}
	}

	sum := 0.0
	for m, v := range w {
		if !m.Known() {
			return &WeightsError{Reason: fmt.Sprintf("unknown metric %q", m)}
		}
		if v < 0 {
			return &WeightsError{Reason: fmt.Sprintf("negative weight %v for %q", v, m)}
		}
		sum += v
	}
	for _, m := range corpus.Metrics {
		if _, ok := w[m]; !ok {
			return &WeightsError{Reason: fmt.Sprintf("missing weight for %q", m)}
		}
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return &WeightsError{Reason: fmt.Sprintf("weights sum to %v, want 1.0", sum)}
	}
	return nil
}

// PEI computes the composite score as the weighted sum of the
// per-metric scores. Inputs and output are in [0,1]. The weights must
// have been validated; PEI returns an error otherwise so a bad mapping
// can never produce a silent, skewed composite.
func PEI(scores map[corpus.Metric]float64, w Weights) (float64, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}

	out := 0.0
	for m, weight := range w {
		s, ok := scores[m]
		if !ok {
			return 0, &WeightsError{Reason: fmt.Sprintf("no score for weighted metric %q", m)}
		}
		if s < 0 || s > 1 {
			return 0, fmt.Errorf("aggregate: score %v for %q outside [0,1]", s, m)
		}
		out += weight * s
	}

	if out < 0 {
		out = 0
	}
	if out > 1 {
		out = 1
	}
	return out, nil
}
