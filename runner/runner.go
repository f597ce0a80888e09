// Package runner orchestrates one evaluation pass: corpus iteration,
// model invocation, per-metric scoring, and PEI aggregation.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Star2578/bap-test/aggregate"
	"github.com/Star2578/bap-test/corpus"
	"github.com/Star2578/bap-test/model"
	"github.com/Star2578/bap-test/scorer"
)

// ErrCancelled is returned when the run is cancelled. A cancelled run
// discards all accumulated partial state and never returns a partial
// result.
var ErrCancelled = errors.New("runner: cancelled")

// Runner evaluates one model handle against one corpus. Prompts are
// processed sequentially: adapters are not assumed safe for concurrent
// invocation, so no two prompts ever race against the same handle
// within a run. The runner never mutates the handle beyond calling
// Generate.
type Runner struct {
	model  model.Model
	corpus *corpus.Corpus
	cfg    Config

	state   atomic.Int32
	details []PromptDetail
}

// New binds a model handle and corpus. Configuration-level failures
// (missing dependencies, invalid weight mapping) surface here, before
// any generation starts.
func New(m model.Model, c *corpus.Corpus, cfg Config) (*Runner, error) {
	if m == nil {
		return nil, errors.New("runner: nil model handle")
	}
	if c == nil || c.Len() == 0 {
		return nil, errors.New("runner: nil or empty corpus")
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.Weights == nil {
		cfg.Weights = aggregate.DefaultWeights()
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		model:  m,
		corpus: c,
		cfg:    cfg,
	}
	r.state.Store(int32(StateIdle))
	return r, nil
}

// State reports the runner's current state.
func (r *Runner) State() State {
	if r == nil {
		return StateIdle
	}
	return State(r.state.Load())
}

// Details returns per-prompt records from the last completed run, in
// corpus order.
func (r *Runner) Details() []PromptDetail {
	if r == nil {
		return nil
	}
	out := make([]PromptDetail, len(r.details))
	copy(out, r.details)
	return out
}

// Run executes one evaluation pass. Single-prompt failures are absorbed
// as worst-case scores after bounded retries; only whole-partition
// failures or cancellation abort the run. Running the same deterministic
// handle twice yields identical results.
func (r *Runner) Run(ctx context.Context) (*EvaluationResult, error) {
	if r == nil {
		return nil, errors.New("runner: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("runner: nil context")
	}

	r.state.Store(int32(StateRunning))
	r.details = nil

	prompts := r.corpus.Prompts()
	total := len(prompts)

	totals := make(map[corpus.Metric]float64, len(corpus.Metrics))
	counts := make(map[corpus.Metric]int, len(corpus.Metrics))
	degradedCounts := make(map[corpus.Metric]int, len(corpus.Metrics))
	details := make([]PromptDetail, 0, total)

	for i, p := range prompts {
		// Cancellation point between prompts. Partial state is discarded.
		select {
		case <-ctx.Done():
			r.state.Store(int32(StateFailed))
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		default:
		}

		detail := PromptDetail{PromptID: p.ID, Metric: p.Metric}

		response, genErr := r.generateWithRetry(ctx, p.Text)
		if genErr != nil {
			if ctx.Err() != nil {
				r.state.Store(int32(StateFailed))
				return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
			}
			detail.Degraded = true
			detail.Error = genErr.Error()
		} else {
			detail.Response = response
			sc, ok := scorer.ForMetric(p.Metric)
			if !ok {
				// Unreachable for a validated corpus.
				detail.Degraded = true
				detail.Error = fmt.Sprintf("runner: no scorer for metric %q", p.Metric)
			} else if score, err := sc.Score(p, response); err != nil {
				detail.Degraded = true
				detail.Error = err.Error()
			} else {
				detail.Score = score
			}
		}

		totals[p.Metric] += detail.Score
		counts[p.Metric]++
		if detail.Degraded {
			degradedCounts[p.Metric]++
		}
		details = append(details, detail)

		if r.cfg.Progress != nil {
			r.cfg.Progress(i+1, total)
		}
	}

	for _, m := range corpus.Metrics {
		if counts[m] > 0 && degradedCounts[m] == counts[m] {
			r.state.Store(int32(StateFailed))
			return nil, &PartitionError{Metric: m}
		}
	}

	scores := make(map[corpus.Metric]float64, len(corpus.Metrics))
	for _, m := range corpus.Metrics {
		if counts[m] == 0 {
			// Validated corpora cover all metrics; guard anyway.
			r.state.Store(int32(StateFailed))
			return nil, &PartitionError{Metric: m}
		}
		scores[m] = totals[m] / float64(counts[m])
	}

	pei, err := aggregate.PEI(scores, r.cfg.Weights)
	if err != nil {
		r.state.Store(int32(StateFailed))
		return nil, err
	}

	r.details = details
	r.state.Store(int32(StateCompleted))
	return &EvaluationResult{
		Bias:       scores[corpus.Bias],
		Accuracy:   scores[corpus.Accuracy],
		Politeness: scores[corpus.Politeness],
		PEI:        pei,
	}, nil
}

// generateWithRetry invokes the model up to 1+MaxRetries times, backing
// off between attempts. Retries never reorder results: the response is
// attributed to its prompt before the loop advances.
func (r *Runner) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	attempts := r.cfg.MaxRetries + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(r.cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		genCtx := ctx
		var cancel context.CancelFunc
		if r.cfg.Timeout > 0 {
			genCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		}
		response, err := r.model.Generate(genCtx, prompt)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return response, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}
