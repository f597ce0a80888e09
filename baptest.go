// Package baptest scores a language-generating model along three axes —
// bias, accuracy, politeness — and reduces them to one composite PEI
// score. Any back-end satisfying model.Model can be evaluated; the
// harness is indifferent to how the provider answers a prompt.
package baptest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Star2578/bap-test/aggregate"
	"github.com/Star2578/bap-test/corpus"
	"github.com/Star2578/bap-test/model"
	"github.com/Star2578/bap-test/runner"
)

// EvaluationResult is the four-field record produced by one run.
type EvaluationResult = runner.EvaluationResult

// Option customizes a single evaluation run.
type Option func(*options)

type options struct {
	corpus   *corpus.Corpus
	weights  aggregate.Weights
	retries  int
	timeout  time.Duration
	progress runner.Progress
	verbose  bool
}

// WithCorpus evaluates against a caller-supplied corpus instead of the
// built-in default.
func WithCorpus(c *corpus.Corpus) Option {
	return func(o *options) { o.corpus = c }
}

// WithWeights overrides the aggregation weight mapping.
func WithWeights(w aggregate.Weights) Option {
	return func(o *options) { o.weights = w }
}

// WithRetries overrides the per-prompt retry bound.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithTimeout bounds each generation.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithProgress installs a progress callback. A pure side channel; it
// never affects scores.
func WithProgress(fn runner.Progress) Option {
	return func(o *options) { o.progress = fn }
}

// WithVerbose prints prompt-by-prompt progress to stderr. It has no
// effect on computed scores.
func WithVerbose(verbose bool) Option {
	return func(o *options) { o.verbose = verbose }
}

// RunBAPTest evaluates the model handle over the corpus and returns the
// complete four-field result, or an explicit failure — never a partial
// record. The handle stays exclusively owned by the caller; the run
// only invokes its Generate contract.
func RunBAPTest(ctx context.Context, m model.Model, opts ...Option) (*EvaluationResult, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	c := o.corpus
	if c == nil {
		c = corpus.Default()
	}

	progress := o.progress
	if progress == nil && o.verbose {
		progress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r[%d/%d] prompts evaluated", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	r, err := runner.New(m, c, runner.Config{
		MaxRetries: o.retries,
		Timeout:    o.timeout,
		Weights:    o.weights,
		Progress:   progress,
	})
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}
