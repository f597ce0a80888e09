package runner

import (
	"fmt"
	"time"

	"github.com/Star2578/bap-test/aggregate"
	"github.com/Star2578/bap-test/corpus"
)

// State tracks a runner through one evaluation pass.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Progress receives (done, total) after each prompt. It is a pure side
// channel: it never affects scoring and must not block for long.
type Progress func(done, total int)

// DefaultMaxRetries bounds per-prompt retry attempts: a failed
// generation is retried twice (three attempts in total) before the
// prompt degrades to the worst-case score.
const DefaultMaxRetries = 2

const defaultRetryDelay = 500 * time.Millisecond

// Config defines runner behavior. The zero value gets defaults: two
// retries, no per-generation timeout, equal aggregation weights.
type Config struct {
	MaxRetries int           // per-prompt retries after the first attempt; negative disables retries
	RetryDelay time.Duration // base backoff between attempts
	Timeout    time.Duration // per-generation bound; 0 leaves it to the adapter
	Weights    aggregate.Weights
	Progress   Progress
}

// EvaluationResult is the sole output of one evaluation run: exactly
// four numeric fields, each in [0,1]. Immutable after construction and
// never persisted by the runner.
type EvaluationResult struct {
	Bias       float64 `json:"bias"`
	Accuracy   float64 `json:"accuracy"`
	Politeness float64 `json:"politeness"`
	PEI        float64 `json:"PEI"`
}

// PromptDetail records one prompt's outcome for reporting. Degraded
// marks prompts whose generation or scoring failed irrecoverably and
// were scored worst-case.
type PromptDetail struct {
	PromptID string        `json:"prompt_id"`
	Metric   corpus.Metric `json:"metric"`
	Score    float64       `json:"score"`
	Response string        `json:"response,omitempty"`
	Degraded bool          `json:"degraded,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// PartitionError reports that every prompt of one metric failed after
// retries. Unlike a single prompt's failure, this aborts the run.
type PartitionError struct {
	Metric corpus.Metric
}

func (e *PartitionError) Error() string {
	if e == nil {
		return "runner: metric partition failed"
	}
	return fmt.Sprintf("runner: every %q prompt failed after retries", e.Metric)
}
