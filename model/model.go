// Package model defines the capability contract every model back-end
// satisfies, and the adapters for the supported provider families.
package model

import (
	"context"
	"fmt"
)

// Model is the single capability the runner depends on: given a prompt,
// produce the final response string. Adapters resolve all
// provider-specific configuration (credentials, endpoint, model id,
// device) at construction time; the runner never sees it. Generate must
// be safe to call repeatedly with the same prompt and must not block
// past the provider's timeout policy — it fails with a
// *GenerationError instead of hanging.
//
// Adapters are not assumed safe for concurrent Generate calls. One
// model handle belongs to one run at a time.
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ID returns the provider-specific model identifier when the handle
// exposes one (all built-in adapters do), or "" for anonymous handles.
func ID(m Model) string {
	if ider, ok := m.(interface{ ModelID() string }); ok {
		return ider.ModelID()
	}
	return ""
}

// GenerationError reports a failed or timed-out generation. The runner
// retries a bounded number of times and then degrades the prompt to the
// worst-case score.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return "model: generation failed"
	}
	return fmt.Sprintf("model: %s: generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
