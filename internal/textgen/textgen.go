// Package textgen defines the external text-generation capability used
// by the advisory pipeline stages. Providers are advisory only: every
// caller must carry its own deterministic fallback, so provider errors
// degrade message content, never request outcomes.
package textgen

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion indicates the provider answered successfully but
// produced no usable text. Callers treat it exactly like a failure.
var ErrEmptyCompletion = errors.New("empty completion")

// ServiceError represents a failed provider call: non-2xx status,
// network error, or timeout.
type ServiceError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Provider generates text from a prompt.
type Provider interface {
	// Name identifies the provider for logs and ops reporting.
	Name() string

	// GenerateText produces a completion for the prompt. The returned
	// text is raw; callers sanitize it before use.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
