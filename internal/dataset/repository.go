package dataset

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable indicates the backing data could not be read or parsed.
// Callers must treat this as fatal for the current request only and
// degrade per their own fallback rules; it never crashes the process.
var ErrUnavailable = errors.New("dataset unavailable")

// LoadError wraps a repository failure with its source for logging.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading dataset from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports ErrUnavailable so callers can branch on the taxonomy
// without caring about the concrete source.
func (e *LoadError) Is(target error) bool { return target == ErrUnavailable }

// Repository loads the dataset from a backing store.
type Repository interface {
	// Load reads the full dataset. Implementations do not cache;
	// Service handles the once-per-process caching.
	Load(ctx context.Context) (*Dataset, error)

	// Name identifies the backing source for logs.
	Name() string
}
