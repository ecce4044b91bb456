package shared

import (
	"context"
	"iter"
	"time"

	"github.com/temirov/repoaudit/internal/execshell"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (clock FixedClock) Now() time.Time {
	return clock.Instant
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CheckoutWalker lazily enumerates git checkout roots beneath a base directory.
type CheckoutWalker interface {
	WalkCheckoutRoots(executionContext context.Context, baseDirectory string) iter.Seq[string]
}
