package audit

import (
	"context"
	"iter"
)

// Scanner pairs checkout discovery with per-checkout inspection.
type Scanner struct {
	walker    CheckoutWalker
	inspector *StatusInspector
}

// NewScanner constructs a Scanner.
func NewScanner(walker CheckoutWalker, inspector *StatusInspector) *Scanner {
	return &Scanner{walker: walker, inspector: inspector}
}

// Scan lazily yields one record per checkout root beneath baseDirectory, in
// traversal order. Each iteration walks the tree and queries git afresh.
func (scanner *Scanner) Scan(executionContext context.Context, baseDirectory string) iter.Seq[RepositoryStatus] {
	return func(yield func(RepositoryStatus) bool) {
		for checkoutRoot := range scanner.walker.WalkCheckoutRoots(executionContext, baseDirectory) {
			if executionContext != nil && executionContext.Err() != nil {
				return
			}
			if !yield(scanner.inspector.Inspect(executionContext, checkoutRoot)) {
				return
			}
		}
	}
}
