package audit

import "github.com/temirov/repoaudit/internal/repos/shared"

// GitExecutor exposes the subset of shell execution used by the audit command.
type GitExecutor = shared.GitExecutor

// CheckoutWalker enumerates checkout roots beneath a base directory.
type CheckoutWalker = shared.CheckoutWalker
