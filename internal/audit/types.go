package audit

import (
	"time"

	"github.com/temirov/repoaudit/internal/repos/shared"
)

// QueryOutcome classifies the result of a single git query.
type QueryOutcome string

// Supported query outcomes.
const (
	QuerySucceeded QueryOutcome = "succeeded"
	QueryEmpty     QueryOutcome = "empty"
	QueryFailed    QueryOutcome = "failed"
)

// QueryName identifies one of the git queries issued per checkout.
type QueryName string

// Queries issued by StatusInspector, in execution order.
const (
	QueryWorkingTree   QueryName = "working_tree"
	QueryRemoteUpdate  QueryName = "remote_update"
	QueryBranchSummary QueryName = "branch_summary"
	QueryLastCommit    QueryName = "last_commit"
)

// QueryOutcomes records how each query fared for one checkout. A zero value
// means the query was not issued.
type QueryOutcomes struct {
	WorkingTree   QueryOutcome
	RemoteUpdate  QueryOutcome
	BranchSummary QueryOutcome
	LastCommit    QueryOutcome
}

// Failed lists the queries whose results could not be determined. The remote
// update is best effort and never counts.
func (outcomes QueryOutcomes) Failed() []QueryName {
	var failedQueries []QueryName
	if outcomes.WorkingTree == QueryFailed {
		failedQueries = append(failedQueries, QueryWorkingTree)
	}
	if outcomes.BranchSummary == QueryFailed {
		failedQueries = append(failedQueries, QueryBranchSummary)
	}
	if outcomes.LastCommit == QueryFailed {
		failedQueries = append(failedQueries, QueryLastCommit)
	}
	return failedQueries
}

// RepositoryStatus is the audit record produced for one checkout root.
type RepositoryStatus struct {
	Path               string
	UncommittedChanges bool
	Ahead              bool
	Behind             bool
	AheadCount         int
	BehindCount        int
	UpstreamBranch     string
	Inactive           bool
	LastCommit         *time.Time
	Queries            QueryOutcomes
}

// Actionable reports whether the record produces at least one report line.
func (status RepositoryStatus) Actionable() bool {
	return status.UncommittedChanges || status.Ahead || status.Behind || status.Inactive
}

// CommandOptions captures the parameters of a single audit run.
type CommandOptions struct {
	BaseDirectory    string
	InactivityWindow time.Duration
	UpdateRemotes    bool
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock = shared.Clock
