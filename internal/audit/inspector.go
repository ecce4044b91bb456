package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// CommitDateLayout matches the committer date printed by `git log --format=%ci`.
	CommitDateLayout = "2006-01-02 15:04:05 -0700"

	gitStatusSubcommandConstant        = "status"
	gitPorcelainFlagConstant           = "--porcelain"
	gitShortBranchFlagConstant         = "-sb"
	gitRemoteSubcommandConstant        = "remote"
	gitRemoteUpdateActionConstant      = "update"
	gitLogSubcommandConstant           = "log"
	gitSingleEntryFlagConstant         = "-1"
	gitCommitterDateFormatFlagConstant = "--format=%ci"

	commitDateParseFailureMessage = "unable to parse last commit date; skipping activity check"
	trackingResolvedMessage       = "branch tracking resolved"
	logFieldCommitDateConstant    = "commit_date"
	logFieldLocalBranchConstant   = "local_branch"
	logFieldUpstreamConstant      = "upstream"
	logFieldAheadCountConstant    = "ahead_count"
	logFieldBehindCountConstant   = "behind_count"
	logFieldUpstreamGoneConstant  = "upstream_gone"
	logFieldDetachedConstant      = "detached"
	logFieldUnbornConstant        = "unborn"
)

// StatusInspector derives a RepositoryStatus for one checkout root.
type StatusInspector struct {
	queries          *GitQueryRunner
	clock            Clock
	inactivityWindow time.Duration
	updateRemotes    bool
	logger           *zap.Logger
}

// NewStatusInspector constructs a StatusInspector.
func NewStatusInspector(queries *GitQueryRunner, clock Clock, options CommandOptions, logger *zap.Logger) *StatusInspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusInspector{
		queries:          queries,
		clock:            clock,
		inactivityWindow: options.InactivityWindow,
		updateRemotes:    options.UpdateRemotes,
		logger:           logger,
	}
}

// Inspect always returns a fully populated record. Each query runs regardless of
// the outcome of the previous ones, except that the commit date is not read on a
// branch with no commits. Failures leave the affected fields at their zero values
// and are recorded in RepositoryStatus.Queries.
func (inspector *StatusInspector) Inspect(executionContext context.Context, repositoryPath string) RepositoryStatus {
	status := RepositoryStatus{Path: repositoryPath}

	workingTree := inspector.queries.Run(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	status.Queries.WorkingTree = workingTree.Outcome
	status.UncommittedChanges = len(workingTree.Text()) > 0

	if inspector.updateRemotes {
		remoteUpdate := inspector.queries.Run(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitRemoteUpdateActionConstant)
		status.Queries.RemoteUpdate = remoteUpdate.Outcome
	}

	branchSummary := inspector.queries.Run(executionContext, repositoryPath, gitStatusSubcommandConstant, gitShortBranchFlagConstant)
	status.Queries.BranchSummary = branchSummary.Outcome
	tracking := ParseTrackingSummary(branchSummary.Text())
	status.AheadCount = tracking.AheadCount
	status.BehindCount = tracking.BehindCount
	status.Ahead = tracking.Ahead()
	status.Behind = tracking.Behind()
	status.UpstreamBranch = tracking.UpstreamBranch
	inspector.logger.Debug(
		trackingResolvedMessage,
		zap.String(logFieldRepositoryConstant, repositoryPath),
		zap.String(logFieldLocalBranchConstant, tracking.LocalBranch),
		zap.String(logFieldUpstreamConstant, tracking.UpstreamBranch),
		zap.Int(logFieldAheadCountConstant, status.AheadCount),
		zap.Int(logFieldBehindCountConstant, status.BehindCount),
		zap.Bool(logFieldUpstreamGoneConstant, tracking.UpstreamGone),
		zap.Bool(logFieldDetachedConstant, tracking.Detached),
		zap.Bool(logFieldUnbornConstant, tracking.Unborn),
	)

	// A branch without commits has no date to read; git log would exit non-zero.
	if tracking.Unborn {
		status.Queries.LastCommit = QueryEmpty
		return status
	}

	lastCommit := inspector.queries.Run(executionContext, repositoryPath, gitLogSubcommandConstant, gitSingleEntryFlagConstant, gitCommitterDateFormatFlagConstant)
	status.Queries.LastCommit = lastCommit.Outcome
	if commitDateText := lastCommit.Text(); len(commitDateText) > 0 {
		commitTime, parseError := time.Parse(CommitDateLayout, commitDateText)
		if parseError != nil {
			inspector.logger.Warn(
				commitDateParseFailureMessage,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.String(logFieldCommitDateConstant, commitDateText),
				zap.Error(parseError),
			)
			status.Queries.LastCommit = QueryFailed
			return status
		}
		status.LastCommit = &commitTime
		status.Inactive = IsInactive(commitTime, inspector.clock.Now(), inspector.inactivityWindow)
	}

	return status
}

// IsInactive reports whether more than window has elapsed between lastCommit and
// now, with now expressed in the commit's own UTC offset.
func IsInactive(lastCommit time.Time, now time.Time, window time.Duration) bool {
	return now.In(lastCommit.Location()).Sub(lastCommit) > window
}
