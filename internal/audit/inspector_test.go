package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repoaudit/internal/audit"
	"github.com/temirov/repoaudit/internal/execshell"
)

const (
	inspectedRepositoryPath = "/workspace/project"
	trackedBranchSummary    = "## main...origin/main"
	modifiedFilePorcelain   = " M README.md"
	malformedCommitDate     = "yesterday afternoon"
	parseFailureLogMessage  = "unable to parse last commit date; skipping activity check"
	divergedBranchSummary   = "## main...origin/main [ahead 2, behind 5]"
	featureBranchSummary    = "## behind-feature...origin/behind-feature"
	recentCommitAge         = 3 * 24 * time.Hour
	staleCommitAge          = 45 * 24 * time.Hour
	allQueriesCommandCount  = 4
)

func newInspector(executor *stubGitExecutor, updateRemotes bool, logger *zap.Logger) *audit.StatusInspector {
	return audit.NewStatusInspector(
		audit.NewGitQueryRunner(executor, logger),
		frozenClock(),
		audit.CommandOptions{InactivityWindow: inactivityWindow, UpdateRemotes: updateRemotes},
		logger,
	)
}

func TestStatusInspectorDerivesFlags(testInstance *testing.T) {
	testCases := []struct {
		name               string
		porcelain          string
		branchSummary      string
		lastCommit         string
		expectUncommitted  bool
		expectAhead        bool
		expectBehind       bool
		expectAheadCount   int
		expectBehindCount  int
		expectInactive     bool
		expectWorkingTree  audit.QueryOutcome
		expectedLastCommit time.Time
	}{
		{
			name:               "clean_and_active",
			porcelain:          "",
			branchSummary:      trackedBranchSummary,
			lastCommit:         commitDate(frozenNow.Add(-recentCommitAge)),
			expectWorkingTree:  audit.QueryEmpty,
			expectedLastCommit: frozenNow.Add(-recentCommitAge),
		},
		{
			name:               "modified_working_tree",
			porcelain:          modifiedFilePorcelain,
			branchSummary:      trackedBranchSummary,
			lastCommit:         commitDate(frozenNow.Add(-recentCommitAge)),
			expectUncommitted:  true,
			expectWorkingTree:  audit.QuerySucceeded,
			expectedLastCommit: frozenNow.Add(-recentCommitAge),
		},
		{
			name:               "diverged_from_upstream",
			porcelain:          "",
			branchSummary:      divergedBranchSummary,
			lastCommit:         commitDate(frozenNow.Add(-recentCommitAge)),
			expectAhead:        true,
			expectBehind:       true,
			expectAheadCount:   2,
			expectBehindCount:  5,
			expectWorkingTree:  audit.QueryEmpty,
			expectedLastCommit: frozenNow.Add(-recentCommitAge),
		},
		{
			name:               "branch_name_containing_behind",
			porcelain:          "",
			branchSummary:      featureBranchSummary,
			lastCommit:         commitDate(frozenNow.Add(-recentCommitAge)),
			expectWorkingTree:  audit.QueryEmpty,
			expectedLastCommit: frozenNow.Add(-recentCommitAge),
		},
		{
			name:               "stale_checkout",
			porcelain:          "",
			branchSummary:      trackedBranchSummary,
			lastCommit:         commitDate(frozenNow.Add(-staleCommitAge)),
			expectInactive:     true,
			expectWorkingTree:  audit.QueryEmpty,
			expectedLastCommit: frozenNow.Add(-staleCommitAge),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newStubGitExecutor().repository(inspectedRepositoryPath, testCase.porcelain, testCase.branchSummary, testCase.lastCommit)
			status := newInspector(executor, true, nil).Inspect(context.Background(), inspectedRepositoryPath)

			require.Equal(testInstance, inspectedRepositoryPath, status.Path)
			require.Equal(testInstance, testCase.expectUncommitted, status.UncommittedChanges)
			require.Equal(testInstance, testCase.expectAhead, status.Ahead)
			require.Equal(testInstance, testCase.expectBehind, status.Behind)
			require.Equal(testInstance, testCase.expectAheadCount, status.AheadCount)
			require.Equal(testInstance, testCase.expectBehindCount, status.BehindCount)
			require.Equal(testInstance, testCase.expectInactive, status.Inactive)
			require.Equal(testInstance, testCase.expectWorkingTree, status.Queries.WorkingTree)
			require.Equal(testInstance, audit.QuerySucceeded, status.Queries.LastCommit)
			require.NotNil(testInstance, status.LastCommit)
			require.True(testInstance, testCase.expectedLastCommit.Equal(*status.LastCommit))
			require.Empty(testInstance, status.Queries.Failed())
		})
	}
}

func TestStatusInspectorInactivityBoundary(testInstance *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	testCases := []struct {
		name           string
		lastCommit     time.Time
		expectInactive bool
	}{
		{
			name:           "exactly_the_window",
			lastCommit:     frozenNow.Add(-inactivityWindow),
			expectInactive: false,
		},
		{
			name:           "one_second_past_the_window",
			lastCommit:     frozenNow.Add(-inactivityWindow - time.Second),
			expectInactive: true,
		},
		{
			name:           "exactly_the_window_in_another_offset",
			lastCommit:     frozenNow.Add(-inactivityWindow).In(tokyo),
			expectInactive: false,
		},
		{
			name:           "one_second_past_the_window_in_another_offset",
			lastCommit:     frozenNow.Add(-inactivityWindow - time.Second).In(tokyo),
			expectInactive: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newStubGitExecutor().repository(inspectedRepositoryPath, "", trackedBranchSummary, commitDate(testCase.lastCommit))
			status := newInspector(executor, true, nil).Inspect(context.Background(), inspectedRepositoryPath)

			require.Equal(testInstance, testCase.expectInactive, status.Inactive)
			require.Equal(testInstance, testCase.expectInactive, audit.IsInactive(testCase.lastCommit, frozenNow, inactivityWindow))
			_, offsetSeconds := status.LastCommit.Zone()
			_, expectedOffsetSeconds := testCase.lastCommit.Zone()
			require.Equal(testInstance, expectedOffsetSeconds, offsetSeconds)
		})
	}
}

func TestStatusInspectorSkipsActivityOnMalformedDate(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.WarnLevel)
	executor := newStubGitExecutor().repository(inspectedRepositoryPath, modifiedFilePorcelain, divergedBranchSummary, malformedCommitDate)

	status := newInspector(executor, true, zap.New(observerCore)).Inspect(context.Background(), inspectedRepositoryPath)

	require.True(testInstance, status.UncommittedChanges)
	require.True(testInstance, status.Ahead)
	require.True(testInstance, status.Behind)
	require.False(testInstance, status.Inactive)
	require.Nil(testInstance, status.LastCommit)
	require.Equal(testInstance, audit.QueryFailed, status.Queries.LastCommit)
	require.Equal(testInstance, []audit.QueryName{audit.QueryLastCommit}, status.Queries.Failed())
	require.Equal(testInstance, 1, observedLogs.FilterMessage(parseFailureLogMessage).Len())
}

func TestStatusInspectorContainsQueryFailures(testInstance *testing.T) {
	queryFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit},
		Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"},
	}
	executor := newStubGitExecutor().
		fail(inspectedRepositoryPath, porcelainQueryKey, queryFailure).
		fail(inspectedRepositoryPath, remoteUpdateQueryKey, errors.New("network unreachable")).
		fail(inspectedRepositoryPath, branchSummaryQueryKey, queryFailure).
		fail(inspectedRepositoryPath, lastCommitQueryKey, queryFailure)

	status := newInspector(executor, true, nil).Inspect(context.Background(), inspectedRepositoryPath)

	require.Equal(testInstance, audit.RepositoryStatus{
		Path: inspectedRepositoryPath,
		Queries: audit.QueryOutcomes{
			WorkingTree:   audit.QueryFailed,
			RemoteUpdate:  audit.QueryFailed,
			BranchSummary: audit.QueryFailed,
			LastCommit:    audit.QueryFailed,
		},
	}, status)
	require.False(testInstance, status.Actionable())
	require.Equal(testInstance, []audit.QueryName{audit.QueryWorkingTree, audit.QueryBranchSummary, audit.QueryLastCommit}, status.Queries.Failed())
	require.Len(testInstance, executor.recordedCommands, allQueriesCommandCount)
}

func TestStatusInspectorQueryOrder(testInstance *testing.T) {
	testCases := []struct {
		name              string
		updateRemotes     bool
		expectedArguments []string
		expectedRemote    audit.QueryOutcome
	}{
		{
			name:              "with_remote_update",
			updateRemotes:     true,
			expectedArguments: []string{porcelainQueryKey, remoteUpdateQueryKey, branchSummaryQueryKey, lastCommitQueryKey},
			expectedRemote:    audit.QueryEmpty,
		},
		{
			name:              "without_remote_update",
			updateRemotes:     false,
			expectedArguments: []string{porcelainQueryKey, branchSummaryQueryKey, lastCommitQueryKey},
			expectedRemote:    "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newStubGitExecutor().repository(inspectedRepositoryPath, "", trackedBranchSummary, commitDate(frozenNow))
			status := newInspector(executor, testCase.updateRemotes, nil).Inspect(context.Background(), inspectedRepositoryPath)

			require.Equal(testInstance, testCase.expectedArguments, executor.recordedArguments())
			require.Equal(testInstance, testCase.expectedRemote, status.Queries.RemoteUpdate)
			for _, details := range executor.recordedCommands {
				require.Equal(testInstance, inspectedRepositoryPath, details.WorkingDirectory)
			}
		})
	}
}

func TestStatusInspectorUnbornBranchSkipsCommitDate(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.WarnLevel)
	executor := newStubGitExecutor().
		respond(inspectedRepositoryPath, porcelainQueryKey, "").
		respond(inspectedRepositoryPath, remoteUpdateQueryKey, "").
		respond(inspectedRepositoryPath, branchSummaryQueryKey, "## No commits yet on main").
		fail(inspectedRepositoryPath, lastCommitQueryKey, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit},
			Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: your current branch 'main' does not have any commits yet"},
		})

	status := newInspector(executor, true, zap.New(observerCore)).Inspect(context.Background(), inspectedRepositoryPath)

	require.Equal(testInstance, audit.QueryEmpty, status.Queries.LastCommit)
	require.Nil(testInstance, status.LastCommit)
	require.False(testInstance, status.Inactive)
	require.Empty(testInstance, status.Queries.Failed())
	require.NotContains(testInstance, executor.recordedArguments(), lastCommitQueryKey)
	require.Zero(testInstance, observedLogs.Len())
}

func TestStatusInspectorLogsTrackingDetails(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	executor := newStubGitExecutor().repository(inspectedRepositoryPath, "", divergedBranchSummary, commitDate(frozenNow))

	newInspector(executor, true, zap.New(observerCore)).Inspect(context.Background(), inspectedRepositoryPath)

	trackingEntries := observedLogs.FilterMessage("branch tracking resolved").All()
	require.Len(testInstance, trackingEntries, 1)
	fields := trackingEntries[0].ContextMap()
	require.Equal(testInstance, inspectedRepositoryPath, fields["repository"])
	require.Equal(testInstance, "main", fields["local_branch"])
	require.Equal(testInstance, "origin/main", fields["upstream"])
	require.EqualValues(testInstance, 2, fields["ahead_count"])
	require.EqualValues(testInstance, 5, fields["behind_count"])
	require.Equal(testInstance, false, fields["upstream_gone"])
	require.Equal(testInstance, false, fields["detached"])
	require.Equal(testInstance, false, fields["unborn"])
}
