package audit_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/repoaudit/internal/execshell"
	"github.com/temirov/repoaudit/internal/repos/shared"
)

const (
	porcelainQueryKey     = "status --porcelain"
	remoteUpdateQueryKey  = "remote update"
	branchSummaryQueryKey = "status -sb"
	lastCommitQueryKey    = "log -1 --format=%ci"
	queryKeySeparator     = "|"
	inactivityWindow      = 30 * 24 * time.Hour
)

var frozenNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func frozenClock() shared.Clock {
	return shared.FixedClock{Instant: frozenNow}
}

// stubGitExecutor answers git queries from a table keyed by working directory and joined arguments.
type stubGitExecutor struct {
	outputs          map[string]execshell.ExecutionResult
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
}

func newStubGitExecutor() *stubGitExecutor {
	return &stubGitExecutor{
		outputs:  map[string]execshell.ExecutionResult{},
		failures: map[string]error{},
	}
}

func queryKey(workingDirectory string, arguments string) string {
	return workingDirectory + queryKeySeparator + arguments
}

func (executor *stubGitExecutor) respond(workingDirectory string, arguments string, standardOutput string) *stubGitExecutor {
	executor.outputs[queryKey(workingDirectory, arguments)] = execshell.ExecutionResult{StandardOutput: standardOutput}
	return executor
}

func (executor *stubGitExecutor) fail(workingDirectory string, arguments string, failure error) *stubGitExecutor {
	executor.failures[queryKey(workingDirectory, arguments)] = failure
	return executor
}

// repository registers the four audit queries for a checkout.
func (executor *stubGitExecutor) repository(workingDirectory string, porcelain string, branchSummary string, lastCommit string) *stubGitExecutor {
	return executor.
		respond(workingDirectory, porcelainQueryKey, porcelain).
		respond(workingDirectory, remoteUpdateQueryKey, "").
		respond(workingDirectory, branchSummaryQueryKey, branchSummary).
		respond(workingDirectory, lastCommitQueryKey, lastCommit)
}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	key := queryKey(details.WorkingDirectory, strings.Join(details.Arguments, " "))
	if failure, found := executor.failures[key]; found {
		return execshell.ExecutionResult{}, failure
	}
	if result, found := executor.outputs[key]; found {
		return result, nil
	}
	return execshell.ExecutionResult{}, fmt.Errorf("unexpected git command: %s", key)
}

func (executor *stubGitExecutor) recordedArguments() []string {
	arguments := make([]string, 0, len(executor.recordedCommands))
	for _, details := range executor.recordedCommands {
		arguments = append(arguments, strings.Join(details.Arguments, " "))
	}
	return arguments
}

func commitDate(instant time.Time) string {
	return instant.Format("2006-01-02 15:04:05 -0700")
}
