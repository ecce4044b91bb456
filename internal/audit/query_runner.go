package audit

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repoaudit/internal/execshell"
)

const (
	localeEnvironmentVariableConstant         = "LC_ALL"
	localeEnvironmentValueConstant            = "C"
	terminalPromptEnvironmentVariableConstant = "GIT_TERMINAL_PROMPT"
	terminalPromptEnvironmentValueConstant    = "0"
	optionalLocksEnvironmentVariableConstant  = "GIT_OPTIONAL_LOCKS"
	optionalLocksEnvironmentValueConstant     = "0"
	queryFailedMessageConstant                = "git query failed"
	logFieldRepositoryConstant                = "repository"
	logFieldArgumentsConstant                 = "arguments"
)

// QueryResult carries the trimmed standard output of a git query together with its outcome.
type QueryResult struct {
	Output  string
	Outcome QueryOutcome
}

// Text returns the trimmed output, which is empty whenever the query failed.
func (result QueryResult) Text() string {
	return result.Output
}

// GitQueryRunner runs read-only git queries and never propagates failures:
// launch errors, non-zero exits, and timeouts all produce an empty QueryFailed result.
type GitQueryRunner struct {
	executor GitExecutor
	logger   *zap.Logger
}

// NewGitQueryRunner constructs a GitQueryRunner.
func NewGitQueryRunner(executor GitExecutor, logger *zap.Logger) *GitQueryRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitQueryRunner{executor: executor, logger: logger}
}

// Run executes git with the supplied arguments inside workingDirectory.
func (runner *GitQueryRunner) Run(executionContext context.Context, workingDirectory string, arguments ...string) QueryResult {
	if runner == nil || runner.executor == nil {
		return QueryResult{Outcome: QueryFailed}
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        append([]string{}, arguments...),
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			localeEnvironmentVariableConstant:         localeEnvironmentValueConstant,
			terminalPromptEnvironmentVariableConstant: terminalPromptEnvironmentValueConstant,
			optionalLocksEnvironmentVariableConstant:  optionalLocksEnvironmentValueConstant,
		},
	}

	executionResult, executionError := runner.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		runner.logger.Debug(
			queryFailedMessageConstant,
			zap.String(logFieldRepositoryConstant, workingDirectory),
			zap.Strings(logFieldArgumentsConstant, arguments),
			zap.Error(executionError),
		)
		return QueryResult{Outcome: QueryFailed}
	}

	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedOutput) == 0 {
		return QueryResult{Outcome: QueryEmpty}
	}
	return QueryResult{Output: trimmedOutput, Outcome: QuerySucceeded}
}
