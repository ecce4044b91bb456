package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
)

const (
	gitStatusSubcommandNameConstant  = "status"
	gitStatusPorcelainFlagConstant   = "--porcelain"
	gitStatusShortBranchFlagConstant = "-sb"
	gitRemoteSubcommandNameConstant  = "remote"
	gitRemoteUpdateActionConstant    = "update"
	gitLogSubcommandNameConstant     = "log"
)

type gitMessageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	gitWorkingTreeTemplates = gitMessageTemplates{
		start:            "Reviewing working tree status in %s",
		success:          "Collected working tree status for %s",
		failure:          "Failed to review working tree status in %s (exit code %d%s)",
		executionFailure: "Unable to review working tree status in %s: %s",
	}
	gitBranchSummaryTemplates = gitMessageTemplates{
		start:            "Comparing current branch with its upstream in %s",
		success:          "Compared current branch with its upstream in %s",
		failure:          "Failed to compare current branch with its upstream in %s (exit code %d%s)",
		executionFailure: "Unable to compare current branch with its upstream in %s: %s",
	}
	gitRemoteUpdateTemplates = gitMessageTemplates{
		start:            "Updating remote-tracking branches in %s",
		success:          "Updated remote-tracking branches in %s",
		failure:          "Failed to update remote-tracking branches in %s (exit code %d%s)",
		executionFailure: "Unable to update remote-tracking branches in %s: %s",
	}
	gitLastCommitTemplates = gitMessageTemplates{
		start:            "Reading last commit date in %s",
		success:          "Read last commit date in %s",
		failure:          "Failed to read last commit date in %s (exit code %d%s)",
		executionFailure: "Unable to read last commit date in %s: %s",
	}
)

// CommandMessageFormatter builds log messages describing command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage describes a command that exited with code zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage describes a command that exited with a non-zero code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage describes a command that could not run to completion.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit || strings.HasSuffix(string(command.Name), string(CommandGit)) {
		if templates, recognized := formatter.resolveGitTemplates(command.Details.Arguments); recognized {
			return formatter.applyTemplates(templates, command, result, failure, stage)
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) resolveGitTemplates(arguments []string) (gitMessageTemplates, bool) {
	if len(arguments) == 0 {
		return gitMessageTemplates{}, false
	}

	switch arguments[0] {
	case gitStatusSubcommandNameConstant:
		if containsArgument(arguments, gitStatusPorcelainFlagConstant) {
			return gitWorkingTreeTemplates, true
		}
		if containsArgument(arguments, gitStatusShortBranchFlagConstant) {
			return gitBranchSummaryTemplates, true
		}
	case gitRemoteSubcommandNameConstant:
		if containsArgument(arguments, gitRemoteUpdateActionConstant) {
			return gitRemoteUpdateTemplates, true
		}
	case gitLogSubcommandNameConstant:
		return gitLastCommitTemplates, true
	}
	return gitMessageTemplates{}, false
}

func (formatter CommandMessageFormatter) applyTemplates(templates gitMessageTemplates, command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(templates.executionFailure, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := command.Description() + formatter.formatWorkingDirectorySuffix(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if argument == value {
			return true
		}
	}
	return false
}
