package audit

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repoaudit/internal/execshell"
	"github.com/temirov/repoaudit/internal/repos/dependencies"
	"github.com/temirov/repoaudit/internal/ui"
	pathutils "github.com/temirov/repoaudit/internal/utils/path"
)

const (
	commandUseConstant                 = "repo-audit <base_directory>"
	commandShortDescriptionConstant    = "Report uncommitted, diverged, and inactive git checkouts"
	commandLongDescriptionConstant     = "repo-audit walks a directory tree, inspects every git checkout root it finds, and reports uncommitted changes, commits ahead of or behind the tracked remote branch, and checkouts without recent commits. Checkouts nested inside another checkout are not inspected."
	usageErrorTemplateConstant         = "%w\nUsage: %s"
	flagInactivityDaysName             = "inactivity-days"
	flagInactivityDaysDescription      = "Report checkouts whose last commit is older than this many days"
	flagCommandTimeoutName             = "command-timeout"
	flagCommandTimeoutDescription      = "Maximum duration of a single git query (0 disables the limit)"
	flagUpdateRemotesName              = "update-remotes"
	flagUpdateRemotesDescription       = "Run git remote update before comparing branches with their upstream"
	requiredPositionalArgumentCount    = 1
	unexpectedArgumentsMessageTemplate = "expected exactly one base directory, received %d arguments"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the audit configuration resolved by the application.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	Walker                       CheckoutWalker
	GitExecutor                  GitExecutor
	Clock                        Clock
	HomeExpander                 *pathutils.HomeExpander
}

// Build constructs the cobra command for repository audits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  validateArguments,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().Int(flagInactivityDaysName, defaults.InactivityDays, flagInactivityDaysDescription)
	command.Flags().Duration(flagCommandTimeoutName, defaults.CommandTimeout, flagCommandTimeoutDescription)
	command.Flags().Bool(flagUpdateRemotesName, defaults.UpdateRemotes, flagUpdateRemotesDescription)

	return command, nil
}

func validateArguments(command *cobra.Command, arguments []string) error {
	switch {
	case len(arguments) < requiredPositionalArgumentCount || len(strings.TrimSpace(arguments[0])) == 0:
		return fmt.Errorf(usageErrorTemplateConstant, ErrMissingBaseDirectory, command.UseLine())
	case len(arguments) > requiredPositionalArgumentCount:
		return fmt.Errorf(usageErrorTemplateConstant, fmt.Errorf(unexpectedArgumentsMessageTemplate, len(arguments)), command.UseLine())
	default:
		return nil
	}
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)
	logger := builder.resolveLogger()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, dependencies.GitExecutorSettings{
		Executable:     configuration.GitExecutable,
		CommandTimeout: configuration.CommandTimeout,
		Observer:       builder.resolveCommandEventObserver(logger),
	})
	if executorError != nil {
		return executorError
	}

	walker := dependencies.ResolveCheckoutWalker(builder.Walker, logger)
	clock := dependencies.ResolveClock(builder.Clock)

	options := CommandOptions{
		BaseDirectory:    arguments[0],
		InactivityWindow: configuration.InactivityWindow(),
		UpdateRemotes:    configuration.UpdateRemotes,
	}

	service := NewService(walker, gitExecutor, clock, builder.HomeExpander, command.OutOrStdout(), logger)
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flags := command.Flags()
	if flags.Changed(flagInactivityDaysName) {
		configuration.InactivityDays, _ = flags.GetInt(flagInactivityDaysName)
	}
	if flags.Changed(flagCommandTimeoutName) {
		configuration.CommandTimeout, _ = flags.GetDuration(flagCommandTimeoutName)
	}
	if flags.Changed(flagUpdateRemotesName) {
		configuration.UpdateRemotes, _ = flags.GetBool(flagUpdateRemotesName)
	}

	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveCommandEventObserver(logger *zap.Logger) execshell.CommandEventObserver {
	if builder.HumanReadableLoggingProvider == nil || !builder.HumanReadableLoggingProvider() {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(logger)
}
