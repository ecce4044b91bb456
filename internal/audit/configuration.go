package audit

import (
	"strings"
	"time"
)

const (
	defaultInactivityDaysConstant = 30
	defaultCommandTimeoutConstant = 60 * time.Second
	defaultGitExecutableConstant  = "git"
	hoursPerDayConstant           = 24
	configurationKeySeparator     = "."
	inactivityDaysKeyConstant     = "inactivity_days"
	commandTimeoutKeyConstant     = "command_timeout"
	updateRemotesKeyConstant      = "update_remotes"
	gitExecutableKeyConstant      = "git_executable"
)

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	InactivityDays int           `mapstructure:"inactivity_days"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	UpdateRemotes  bool          `mapstructure:"update_remotes"`
	GitExecutable  string        `mapstructure:"git_executable"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		InactivityDays: defaultInactivityDaysConstant,
		CommandTimeout: defaultCommandTimeoutConstant,
		UpdateRemotes:  true,
		GitExecutable:  defaultGitExecutableConstant,
	}
}

// DefaultConfigurationValues returns configuration defaults keyed beneath the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	qualify := func(key string) string {
		trimmedPrefix := strings.TrimSpace(prefix)
		if len(trimmedPrefix) == 0 {
			return key
		}
		return trimmedPrefix + configurationKeySeparator + key
	}

	return map[string]any{
		qualify(inactivityDaysKeyConstant): defaults.InactivityDays,
		qualify(commandTimeoutKeyConstant): defaults.CommandTimeout.String(),
		qualify(updateRemotesKeyConstant):  defaults.UpdateRemotes,
		qualify(gitExecutableKeyConstant):  defaults.GitExecutable,
	}
}

// InactivityWindow converts the configured day count into a duration.
func (configuration CommandConfiguration) InactivityWindow() time.Duration {
	return time.Duration(configuration.InactivityDays) * hoursPerDayConstant * time.Hour
}

// sanitize trims whitespace and replaces unusable values with defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.GitExecutable = strings.TrimSpace(configuration.GitExecutable)
	if len(sanitized.GitExecutable) == 0 {
		sanitized.GitExecutable = defaults.GitExecutable
	}
	if sanitized.InactivityDays <= 0 {
		sanitized.InactivityDays = defaults.InactivityDays
	}
	if sanitized.CommandTimeout < 0 {
		sanitized.CommandTimeout = defaults.CommandTimeout
	}

	return sanitized
}
