package dependencies

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/repoaudit/internal/execshell"
	"github.com/temirov/repoaudit/internal/repos/discovery"
	"github.com/temirov/repoaudit/internal/repos/shared"
)

// GitExecutorSettings configures the default shell-backed git executor.
type GitExecutorSettings struct {
	Executable     string
	CommandTimeout time.Duration
	Observer       execshell.CommandEventObserver
}

// ResolveCheckoutWalker returns the provided walker or a filesystem-backed default.
func ResolveCheckoutWalker(existing shared.CheckoutWalker, logger *zap.Logger) shared.CheckoutWalker {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer(logger)
}

// ResolveClock returns the provided clock or the system clock.
func ResolveClock(existing shared.Clock) shared.Clock {
	if existing != nil {
		return existing
	}
	return shared.SystemClock{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, settings GitExecutorSettings) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(
		logger,
		commandRunner,
		execshell.WithCommandTimeout(settings.CommandTimeout),
		execshell.WithGitExecutable(execshell.CommandName(settings.Executable)),
		execshell.WithCommandEventObserver(settings.Observer),
	)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
