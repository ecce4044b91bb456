package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	pathutils "github.com/temirov/repoaudit/internal/utils/path"
)

const (
	scanBannerTemplateConstant      = "📁 Scanning Git repos in: %s\n\n"
	missingBaseDirectoryMessage     = "missing base directory argument"
	scanInterruptedTemplateConstant = "scan interrupted: %w"
	scanCompletedMessageConstant    = "scan completed"
	unverifiedRecordMessageConstant = "repository state could not be fully determined"
	logFieldBaseDirectoryConstant   = "base_directory"
	logFieldCheckoutCountConstant   = "checkouts"
	logFieldActionableCountConstant = "actionable"
	logFieldFailedQueriesConstant   = "failed_queries"
)

// ErrMissingBaseDirectory indicates the audit was started without a base directory.
var ErrMissingBaseDirectory = errors.New(missingBaseDirectoryMessage)

// Service coordinates scanning and reporting.
type Service struct {
	walker       CheckoutWalker
	gitExecutor  GitExecutor
	clock        Clock
	homeExpander *pathutils.HomeExpander
	outputWriter io.Writer
	logger       *zap.Logger
}

// NewService constructs a Service using the provided dependencies.
func NewService(walker CheckoutWalker, gitExecutor GitExecutor, clock Clock, homeExpander *pathutils.HomeExpander, outputWriter io.Writer, logger *zap.Logger) *Service {
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		walker:       walker,
		gitExecutor:  gitExecutor,
		clock:        clock,
		homeExpander: homeExpander,
		outputWriter: outputWriter,
		logger:       logger,
	}
}

// Run prints the banner, collects every record, and then prints the report.
// Records gathered before a cancellation are still reported.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	baseDirectory := service.homeExpander.ResolveBaseDirectory(options.BaseDirectory)
	if len(baseDirectory) == 0 {
		return ErrMissingBaseDirectory
	}

	if _, writeError := fmt.Fprintf(service.outputWriter, scanBannerTemplateConstant, baseDirectory); writeError != nil {
		return writeError
	}

	records := service.Collect(executionContext, baseDirectory, options)
	service.logSummary(baseDirectory, records)

	printer := NewReportPrinter(options.InactivityWindow)
	if printError := printer.Print(service.outputWriter, records); printError != nil {
		return printError
	}

	if executionContext != nil && executionContext.Err() != nil {
		return fmt.Errorf(scanInterruptedTemplateConstant, executionContext.Err())
	}
	return nil
}

// Collect scans baseDirectory and materializes all records in traversal order.
func (service *Service) Collect(executionContext context.Context, baseDirectory string, options CommandOptions) []RepositoryStatus {
	queryRunner := NewGitQueryRunner(service.gitExecutor, service.logger)
	inspector := NewStatusInspector(queryRunner, service.clock, options, service.logger)
	scanner := NewScanner(service.walker, inspector)
	return slices.Collect(scanner.Scan(executionContext, baseDirectory))
}

func (service *Service) logSummary(baseDirectory string, records []RepositoryStatus) {
	unverifiedRecords := lo.Filter(records, func(record RepositoryStatus, _ int) bool {
		return len(record.Queries.Failed()) > 0
	})
	for _, record := range unverifiedRecords {
		failedQueries := lo.Map(record.Queries.Failed(), func(query QueryName, _ int) string {
			return string(query)
		})
		service.logger.Warn(
			unverifiedRecordMessageConstant,
			zap.String(logFieldRepositoryConstant, record.Path),
			zap.Strings(logFieldFailedQueriesConstant, failedQueries),
		)
	}

	service.logger.Info(
		scanCompletedMessageConstant,
		zap.String(logFieldBaseDirectoryConstant, baseDirectory),
		zap.Int(logFieldCheckoutCountConstant, len(records)),
		zap.Int(logFieldActionableCountConstant, lo.CountBy(records, RepositoryStatus.Actionable)),
	)
}
