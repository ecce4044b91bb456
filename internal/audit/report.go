package audit

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	uncommittedChangesLabelConstant = "[!] Uncommitted changes:"
	aheadLabelTemplateConstant      = "[↑] Ahead of %s:"
	behindLabelTemplateConstant     = "[↓] Behind %s:"
	inactiveLabelTemplateConstant   = "[-] Inactive >%d days:"
	inactiveSuffixTemplateConstant  = " (Last: %s)"
	fallbackUpstreamLabelConstant   = "origin/main"
	reportDateLayoutConstant        = "2006-01-02"
	reportLabelColumnWidthConstant  = 29
	reportLineTemplateConstant      = "%s%s%s\n"
	hoursPerDayForLabelConstant     = 24
)

// ReportPrinter renders audit records as symbol-prefixed lines.
type ReportPrinter struct {
	inactivityWindow time.Duration
}

// NewReportPrinter constructs a ReportPrinter whose inactivity label reflects the window.
func NewReportPrinter(inactivityWindow time.Duration) *ReportPrinter {
	return &ReportPrinter{inactivityWindow: inactivityWindow}
}

// Print writes up to four lines per record: uncommitted changes, ahead, behind,
// and inactive, in that order. Records with no flag set produce no output.
func (printer *ReportPrinter) Print(writer io.Writer, records []RepositoryStatus) error {
	for _, record := range records {
		for _, line := range printer.Lines(record) {
			if _, writeError := io.WriteString(writer, line); writeError != nil {
				return writeError
			}
		}
	}
	return nil
}

// Lines returns the newline-terminated report lines for a single record.
func (printer *ReportPrinter) Lines(record RepositoryStatus) []string {
	var lines []string
	if record.UncommittedChanges {
		lines = append(lines, formatReportLine(uncommittedChangesLabelConstant, record.Path, ""))
	}
	if record.Ahead {
		lines = append(lines, formatReportLine(fmt.Sprintf(aheadLabelTemplateConstant, upstreamLabel(record)), record.Path, ""))
	}
	if record.Behind {
		lines = append(lines, formatReportLine(fmt.Sprintf(behindLabelTemplateConstant, upstreamLabel(record)), record.Path, ""))
	}
	if record.Inactive && record.LastCommit != nil {
		inactiveLabel := fmt.Sprintf(inactiveLabelTemplateConstant, printer.inactivityDays())
		inactiveSuffix := fmt.Sprintf(inactiveSuffixTemplateConstant, record.LastCommit.Format(reportDateLayoutConstant))
		lines = append(lines, formatReportLine(inactiveLabel, record.Path, inactiveSuffix))
	}
	return lines
}

func (printer *ReportPrinter) inactivityDays() int {
	return int(printer.inactivityWindow / (hoursPerDayForLabelConstant * time.Hour))
}

func upstreamLabel(record RepositoryStatus) string {
	if len(record.UpstreamBranch) == 0 {
		return fallbackUpstreamLabelConstant
	}
	return record.UpstreamBranch
}

// formatReportLine pads the label so paths line up in a single column.
func formatReportLine(label string, path string, suffix string) string {
	paddingWidth := reportLabelColumnWidthConstant - utf8.RuneCountInString(label)
	if paddingWidth < 1 {
		paddingWidth = 1
	}
	return fmt.Sprintf(reportLineTemplateConstant, label+strings.Repeat(" ", paddingWidth), path, suffix)
}
