// Package audit inspects git checkouts under a base directory and reports
// their synchronization state.
//
// Scanner walks the tree and hands every checkout root to StatusInspector,
// which derives a RepositoryStatus from four git queries. ReportPrinter renders
// the collected records, Service ties the phases together, and CommandBuilder
// exposes the workflow as a Cobra command.
package audit
