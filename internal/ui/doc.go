// Package ui renders shell command lifecycle events as console log lines.
//
// It is used when the console log format is selected, so that each git query
// issued during an audit is announced in plain language instead of as a
// structured record.
package ui
