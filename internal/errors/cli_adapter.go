package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	dse, ok := As(err)
	if !ok {
		return 1
	}
	switch dse.Category {
	case CategoryValidation:
		return 2
	case CategoryContent:
		return 3
	case CategoryConfig:
		return 7
	case CategoryRender, CategoryFileSystem:
		return 11
	case CategoryRuntime:
		return 12
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	dse, ok := As(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return dse.Error()
	}
	switch dse.Category {
	case CategoryConfig, CategoryValidation:
		return dse.Message
	default:
		return fmt.Sprintf("%s: %s", dse.Category, dse.Message)
	}
}

// Report logs err when appropriate, writes the formatted message to w and
// returns the exit code. Callers own the os.Exit.
func (a *CLIErrorAdapter) Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(w, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if dse, ok := As(err); ok {
		return dse.Category == CategoryInternal ||
			dse.Category == CategoryRuntime ||
			len(dse.Context) > 0
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	dse, ok := As(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(dse.Category))}
	for k, v := range dse.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	if dse.Cause != nil {
		attrs = append(attrs, slog.String("cause", dse.Cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), levelFor(dse.Severity), dse.Message, attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
