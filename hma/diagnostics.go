package hma

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// Severity indicates how a diagnostic is handled once it has been logged
type Severity int32

const (
	// SeverityWarning diagnostics are logged, and the operation that raised them fails softly
	SeverityWarning Severity = iota
	// SeverityFatal diagnostics are logged and then passed to the allocator's FatalHandler
	SeverityFatal
)

var severityNames = map[Severity]string{
	SeverityWarning: "Warning",
	SeverityFatal:   "Fatal",
}

func (s Severity) String() string {
	name, ok := severityNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

// FatalHandler receives every fatal diagnostic. The error carries the call site of the public
// Allocator method or helper that raised it, and is marked with one of the memutils sentinel errors.
//
// If a FatalHandler returns, the operation that raised the diagnostic fails softly.
type FatalHandler func(err error)

func panicFatalHandler(err error) {
	panic(err)
}

// report logs a diagnostic and, if it is fatal, hands it to the FatalHandler. depth is the number of
// stack frames between report's caller and the consumer's code.
func (a *Allocator) report(depth int, severity Severity, sentinel error, format string, args ...any) error {
	err := errors.Mark(errors.NewWithDepthf(depth+1, "%s: %s", sentinel.Error(), fmt.Sprintf(format, args...)), sentinel)

	level := slog.LevelWarn
	if severity == SeverityFatal {
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("Severity", severity.String()),
		slog.String("Allocator", a.name),
		slog.Any("error", err),
	}

	file, line, function, ok := errors.GetOneLineSource(err)
	if ok {
		attrs = append(attrs,
			slog.String("Source", fmt.Sprintf("%s:%d", file, line)),
			slog.String("Function", function),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "[MEMORY DIAGNOSTIC] "+err.Error(), attrs...)

	if severity == SeverityFatal {
		a.fatalHandler(err)
	}

	return err
}
