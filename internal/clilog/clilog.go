// Package clilog writes tsickle's CLI progress and status lines to
// stderr, the way cmd/tsgonest's build.go does with bare
// `fmt.Fprintf(os.Stderr, ...)` calls — no logging library appears
// anywhere in the example pack for this position, so this stays a thin
// wrapper rather than reaching for one.
package clilog

import (
	"fmt"
	"os"

	"github.com/tsickle-go/tsickle/internal/compiler"
)

// Logger writes status lines to stderr, coloring the warning and error
// prefixes when output is a color-capable terminal and writing plain text
// otherwise.
type Logger struct {
	pretty bool
}

// New creates a Logger using the same NO_COLOR/FORCE_COLOR/isatty
// detection the diagnostic pretty-printer uses, so plain and colored
// status output always agree on a single run.
func New() *Logger {
	return &Logger{pretty: compiler.IsPrettyOutput()}
}

// Info prints a plain status line.
func (l *Logger) Info(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Warn prints a "warning: ..." line, colored when pretty output is active.
func (l *Logger) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.pretty {
		fmt.Fprintf(os.Stderr, "[93mwarning:[0m %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
}

// Error prints an "error: ..." line, colored when pretty output is active.
func (l *Logger) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.pretty {
		fmt.Fprintf(os.Stderr, "[91merror:[0m %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
}
