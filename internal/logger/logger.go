// Package logger provides the verbose-aware logger used across the Arielle CLI.
// A Logger is constructed once at startup and handed to every component that
// needs to report progress. Debug, Info and Section output only appears with
// --verbose; warnings and errors are always written.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger writes prefixed log lines to a single writer.
// A nil *Logger is valid and discards all output.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

// New creates a logger writing to w. A nil writer defaults to os.Stderr.
func New(w io.Writer, verbose bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{out: w, verbose: verbose}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, false)
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	if l == nil {
		return false
	}
	return l.verbose
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.printf(true, "[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (l *Logger) Info(format string, args ...any) {
	l.printf(true, "[INFO] ", format, args...)
}

// Warn prints a warning. Warnings are never suppressed.
func (l *Logger) Warn(format string, args ...any) {
	l.printf(false, "[WARN] ", format, args...)
}

// Error prints an error message. Errors are never suppressed.
func (l *Logger) Error(format string, args ...any) {
	l.printf(false, "[ERROR] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if l == nil || !l.verbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "\n=== %s ===\n", name)
}

func (l *Logger) printf(verboseOnly bool, prefix, format string, args ...any) {
	if l == nil || (verboseOnly && !l.verbose) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, prefix+format+"\n", args...)
}
