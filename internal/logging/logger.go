// Package logging provides a minimal leveled logger, grounded on
// mutagen-io/mutagen's pkg/logging: a *Logger that is safe to use as a nil
// receiver, so call sites never need a nil check before logging, and that
// derives named subloggers for each pipeline stage.
package logging

import (
	"fmt"
	"log"

	"github.com/fatih/color"
)

// Logger wraps the standard library's log package with a dotted name
// prefix and nil-safety.
type Logger struct {
	prefix string
}

// RootLogger is the root logger from which all other loggers derive.
var RootLogger = &Logger{}

// Sublogger creates a new sublogger with the specified name appended to the
// receiver's prefix. Calling Sublogger on a nil *Logger returns nil, so a
// caller that was handed a nil logger (meaning "don't log") propagates that
// choice to its own sub-components without special-casing it.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{prefix: prefix}
}

func (l *Logger) output(line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(3, line)
}

// Println logs a line with semantics equivalent to fmt.Println.
func (l *Logger) Println(v ...interface{}) {
	if l != nil {
		l.output(fmt.Sprintln(v...))
	}
}

// Printf logs a line with semantics equivalent to fmt.Printf.
func (l *Logger) Printf(format string, v ...interface{}) {
	if l != nil {
		l.output(fmt.Sprintf(format, v...))
	}
}

// Warn logs a warning in yellow, matching the reference codebase's
// color convention for non-fatal anomalies.
func (l *Logger) Warn(err error) {
	if l != nil {
		l.output(color.YellowString("warning: %v", err))
	}
}

// Error logs an error in red, matching the reference codebase's convention
// for failures that are about to abort the run.
func (l *Logger) Error(err error) {
	if l != nil {
		l.output(color.RedString("error: %v", err))
	}
}
