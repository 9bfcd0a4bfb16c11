package common

import (
	"fmt"
	"io"
)

// LogWriter collects errors and trace lines during a batch compile and
// flushes them at exit. A failed module is recorded here; the batch
// keeps going.
type LogWriter struct {
	errors []error
	lines  []string
}

// Err appends the non-nil errors and reports whether any error has
// been recorded so far.
func (l *LogWriter) Err(errs ...error) bool {
	for _, e := range errs {
		if e != nil {
			l.errors = append(l.errors, e)
		}
	}
	return len(l.errors) > 0
}

func (l *LogWriter) Trace(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *LogWriter) HasErrors() bool {
	return len(l.errors) > 0
}

func (l *LogWriter) Errors() []error {
	return l.errors
}

func (l *LogWriter) Flush(w io.Writer) {
	for _, s := range l.lines {
		_, _ = fmt.Fprintln(w, s)
	}
	for _, e := range l.errors {
		_, _ = fmt.Fprintln(w, e.Error())
	}
	l.lines = nil
	l.errors = nil
}
