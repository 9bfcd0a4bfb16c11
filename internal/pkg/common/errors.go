package common

import (
	"fmt"
	"runtime"
)

// NewSystemError wraps an environment failure (I/O, filesystem) that
// is not caused by the compiled program.
func NewSystemError(err error) error {
	return systemError{inner: err}
}

type systemError struct {
	inner error
}

func (e systemError) Error() string {
	return fmt.Sprintf("system error: %v", e.inner)
}

func (e systemError) Unwrap() error {
	return e.inner
}

// NewCompilerError reports an internal defect: a node, datum, or
// literal shape outside the closed case analysis. It records the Go
// call site because retrying never helps; only a code change does.
func NewCompilerError(format string, args ...any) error {
	_, file, line, _ := runtime.Caller(1)
	return compilerError{message: fmt.Sprintf(format, args...), file: file, line: line}
}

type compilerError struct {
	message string
	file    string
	line    int
}

func (e compilerError) Error() string {
	return fmt.Sprintf("%s at %s:%d", e.message, e.file, e.line)
}

// IsCompilerError distinguishes internal defects from system errors.
func IsCompilerError(err error) bool {
	_, ok := err.(compilerError)
	return ok
}
