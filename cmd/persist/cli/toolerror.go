// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors so the entry point can pick
// an exit code without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation: bad arguments, flags, config or input
	// documents. Fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a named file does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryConflict: the target is locked by a concurrent save.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryCorrupt: a persisted stream could not be decoded, or the
	// key does not match it.
	CategoryCorrupt ErrorCategory = "corrupt"

	// CategoryInternal: anything else, including I/O failures.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error. It wraps Err, so errors.Is and
// errors.As see through it.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional next step printed after the message.
	Hint string
}

// Error returns the wrapped message and the hint, if any. The category
// travels separately.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// WithHint sets Hint and returns e for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode maps the category to the process exit status.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryConflict:
		return 4
	case CategoryCorrupt:
		return 5
	default:
		return 1
	}
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Corrupt creates a corrupt-data error.
func Corrupt(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryCorrupt, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// CategoryOf returns the category of the first ToolError in err's
// chain, or CategoryInternal when there is none.
func CategoryOf(err error) ErrorCategory {
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError.Category
	}
	return CategoryInternal
}
