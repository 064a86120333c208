// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestToolErrorCategories(t *testing.T) {
	tests := []struct {
		err      *ToolError
		category ErrorCategory
		code     int
	}{
		{Validation("bad"), CategoryValidation, 2},
		{NotFound("missing"), CategoryNotFound, 3},
		{Conflict("locked"), CategoryConflict, 4},
		{Corrupt("corrupt"), CategoryCorrupt, 5},
		{Internal("oops"), CategoryInternal, 1},
	}
	for _, test := range tests {
		t.Run(string(test.category), func(t *testing.T) {
			if test.err.Category != test.category {
				t.Errorf("Category = %q, want %q", test.err.Category, test.category)
			}
			if test.err.ExitCode() != test.code {
				t.Errorf("ExitCode = %d, want %d", test.err.ExitCode(), test.code)
			}
		})
	}
}

func TestToolErrorWrapsAndHints(t *testing.T) {
	sentinel := errors.New("stream is encrypted")
	err := Validation("loading data.bin: %w", sentinel).WithHint("Pass --key-file or --passphrase-file.")

	if !errors.Is(err, sentinel) {
		t.Error("ToolError does not unwrap to the cause")
	}
	want := "loading data.bin: stream is encrypted\n\nPass --key-file or --passphrase-file."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCategoryOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Conflict("locked"))
	if got := CategoryOf(wrapped); got != CategoryConflict {
		t.Errorf("CategoryOf(wrapped conflict) = %q", got)
	}
	if got := CategoryOf(errors.New("plain")); got != CategoryInternal {
		t.Errorf("CategoryOf(plain) = %q, want internal", got)
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 1}
	if err.ExitCode() != 1 || err.Error() != "exit code 1" {
		t.Errorf("ExitError = %d %q", err.ExitCode(), err.Error())
	}
}

func TestNewLoggerFormat(t *testing.T) {
	var output bytes.Buffer
	NewLogger(&output, false, slog.LevelInfo).Info("saved", "path", "data.bin")
	if !strings.HasPrefix(output.String(), "{") {
		t.Errorf("non-interactive logger is not JSON: %q", output.String())
	}

	output.Reset()
	NewLogger(&output, true, slog.LevelInfo).Info("saved", "path", "data.bin")
	if !strings.Contains(output.String(), "msg=saved") {
		t.Errorf("interactive logger is not text: %q", output.String())
	}

	output.Reset()
	NewLogger(&output, false, slog.LevelWarn).Info("hidden")
	if output.Len() != 0 {
		t.Errorf("info record written at warn level: %q", output.String())
	}
}
