// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/bureau-foundation/persist/lib/codec"
	"github.com/bureau-foundation/persist/lib/compression"
)

func TestStateTransitions(t *testing.T) {
	paths := [][]state{
		{stateConfiguring, stateFailed},
		{stateConfiguring, stateRunning, stateSucceeded},
		{stateConfiguring, stateRunning, stateFailed},
		{stateConfiguring, stateRunning, stateRetryingLegacy, stateRunning, stateSucceeded},
		{stateConfiguring, stateRunning, stateRetryingLegacy, stateRunning, stateFailed},
	}
	for _, path := range paths {
		current := newCall(nil, "test")
		for _, next := range path {
			current.enter(next)
		}
	}
}

func TestStateInvalidTransitionsPanic(t *testing.T) {
	tests := []struct {
		name string
		path []state
	}{
		{"skip configuring", []state{stateRunning}},
		{"leave terminal", []state{stateConfiguring, stateFailed, stateRunning}},
		{"second retry", []state{stateConfiguring, stateRunning, stateRetryingLegacy, stateRunning, stateRetryingLegacy}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			current := newCall(nil, "test")
			for _, next := range test.path {
				current.enter(next)
			}
		})
	}
}

func TestLoadLogsLegacyRetry(t *testing.T) {
	stream := mustSave(t, codec.Values("old"), SaveOptions{Compression: compression.Fast, LegacyFraming: true})

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if _, err := Load(bytes.NewReader(stream), LoadOptions{Logger: logger}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	output := logs.String()
	for _, want := range []string{`"to":"retrying-legacy"`, `"to":"succeeded"`, `"run_id":`} {
		if !strings.Contains(output, want) {
			t.Errorf("logs missing %s:\n%s", want, output)
		}
	}
}

func TestCallFailReturnsError(t *testing.T) {
	current := newCall(nil, "test")
	current.enter(stateConfiguring)
	cause := errors.New("cause")
	if err := current.fail(cause); err != cause {
		t.Errorf("fail returned %v, want the cause", err)
	}
	if current.state != stateFailed {
		t.Errorf("state = %v, want failed", current.state)
	}
}
