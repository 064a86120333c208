// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// state is the lifecycle position of one Save or Load call.
type state int

const (
	stateIdle state = iota
	stateConfiguring
	stateRunning
	stateRetryingLegacy
	stateSucceeded
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateConfiguring:
		return "configuring"
	case stateRunning:
		return "running"
	case stateRetryingLegacy:
		return "retrying-legacy"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// transitions lists the states reachable from each state. Succeeded and
// failed are terminal.
var transitions = map[state][]state{
	stateIdle:           {stateConfiguring},
	stateConfiguring:    {stateRunning, stateFailed},
	stateRunning:        {stateSucceeded, stateFailed, stateRetryingLegacy},
	stateRetryingLegacy: {stateRunning, stateFailed},
}

// call tracks one Save or Load through its states and tags its log
// records with a run ID.
type call struct {
	logger  *slog.Logger
	state   state
	retried bool
}

func newCall(logger *slog.Logger, operation string) *call {
	return &call{
		logger: loggerOrDiscard(logger).With("operation", operation, "run_id", uuid.NewString()),
		state:  stateIdle,
	}
}

// enter moves to next. An undefined transition is a bug in this
// package and panics.
func (c *call) enter(next state, attributes ...any) {
	allowed := false
	for _, candidate := range transitions[c.state] {
		if candidate == next {
			allowed = true
			break
		}
	}
	if !allowed {
		panic(fmt.Sprintf("persist: invalid state transition %s -> %s", c.state, next))
	}
	// The legacy retry happens at most once per call.
	if next == stateRetryingLegacy {
		if c.retried {
			panic("persist: second legacy retry")
		}
		c.retried = true
	}

	c.logger.Debug("pipeline state",
		append([]any{"from", c.state.String(), "to", next.String()}, attributes...)...)
	c.state = next
}

// fail enters the failed state and returns err.
func (c *call) fail(err error) error {
	c.enter(stateFailed, "error", err)
	return err
}
