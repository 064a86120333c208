// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/persist/lib/aescbc"
	"github.com/bureau-foundation/persist/lib/bytequeue"
	"github.com/bureau-foundation/persist/lib/compression"
)

var (
	// ErrCorruptStream means a stream could not be decoded: a stage
	// rejected its input, the header is invalid, or the legacy fallback
	// failed as well.
	ErrCorruptStream = errors.New("persisted stream is corrupt")

	// ErrMissingKey means the stream is encrypted and no key was given.
	ErrMissingKey = errors.New("stream is encrypted but no key was given")

	// ErrEmptyPassphrase means a passphrase key was built from "".
	ErrEmptyPassphrase = errors.New("passphrase is empty")

	// ErrInvalidCompression means the compression method is unknown.
	ErrInvalidCompression = errors.New("invalid compression method")

	// ErrInvalidChannelBudget means the channel budget is negative.
	ErrInvalidChannelBudget = errors.New("channel budget must not be negative")

	// ErrPrematureExit means a stage reported success without consuming
	// all of its input.
	ErrPrematureExit = errors.New("stage exited before consuming its input")

	// ErrLocked means another process holds the save lock for a path.
	ErrLocked = errors.New("file is locked by another save")
)

// Errors from the stage packages, re-exported so callers only import
// persist.
var (
	ErrInvalidKeyLength = aescbc.ErrInvalidKeyLength
	ErrTruncatedStream  = compression.ErrTruncatedStream
	ErrLegacyFormat     = compression.ErrLegacyFormat
	ErrChannelClosed    = bytequeue.ErrClosed
)

// StageError is the failure of one pipeline stage.
type StageError struct {
	// Index is the stage's position in the pipeline, from zero.
	Index int

	// Stage names the stage, e.g. "fast decompress".
	Stage string

	Err error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Index, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
