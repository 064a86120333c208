// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package persist saves object graphs to self-describing byte streams
// and loads them back.
//
// A persisted stream is a one-byte capability header (see lib/header)
// followed by the output of a chain of stages:
//
//	save: encode objects -> compress (fast or strong)? -> encrypt?
//	load: decrypt? -> decompress? -> decode objects
//
// Each call builds its own pipeline: one goroutine per stage, with a
// bounded byte queue (lib/bytequeue) between neighbours. Memory held in
// flight is bounded by the channel budget no matter how long the chain
// is or how large the payload. A failing stage aborts every queue so
// the other stages return; the call reports the first root-cause
// failure by stage order as a [*StageError].
//
// Fast-compressed streams written before length framing existed open
// with an LZ4 frame header instead of a length prefix. Load detects this
// on the first record, rewinds the source (by seeking, or by replaying
// the bytes it recorded) and decodes the stream once more with the
// legacy decoder. A failure on that second pass is [ErrCorruptStream].
//
// Every other decode failure is also reported as [ErrCorruptStream],
// with the specific cause (truncation, bad padding, invalid CBOR) kept
// in the error chain. Option errors ([ErrInvalidCompression],
// [ErrInvalidKeyLength], [ErrMissingKey]) are returned before any stage
// starts or any byte is written.
//
// Passphrase keys are reduced to an AES-256 key by one unsalted SHA-256
// pass. This is weak against dictionary attacks and kept only so that
// existing files remain readable; use [RawKey] for new data.
package persist
