// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bytequeue provides a bounded, thread-safe FIFO byte buffer
// that connects two stages of a streaming pipeline.
//
// A [Queue] holds at most its capacity in unread bytes. Writers block
// while the queue is full and resume as the reader drains it, which
// keeps the memory of a pipeline bounded regardless of how much data
// flows through it. Reads return bytes in exactly the order they were
// written; each Write call lands contiguously even with several
// concurrent writers.
//
// Closing is two-phase. [Queue.Close] stops further writes (they fail
// with [ErrClosed]); reads keep draining buffered bytes, and once the
// queue is empty it becomes fully closed and every read returns
// io.EOF. [Queue.Abort] is the failure path: it discards buffered data
// and wakes every blocked reader and writer with the abort error, so a
// failed pipeline unwinds instead of hanging.
//
// Reads are blocking by default: a read waits until the caller's
// buffer is full or the stream ends. [NonBlocking] queues return
// whatever is immediately available, possibly nothing.
//
// This package has no Bureau-internal dependencies.
package bytequeue
