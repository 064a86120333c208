// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for concurrency tests.
//
// [RequireReceive] and [RequireClosed] wrap the timeout safety valve
// pattern (select with a time.After fallback) so a test that would
// otherwise hang on a stuck pipeline stage fails with a message
// instead. [RequireEventually] polls a condition that another
// goroutine is expected to make true, such as a writer filling a
// bounded queue.
//
// These helpers are the only place in the test suite that uses real
// wall-clock timeouts. All of them call t.Fatalf on failure rather
// than returning errors, since a hung test is not recoverable.
//
// This package has no internal dependencies.
package testutil
