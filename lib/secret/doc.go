// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds key material outside the Go heap.
//
// A [Buffer] is an anonymous mmap region locked into RAM (mlock) and
// excluded from core dumps (MADV_DONTDUMP). Close zeroes, unlocks and
// unmaps it. The garbage collector never sees the region, so a key
// copied into a Buffer and then zeroed at its source leaves no stray
// heap copies behind.
//
// Encryption stages derive their AES key into a Buffer for the lifetime
// of one stage and close it when the stage returns. [ReadFromPath] and
// [ReadRawFromPath] load passphrases and raw keys for the CLI.
//
// Depends on golang.org/x/sys/unix.
package secret
