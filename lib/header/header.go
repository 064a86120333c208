// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package header encodes the one-byte capability bitmask that opens
// every persisted stream. Each bit records an optional stage applied on
// save, so load can rebuild the decode chain from the first byte alone.
//
//	bit 0  fast compression
//	bit 1  strong compression
//	bit 2  encryption
//
// Bits 3..7 are reserved. A byte with any of them set was not written
// by this format and is rejected.
package header

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Size is the length of the header in bytes.
const Size = 1

// Flags is the capability bitmask.
type Flags uint8

const (
	FastCompressed   Flags = 1 << 0
	StrongCompressed Flags = 1 << 1
	Encrypted        Flags = 1 << 2

	known = FastCompressed | StrongCompressed | Encrypted
)

// ErrReservedBits means the header byte sets bits this format does not
// define.
var ErrReservedBits = errors.New("header sets reserved bits")

// ErrMissing means the stream ended before the header byte.
var ErrMissing = errors.New("stream has no header byte")

// Has reports whether every bit of flag is set.
func (flags Flags) Has(flag Flags) bool {
	return flags&flag == flag
}

// Validate rejects reserved bits.
func (flags Flags) Validate() error {
	if unknown := flags &^ known; unknown != 0 {
		return fmt.Errorf("%w: 0x%02x", ErrReservedBits, byte(unknown))
	}
	return nil
}

// String lists the set flags, e.g. "fast|encrypted", or "none".
func (flags Flags) String() string {
	var names []string
	if flags.Has(FastCompressed) {
		names = append(names, "fast")
	}
	if flags.Has(StrongCompressed) {
		names = append(names, "strong")
	}
	if flags.Has(Encrypted) {
		names = append(names, "encrypted")
	}
	if unknown := flags &^ known; unknown != 0 {
		names = append(names, fmt.Sprintf("reserved(0x%02x)", byte(unknown)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Write writes flags as the header byte.
func Write(destination io.Writer, flags Flags) error {
	if err := flags.Validate(); err != nil {
		return err
	}
	if _, err := destination.Write([]byte{byte(flags)}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// Read consumes exactly the header byte from source. Reserved bits are
// reported with the flags still returned, so callers can show what was
// found.
func Read(source io.Reader) (Flags, error) {
	var buffer [Size]byte
	if _, err := io.ReadFull(source, buffer[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrMissing
		}
		return 0, fmt.Errorf("reading header: %w", err)
	}
	flags := Flags(buffer[0])
	return flags, flags.Validate()
}
