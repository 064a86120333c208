// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes BLAKE3 content digests of persisted streams.
//
// A [Writer] hashes and counts whatever passes through it, so a stream
// can be digested while another consumer reads it (io.TeeReader)
// without a second pass or buffering the whole file.
package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Size is the length of a Digest in bytes.
const Size = 32

// Digest is a BLAKE3-256 digest.
type Digest [Size]byte

// String returns the lowercase hex encoding, the form used in command
// output and logs.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Parse decodes a hex digest as printed by String.
func Parse(text string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != Size {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), Size)
	}
	copy(digest[:], decoded)
	return digest, nil
}

// Writer hashes and counts the bytes written to it. The zero value is
// not usable; call NewWriter.
type Writer struct {
	hasher *blake3.Hasher
	size   int64
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{hasher: blake3.New()}
}

// Write never fails.
func (w *Writer) Write(p []byte) (int, error) {
	w.hasher.Write(p)
	w.size += int64(len(p))
	return len(p), nil
}

// Sum returns the digest of everything written so far.
func (w *Writer) Sum() Digest {
	var digest Digest
	w.hasher.Sum(digest[:0])
	return digest
}

// Size returns the number of bytes written so far.
func (w *Writer) Size() int64 {
	return w.size
}

// File digests the file at path, streaming it in constant memory.
func File(path string) (Digest, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, 0, err
	}
	defer file.Close()

	writer := NewWriter()
	if _, err := io.Copy(writer, file); err != nil {
		return Digest{}, 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return writer.Sum(), writer.Size(), nil
}
