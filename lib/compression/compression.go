// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"errors"
	"fmt"
	"io"
)

// BlockSize is the chunk size every stage reads from its source. It is
// also the largest uncompressed size of one fast-compression block, so
// it is a format constant: changing it breaks decoding of existing
// files.
const BlockSize = 1 << 20

// Method identifies the compression applied to a persisted stream.
type Method uint8

const (
	// None stores the encoded objects uncompressed.
	None Method = iota

	// Fast compresses with LZ4 blocks, each prefixed by its length.
	// Cheap to encode and decode; moderate ratio.
	Fast

	// Strong compresses with zstd at its highest level. Much slower to
	// encode, better ratio for text-like object graphs.
	Strong
)

// String returns the name used on the command line and in config.
func (method Method) String() string {
	switch method {
	case None:
		return "none"
	case Fast:
		return "fast"
	case Strong:
		return "strong"
	default:
		return fmt.Sprintf("unknown(%d)", method)
	}
}

// Valid reports whether method is one of the defined methods.
func (method Method) Valid() bool {
	return method <= Strong
}

// ParseMethod parses a method from its string representation.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "none", "":
		return None, nil
	case "fast":
		return Fast, nil
	case "strong":
		return Strong, nil
	default:
		return 0, fmt.Errorf("unknown compression method %q (want none, fast or strong)", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (method Method) MarshalText() ([]byte, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("invalid compression method %d", method)
	}
	return []byte(method.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (method *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*method = parsed
	return nil
}

var (
	// ErrTruncatedStream means the stream ended inside a record: fewer
	// bytes arrived than a length prefix announced, or a length prefix
	// itself was cut short.
	ErrTruncatedStream = errors.New("compressed stream is truncated")

	// ErrLegacyFormat means the first fast-compression record could not
	// be decoded as a length-framed block. Streams written with the
	// older, unframed layout produce exactly this; the caller should
	// retry the whole decode with LegacyDecode.
	ErrLegacyFormat = errors.New("stream uses the legacy unframed fast-compression layout")

	// ErrCorrupt means the compressed data is invalid.
	ErrCorrupt = errors.New("compressed data is corrupt")
)

// readBlock fills buffer from source. last is true when the source hit
// end-of-stream, in which case count may be anything from zero to
// len(buffer)-1. Errors other than end-of-stream are returned as-is.
func readBlock(source io.Reader, buffer []byte) (count int, last bool, err error) {
	count, err = io.ReadFull(source, buffer)
	switch {
	case err == nil:
		return count, false, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return count, true, nil
	default:
		return count, false, err
	}
}

// drainDecoder copies everything a decompressing reader produces into
// destination. Unlike readBlock it treats only a clean io.EOF as the
// end: decoders report a cut-off stream as io.ErrUnexpectedEOF, which
// here is corruption.
func drainDecoder(decoder io.Reader, destination io.Writer, name string) error {
	chunk := make([]byte, BlockSize)
	for {
		count, err := decoder.Read(chunk)
		if count > 0 {
			if _, writeErr := destination.Write(chunk[:count]); writeErr != nil {
				return fmt.Errorf("writing %s output: %w", name, writeErr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
		}
	}
}
