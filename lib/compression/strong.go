// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// StrongEncode compresses source into destination as a zstd stream at
// the best-compression level. zstd frames are self-delimiting, so no
// outer framing is added.
func StrongEncode(source io.Reader, destination io.Writer) error {
	encoder, err := zstd.NewWriter(destination,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		// An empty input still gets a frame, so the decoder never sees
		// a zero-byte stream.
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}

	chunk := make([]byte, BlockSize)
	for {
		count, last, err := readBlock(source, chunk)
		if err != nil {
			encoder.Close()
			return fmt.Errorf("reading strong-compression input: %w", err)
		}
		if _, err := encoder.Write(chunk[:count]); err != nil {
			encoder.Close()
			return fmt.Errorf("zstd compress: %w", err)
		}
		if last {
			break
		}
	}

	// Close flushes the final block and writes the frame trailer.
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("zstd finalize: %w", err)
	}
	return nil
}

// StrongDecode decompresses a zstd stream. Any zstd error is reported
// as ErrCorrupt.
func StrongDecode(source io.Reader, destination io.Writer) error {
	decoder, err := zstd.NewReader(source, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	return drainDecoder(decoder, destination, "zstd")
}
