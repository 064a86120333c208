// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Legacy layout: before length framing, the fast stage wrote a plain
// LZ4 frame stream with 1 MiB blocks. The frame format delimits its own
// blocks, so nothing outside it records where one ends. Files in this
// layout still carry the fast-compression header bit, which is why
// decoding has to fall back on a framing failure rather than on a
// version field.

// LegacyEncode compresses source into destination using the legacy
// LZ4 frame layout. New files never use it; it exists so the fallback
// path can be exercised and old-format files reproduced.
func LegacyEncode(source io.Reader, destination io.Writer) error {
	writer := lz4.NewWriter(destination)
	if err := writer.Apply(lz4.BlockSizeOption(lz4.Block1Mb)); err != nil {
		return fmt.Errorf("configuring lz4 frame writer: %w", err)
	}

	chunk := make([]byte, BlockSize)
	for {
		count, last, err := readBlock(source, chunk)
		if err != nil {
			return fmt.Errorf("reading legacy-compression input: %w", err)
		}
		if _, err := writer.Write(chunk[:count]); err != nil {
			return fmt.Errorf("lz4 frame write: %w", err)
		}
		if last {
			break
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("lz4 frame close: %w", err)
	}
	return nil
}

// LegacyDecode decompresses an LZ4 frame stream written by
// LegacyEncode. Any frame error is reported as ErrCorrupt.
func LegacyDecode(source io.Reader, destination io.Writer) error {
	reader := lz4.NewReader(source)
	return drainDecoder(reader, destination, "lz4 frame")
}
