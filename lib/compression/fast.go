// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// lengthPrefixSize is the size of the little-endian record length
// preceding every fast-compression block.
const lengthPrefixSize = 4

// maxFramedBlock is the largest compressed size a BlockSize chunk can
// take. A length prefix above it cannot come from FastEncode.
var maxFramedBlock = lz4.CompressBlockBound(BlockSize)

// FastEncode compresses source into destination as a sequence of
// length-framed LZ4 blocks:
//
//	{u32 little-endian length}{length bytes of LZ4 block} ...
//
// Each BlockSize chunk is compressed independently. The sequence ends
// with the stream; there is no terminator record. An empty final chunk
// produces no record.
func FastEncode(source io.Reader, destination io.Writer) error {
	chunk := make([]byte, BlockSize)
	// The destination is sized to CompressBlockBound so CompressBlock
	// always emits a block, even for incompressible input.
	record := make([]byte, lengthPrefixSize+maxFramedBlock)
	var compressor lz4.Compressor

	for {
		count, last, err := readBlock(source, chunk)
		if err != nil {
			return fmt.Errorf("reading fast-compression input: %w", err)
		}

		if count > 0 {
			written, err := compressor.CompressBlock(chunk[:count], record[lengthPrefixSize:])
			if err != nil {
				return fmt.Errorf("lz4 compress: %w", err)
			}
			binary.LittleEndian.PutUint32(record, uint32(written))
			if _, err := destination.Write(record[:lengthPrefixSize+written]); err != nil {
				return fmt.Errorf("writing fast-compression block: %w", err)
			}
		}

		if last {
			return nil
		}
	}
}

// FastDecoder decodes the length-framed layout written by FastEncode.
type FastDecoder struct {
	// OnFirstBlock, when set, is called once the first record has been
	// decoded. From that point the stream can no longer turn out to be
	// in the legacy layout, so callers holding replay data for a legacy
	// retry may release it.
	OnFirstBlock func()
}

// FastDecode decodes source with a zero FastDecoder.
func FastDecode(source io.Reader, destination io.Writer) error {
	return FastDecoder{}.Decode(source, destination)
}

// Decode reads records until end-of-stream and writes the decompressed
// blocks to destination.
//
// A clean end-of-stream where a length prefix would start ends the
// stream normally; a partial prefix or a short block body is
// ErrTruncatedStream. When the very first record is not a valid block
// (its length is impossible or LZ4 rejects it), Decode returns
// ErrLegacyFormat: legacy streams open with an LZ4 frame header, which
// always fails this way. The same failure on any later record is
// ErrCorrupt.
func (decoder FastDecoder) Decode(source io.Reader, destination io.Writer) error {
	var prefix [lengthPrefixSize]byte
	block := make([]byte, maxFramedBlock)
	output := make([]byte, BlockSize)

	for index := 0; ; index++ {
		count, err := io.ReadFull(source, prefix[:])
		if err != nil {
			if count == 0 && errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: record %d length prefix has %d of %d bytes",
					ErrTruncatedStream, index, count, lengthPrefixSize)
			}
			return fmt.Errorf("reading record %d length: %w", index, err)
		}

		length := int(binary.LittleEndian.Uint32(prefix[:]))
		if length > maxFramedBlock {
			return decodeFailure(index, fmt.Errorf("record length %d exceeds the %d byte maximum", length, maxFramedBlock))
		}

		if _, err := io.ReadFull(source, block[:length]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: record %d announced %d bytes", ErrTruncatedStream, index, length)
			}
			return fmt.Errorf("reading record %d: %w", index, err)
		}

		decoded, err := lz4.UncompressBlock(block[:length], output)
		if err != nil {
			return decodeFailure(index, fmt.Errorf("lz4 decompress: %w", err))
		}
		if _, err := destination.Write(output[:decoded]); err != nil {
			return fmt.Errorf("writing decompressed block %d: %w", index, err)
		}

		if index == 0 && decoder.OnFirstBlock != nil {
			decoder.OnFirstBlock()
		}
	}
}

func decodeFailure(index int, cause error) error {
	if index == 0 {
		return fmt.Errorf("%w: %w", ErrLegacyFormat, cause)
	}
	return fmt.Errorf("%w: record %d: %w", ErrCorrupt, index, cause)
}
