// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compression

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

type stageFunc func(io.Reader, io.Writer) error

func run(t *testing.T, stage stageFunc, input []byte) ([]byte, error) {
	t.Helper()
	var output bytes.Buffer
	err := stage(bytes.NewReader(input), &output)
	return output.Bytes(), err
}

func mustRun(t *testing.T, stage stageFunc, input []byte) []byte {
	t.Helper()
	output, err := run(t, stage, input)
	if err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	return output
}

func compressible(size int) []byte {
	data := make([]byte, size)
	for index := range data {
		data[index] = byte(index % 23)
	}
	return data
}

func random(t *testing.T, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestMethodString(t *testing.T) {
	tests := []struct {
		method Method
		want   string
	}{
		{None, "none"},
		{Fast, "fast"},
		{Strong, "strong"},
		{Method(9), "unknown(9)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.method.String(); got != tt.want {
				t.Errorf("Method(%d).String() = %q, want %q", tt.method, got, tt.want)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"none", "fast", "strong"} {
		t.Run(name, func(t *testing.T) {
			method, err := ParseMethod(name)
			if err != nil {
				t.Fatalf("ParseMethod(%q): %v", name, err)
			}
			if method.String() != name {
				t.Errorf("roundtrip: ParseMethod(%q).String() = %q", name, method.String())
			}
		})
	}

	if method, err := ParseMethod(""); err != nil || method != None {
		t.Errorf("ParseMethod(\"\") = %v, %v; want none", method, err)
	}
	if _, err := ParseMethod("bz2"); err == nil {
		t.Error("ParseMethod(\"bz2\") should fail")
	}

	var method Method
	if err := method.UnmarshalText([]byte("strong")); err != nil || method != Strong {
		t.Errorf("UnmarshalText(strong) = %v, %v", method, err)
	}
	if _, err := Method(7).MarshalText(); err == nil {
		t.Error("MarshalText of an invalid method should fail")
	}
}

func TestRoundTrip(t *testing.T) {
	stages := []struct {
		name   string
		encode stageFunc
		decode stageFunc
	}{
		{"fast", FastEncode, FastDecode},
		{"legacy", LegacyEncode, LegacyDecode},
		{"strong", StrongEncode, StrongDecode},
	}
	inputs := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"small", []byte("a small object graph")},
		{"exact block", compressible(BlockSize)},
		{"multi block", compressible(2*BlockSize + 123)},
		{"incompressible", random(t, BlockSize+77)},
	}

	for _, stage := range stages {
		for _, input := range inputs {
			t.Run(stage.name+"/"+input.name, func(t *testing.T) {
				encoded := mustRun(t, stage.encode, input.data)
				decoded := mustRun(t, stage.decode, encoded)
				if !bytes.Equal(decoded, input.data) {
					t.Fatalf("roundtrip produced %d bytes, want %d", len(decoded), len(input.data))
				}
			})
		}
	}
}

func TestFastEncodeFraming(t *testing.T) {
	encoded := mustRun(t, FastEncode, compressible(BlockSize+10))

	records := 0
	for offset := 0; offset < len(encoded); records++ {
		if len(encoded)-offset < lengthPrefixSize {
			t.Fatalf("dangling %d bytes at offset %d", len(encoded)-offset, offset)
		}
		length := int(binary.LittleEndian.Uint32(encoded[offset:]))
		offset += lengthPrefixSize + length
		if offset > len(encoded) {
			t.Fatalf("record %d overruns the stream", records)
		}
	}
	if records != 2 {
		t.Errorf("encoded %d records, want 2 (one full block and the remainder)", records)
	}
}

func TestFastEncodeExactBlockHasNoEmptyRecord(t *testing.T) {
	encoded := mustRun(t, FastEncode, compressible(BlockSize))
	length := int(binary.LittleEndian.Uint32(encoded))
	if len(encoded) != lengthPrefixSize+length {
		t.Errorf("exact-block input produced %d bytes, want a single %d byte record",
			len(encoded), lengthPrefixSize+length)
	}
}

func TestFastDecodeTruncatedPrefix(t *testing.T) {
	encoded := mustRun(t, FastEncode, []byte("complete record"))
	truncated := append(encoded, 0x10, 0x00)

	_, err := run(t, FastDecode, truncated)
	if !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("FastDecode = %v, want ErrTruncatedStream", err)
	}
}

func TestFastDecodeTruncatedBody(t *testing.T) {
	encoded := mustRun(t, FastEncode, compressible(4096))

	_, err := run(t, FastDecode, encoded[:len(encoded)-3])
	if !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("FastDecode = %v, want ErrTruncatedStream", err)
	}
}

func TestFastDecodeDetectsLegacyLayout(t *testing.T) {
	input := []byte("written before length framing existed")
	legacy := mustRun(t, LegacyEncode, input)

	_, err := run(t, FastDecode, legacy)
	if !errors.Is(err, ErrLegacyFormat) {
		t.Fatalf("FastDecode(legacy) = %v, want ErrLegacyFormat", err)
	}
	if errors.Is(err, ErrCorrupt) {
		t.Error("legacy detection must not also report corruption")
	}

	if decoded := mustRun(t, LegacyDecode, legacy); !bytes.Equal(decoded, input) {
		t.Errorf("LegacyDecode = %q, want %q", decoded, input)
	}
}

func TestFastDecodeInvalidFirstBlockIsLegacy(t *testing.T) {
	// A literal run whose length extension bytes run past the block.
	body := []byte{0xf0, 0xff, 0xff}
	stream := binary.LittleEndian.AppendUint32(nil, uint32(len(body)))
	stream = append(stream, body...)

	_, err := run(t, FastDecode, stream)
	if !errors.Is(err, ErrLegacyFormat) {
		t.Fatalf("FastDecode = %v, want ErrLegacyFormat", err)
	}
}

func TestFastDecodeLaterFailureIsCorrupt(t *testing.T) {
	stream := mustRun(t, FastEncode, []byte("first record decodes fine"))
	stream = binary.LittleEndian.AppendUint32(stream, uint32(maxFramedBlock+1))

	_, err := run(t, FastDecode, stream)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("FastDecode = %v, want ErrCorrupt", err)
	}
	if errors.Is(err, ErrLegacyFormat) {
		t.Error("a failure after the first record must not be reported as legacy")
	}
}

func TestFastDecoderOnFirstBlock(t *testing.T) {
	encoded := mustRun(t, FastEncode, compressible(3*BlockSize))

	calls := 0
	decoder := FastDecoder{OnFirstBlock: func() { calls++ }}
	var output bytes.Buffer
	if err := decoder.Decode(bytes.NewReader(encoded), &output); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if calls != 1 {
		t.Errorf("OnFirstBlock called %d times, want 1", calls)
	}
}

func TestStrongDecodeRejectsGarbage(t *testing.T) {
	_, err := run(t, StrongDecode, []byte("this is not a zstd frame at all"))
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("StrongDecode = %v, want ErrCorrupt", err)
	}
}

func TestStrongDecodeRejectsTruncation(t *testing.T) {
	encoded := mustRun(t, StrongEncode, random(t, 64*1024))

	_, err := run(t, StrongDecode, encoded[:len(encoded)/2])
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("StrongDecode(truncated) = %v, want ErrCorrupt", err)
	}
}

func TestStrongCompresses(t *testing.T) {
	data := bytes.Repeat([]byte(`{"name":"x","values":[1,2,3]}`), 4096)
	encoded := mustRun(t, StrongEncode, data)
	if len(encoded) >= len(data)/10 {
		t.Errorf("zstd produced %d bytes from %d bytes of repetitive input", len(encoded), len(data))
	}
}

func TestLegacyDecodeRejectsGarbage(t *testing.T) {
	_, err := run(t, LegacyDecode, []byte("no frame magic here"))
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("LegacyDecode = %v, want ErrCorrupt", err)
	}
}
