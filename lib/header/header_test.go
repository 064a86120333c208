// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"bytes"
	"errors"
	"testing"
)

func TestFlagBits(t *testing.T) {
	tests := []struct {
		flags Flags
		want  byte
	}{
		{0, 0x00},
		{FastCompressed, 0x01},
		{StrongCompressed, 0x02},
		{Encrypted, 0x04},
		{FastCompressed | Encrypted, 0x05},
		{StrongCompressed | Encrypted, 0x06},
	}
	for _, test := range tests {
		t.Run(test.flags.String(), func(t *testing.T) {
			var buffer bytes.Buffer
			if err := Write(&buffer, test.flags); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if !bytes.Equal(buffer.Bytes(), []byte{test.want}) {
				t.Fatalf("Write produced %x, want %02x", buffer.Bytes(), test.want)
			}

			flags, err := Read(&buffer)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if flags != test.flags {
				t.Errorf("Read = %v, want %v", flags, test.flags)
			}
		})
	}
}

func TestFlagsIndependent(t *testing.T) {
	flags := FastCompressed | StrongCompressed
	if err := flags.Validate(); err != nil {
		t.Fatalf("both compression bits must be accepted: %v", err)
	}
	if !flags.Has(FastCompressed) || !flags.Has(StrongCompressed) || flags.Has(Encrypted) {
		t.Errorf("Has() misreports %v", flags)
	}
}

func TestReadReservedBits(t *testing.T) {
	flags, err := Read(bytes.NewReader([]byte{0x81}))
	if !errors.Is(err, ErrReservedBits) {
		t.Fatalf("Read = %v, want ErrReservedBits", err)
	}
	if flags != 0x81 {
		t.Errorf("Read returned flags %v, want the raw byte", flags)
	}
}

func TestWriteReservedBits(t *testing.T) {
	var buffer bytes.Buffer
	if err := Write(&buffer, 0x10); !errors.Is(err, ErrReservedBits) {
		t.Fatalf("Write = %v, want ErrReservedBits", err)
	}
	if buffer.Len() != 0 {
		t.Error("Write emitted a byte for invalid flags")
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := Read(bytes.NewReader(nil)); !errors.Is(err, ErrMissing) {
		t.Fatalf("Read = %v, want ErrMissing", err)
	}
}

func TestReadConsumesOneByte(t *testing.T) {
	source := bytes.NewReader([]byte{0x04, 0xaa, 0xbb})
	if _, err := Read(source); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if source.Len() != 2 {
		t.Errorf("Read left %d bytes, want 2", source.Len())
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		flags Flags
		want  string
	}{
		{0, "none"},
		{FastCompressed | Encrypted, "fast|encrypted"},
		{StrongCompressed, "strong"},
		{Flags(0x09), "fast|reserved(0x08)"},
	}
	for _, test := range tests {
		if got := test.flags.String(); got != test.want {
			t.Errorf("Flags(0x%02x).String() = %q, want %q", byte(test.flags), got, test.want)
		}
	}
}
