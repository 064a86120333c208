// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gofrs/flock"

	"github.com/bureau-foundation/persist/lib/codec"
	"github.com/bureau-foundation/persist/lib/compression"
	"github.com/bureau-foundation/persist/lib/header"
)

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	objects := sampleObjects()
	key := Passphrase("file key")

	if err := SaveFile(path, objects, SaveOptions{Compression: compression.Strong, Key: key}); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	loaded, err := LoadFile(path, LoadOptions{Key: key})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !reflect.DeepEqual(loaded, objects) {
		t.Errorf("LoadFile = %#v, want %#v", loaded, objects)
	}

	flags, err := ProbeFile(path)
	if err != nil {
		t.Fatalf("ProbeFile: %v", err)
	}
	if flags != header.StrongCompressed|header.Encrypted {
		t.Errorf("ProbeFile = %v, want strong|encrypted", flags)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("saved file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveFileReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	for _, value := range []string{"first", "second"} {
		if err := SaveFile(path, codec.Values(value), SaveOptions{Compression: compression.Fast}); err != nil {
			t.Fatalf("SaveFile(%s): %v", value, err)
		}
	}

	value, err := LoadValueFile(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadValueFile: %v", err)
	}
	if value != "second" {
		t.Errorf("LoadValueFile = %#v, want \"second\"", value)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.Name() != "state.bin" && entry.Name() != "state.bin"+LockSuffix {
			t.Errorf("stray file %s left behind", entry.Name())
		}
	}
}

func TestSaveFileInvalidKeyTouchesNothing(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "state.bin")

	err := SaveFile(path, codec.Values("x"), SaveOptions{Key: RawKey([]byte("short"))})
	if !errors.Is(err, ErrInvalidKeyLength) {
		t.Fatalf("SaveFile = %v, want ErrInvalidKeyLength", err)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("SaveFile created %d entries before failing validation", len(entries))
	}
}

func TestSaveFileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")

	holder := flock.New(path + LockSuffix)
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("taking the lock: %v, %v", locked, err)
	}
	defer holder.Unlock()

	err = SaveFile(path, codec.Values("x"), SaveOptions{})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("SaveFile = %v, want ErrLocked", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("SaveFile wrote %s while locked", path)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent"), LoadOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadFile = %v, want os.ErrNotExist", err)
	}
}

func TestLoadFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	if err := os.WriteFile(path, []byte{0x02, 'n', 'o', 'p', 'e'}, 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path, LoadOptions{})
	if !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("LoadFile = %v, want ErrCorruptStream", err)
	}
}
