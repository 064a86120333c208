// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/bureau-foundation/persist/lib/codec"
	"github.com/bureau-foundation/persist/lib/header"
)

// LockSuffix names the sidecar file SaveFile locks, next to the target.
const LockSuffix = ".lock"

// SaveFile saves objects to path. Options are checked before anything
// on disk is touched. Concurrent SaveFile calls for the same path are
// serialized with an advisory lock on path+LockSuffix; a call that
// cannot take the lock immediately fails with ErrLocked. The stream is
// written to a temporary file in the same directory, synced, and
// renamed over path, so readers see either the old or the new file.
func SaveFile(path string, objects codec.Objects, options SaveOptions) error {
	if err := options.validate(); err != nil {
		return err
	}

	lock := flock.New(path + LockSuffix)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer lock.Unlock()

	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	committed := false
	defer func() {
		if !committed {
			temporary.Close()
			os.Remove(temporary.Name())
		}
	}()

	if err := Save(temporary, objects, options); err != nil {
		return err
	}
	if err := temporary.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", temporary.Name(), err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", temporary.Name(), err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	committed = true
	return nil
}

// LoadFile loads the persisted stream at path.
func LoadFile(path string, options LoadOptions) (codec.Objects, error) {
	file, err := os.Open(path)
	if err != nil {
		return codec.Objects{}, err
	}
	defer file.Close()

	objects, err := Load(file, options)
	if err != nil {
		return codec.Objects{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return objects, nil
}

// LoadValueFile is LoadValue for the stream at path.
func LoadValueFile(path string, options LoadOptions) (any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	value, err := LoadValue(file, options)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return value, nil
}

// ProbeFile reads only the header byte of the file at path.
func ProbeFile(path string) (header.Flags, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	flags, err := Probe(file)
	if err != nil {
		return flags, fmt.Errorf("probing %s: %w", path, err)
	}
	return flags, nil
}
