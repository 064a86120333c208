// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// maxSecretFile bounds how much a key or passphrase file may hold.
const maxSecretFile = 64 * 1024

// ReadFromPath reads a passphrase from path, or from stdin when path is
// "-". Surrounding whitespace, including the trailing newline editors
// add, is not part of the passphrase. The result must be closed.
func ReadFromPath(path string) (*Buffer, error) {
	data, err := readLimited(path)
	if err != nil {
		return nil, err
	}
	defer Zero(data)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret in %s is empty", describe(path))
	}
	return NewFromBytes(trimmed)
}

// ReadRawFromPath reads a binary key from path, or from stdin when path
// is "-". Every byte is kept. The result must be closed.
func ReadRawFromPath(path string) (*Buffer, error) {
	data, err := readLimited(path)
	if err != nil {
		return nil, err
	}
	defer Zero(data)

	if len(data) == 0 {
		return nil, fmt.Errorf("key in %s is empty", describe(path))
	}
	return NewFromBytes(data)
}

func readLimited(path string) ([]byte, error) {
	var source io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		source = file
	}

	data, err := io.ReadAll(io.LimitReader(source, maxSecretFile+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("reading %s: %w", describe(path), err)
	}
	if len(data) > maxSecretFile {
		Zero(data)
		return nil, fmt.Errorf("%s exceeds %d bytes", describe(path), maxSecretFile)
	}
	return data, nil
}

func describe(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
