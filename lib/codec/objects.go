// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"io"
)

// Objects is the content of one persisted stream.
type Objects struct {
	_ struct{} `cbor:",toarray"`

	// Positional holds the unnamed objects in call order.
	Positional []any

	// Named holds the objects passed by name.
	Named map[string]any
}

// Values builds an Objects holding only positional objects.
func Values(positional ...any) Objects {
	return Objects{Positional: positional}
}

// Len returns the total number of objects.
func (objects Objects) Len() int {
	return len(objects.Positional) + len(objects.Named)
}

// Unwrap collapses objects the way an unsafeguarded load returns them.
// With no named objects, a single positional object is returned as
// itself and several are returned as a []any. Anything with named
// objects is returned unchanged.
func (objects Objects) Unwrap() any {
	if len(objects.Named) > 0 {
		return objects
	}
	if len(objects.Positional) == 1 {
		return objects.Positional[0]
	}
	return objects.Positional
}

// EncodeObjects writes the CBOR encoding of objects to destination.
func EncodeObjects(objects Objects, destination io.Writer) error {
	data, err := Marshal(objects)
	if err != nil {
		return fmt.Errorf("encoding objects: %w", err)
	}
	if _, err := destination.Write(data); err != nil {
		return fmt.Errorf("writing encoded objects: %w", err)
	}
	return nil
}

// DecodeObjects reads source to end-of-stream and decodes the single
// Objects value it holds.
func DecodeObjects(source io.Reader) (Objects, error) {
	data, err := io.ReadAll(source)
	if err != nil {
		return Objects{}, fmt.Errorf("reading encoded objects: %w", err)
	}

	var objects Objects
	if err := Unmarshal(data, &objects); err != nil {
		return Objects{}, fmt.Errorf("decoding objects: %w", err)
	}
	return objects, nil
}
