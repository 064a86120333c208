// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"math/big"
	"os"
	"slices"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/persist/lib/codec"
)

// JSON documents map onto objects as follows. A top-level object whose
// only keys are "positional" (an array) and "named" (an object) is an
// envelope naming both kinds of objects; any other document is a single
// positional object. Byte strings are written as {"$base64": "..."} in
// both directions, so load output can be fed back to save.
const (
	positionalKey = "positional"
	namedKey      = "named"
	bytesKey      = "$base64"
	tagKey        = "$tag"
	tagContentKey = "content"
)

// readDocument reads the input document from path, or from stdin when
// path is "" or "-".
func readDocument(stdio IO, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdio.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// parseDocument converts a JSON or JSONC document into objects.
func parseDocument(data []byte) (codec.Objects, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return codec.Objects{}, errors.New("input document is empty")
		}
		return codec.Objects{}, fmt.Errorf("parsing input document: %w", err)
	}
	if decoder.More() {
		return codec.Objects{}, errors.New("input holds more than one JSON document")
	}

	value, err := fromJSON(document)
	if err != nil {
		return codec.Objects{}, err
	}

	if envelope, ok := asEnvelope(value); ok {
		return envelope, nil
	}
	return codec.Values(value), nil
}

func asEnvelope(value any) (codec.Objects, bool) {
	object, ok := value.(map[string]any)
	if !ok || len(object) == 0 {
		return codec.Objects{}, false
	}
	var objects codec.Objects
	for key, member := range object {
		switch key {
		case positionalKey:
			positional, ok := member.([]any)
			if !ok {
				return codec.Objects{}, false
			}
			objects.Positional = positional
		case namedKey:
			named, ok := member.(map[string]any)
			if !ok {
				return codec.Objects{}, false
			}
			objects.Named = named
		default:
			return codec.Objects{}, false
		}
	}
	return objects, true
}

// fromJSON converts decoded JSON into the values objects are made of:
// integers become int64 (or big.Int past its range), other numbers
// float64, and {"$base64": ...} becomes []byte.
func fromJSON(value any) (any, error) {
	switch value := value.(type) {
	case json.Number:
		return fromNumber(value)

	case []any:
		for index, element := range value {
			converted, err := fromJSON(element)
			if err != nil {
				return nil, err
			}
			value[index] = converted
		}
		return value, nil

	case map[string]any:
		if encoded, ok := value[bytesKey].(string); ok && len(value) == 1 {
			decoded, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("invalid %s value: %w", bytesKey, err)
			}
			return decoded, nil
		}
		for key, member := range value {
			converted, err := fromJSON(member)
			if err != nil {
				return nil, err
			}
			value[key] = converted
		}
		return value, nil

	default:
		return value, nil
	}
}

func fromNumber(number json.Number) (any, error) {
	text := number.String()
	if integer, err := strconv.ParseInt(text, 10, 64); err == nil {
		return integer, nil
	}
	if integer, ok := new(big.Int).SetString(text, 10); ok {
		return *integer, nil
	}
	float, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", text, err)
	}
	return float, nil
}

// toJSON converts a loaded value into something encoding/json renders
// faithfully.
func toJSON(value any) any {
	switch value := value.(type) {
	case codec.Objects:
		positional := make([]any, len(value.Positional))
		for index, element := range value.Positional {
			positional[index] = toJSON(element)
		}
		named := make(map[string]any, len(value.Named))
		for key, member := range value.Named {
			named[key] = toJSON(member)
		}
		return map[string]any{positionalKey: positional, namedKey: named}

	case []byte:
		return map[string]any{bytesKey: base64.StdEncoding.EncodeToString(value)}

	case big.Int:
		return json.Number(value.String())

	case *big.Int:
		return json.Number(value.String())

	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return strconv.FormatFloat(value, 'g', -1, 64)
		}
		return value

	case float32:
		return toJSON(float64(value))

	case cbor.Tag:
		return map[string]any{tagKey: value.Number, tagContentKey: toJSON(value.Content)}

	case []any:
		converted := make([]any, len(value))
		for index, element := range value {
			converted[index] = toJSON(element)
		}
		return converted

	case map[string]any:
		converted := make(map[string]any, len(value))
		for key, member := range value {
			converted[key] = toJSON(member)
		}
		return converted

	case map[any]any:
		// JSON keys are strings; non-string keys are rendered with fmt.
		converted := make(map[string]any, len(value))
		for key, member := range value {
			converted[fmt.Sprint(key)] = toJSON(member)
		}
		return converted

	default:
		return value
	}
}

// writeJSON writes value as indented JSON.
func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toJSON(value))
}

// sortedKeys returns the keys of m in order, for stable output.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
