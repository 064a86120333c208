// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the object encoder of a persisted stream: the
// innermost stage on save and the outermost on load.
//
// Object graphs are encoded as CBOR using Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. The same graph always produces the same
// bytes, so two saves of equal data differ only in the encryption IV.
//
// A persisted stream carries one [Objects] value: the positional
// objects and the named objects of a save call, as a two-element CBOR
// array. Decoding into untyped values yields map[string]any for maps,
// []any for arrays, int64 for integers that fit (big.Int otherwise),
// float64, string, []byte, bool and nil.
//
// [EncodeObjects] and [DecodeObjects] have the pipeline stage shape.
// The whole graph is encoded in one pass: there is no streaming object
// encoder, only a streaming byte path behind it.
package codec
