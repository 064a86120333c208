// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package aescbc implements the encryption stage of a persisted stream:
// AES in CBC mode over PKCS7-padded data, with a fresh random IV
// written ahead of the ciphertext.
//
// Wire layout:
//
//	{16-byte IV}{CBC ciphertext of PKCS7(plaintext)}
//
// The ciphertext is not authenticated. Tampering is caught only when it
// breaks the padding or the layers above (decompression, object
// decoding); that is a property of the persisted format and is kept for
// compatibility with existing files.
//
// Keys are 16, 24 or 32 raw bytes, or a passphrase reduced with
// [PassphraseKey] to 32 bytes by a single unsalted SHA-256 pass. The
// passphrase reduction is weak against dictionary attacks and is
// preserved only so existing files stay readable; prefer raw keys.
package aescbc
