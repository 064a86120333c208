// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aescbc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/persist/lib/secret"
)

// IVSize is the length of the IV that precedes the ciphertext.
const IVSize = aes.BlockSize

// chunkSize is how much plaintext or ciphertext each step processes.
// It must stay a multiple of aes.BlockSize.
const chunkSize = 1 << 20

var (
	// ErrInvalidKeyLength means the key is not 16, 24 or 32 bytes.
	ErrInvalidKeyLength = errors.New("aes key must be 16, 24 or 32 bytes")

	// ErrTruncatedStream means the stream ended before a complete IV.
	ErrTruncatedStream = errors.New("encrypted stream is truncated")

	// ErrCorrupt means the ciphertext length or its padding is invalid.
	ErrCorrupt = errors.New("encrypted data is corrupt")
)

// ValidateKey checks the key length without touching any stream.
func ValidateKey(key []byte) error {
	switch len(key) {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}
}

// PassphraseKey reduces a passphrase to a 32-byte AES-256 key with one
// SHA-256 pass and no salt. The returned Buffer must be closed by the
// caller.
func PassphraseKey(passphrase []byte) (*secret.Buffer, error) {
	digest := sha256.Sum256(passphrase)
	return secret.NewFromBytes(digest[:])
}

func newBlock(key *secret.Buffer) (cipher.Block, error) {
	if err := ValidateKey(key.Bytes()); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("creating aes cipher: %w", err)
	}
	return block, nil
}

// Encrypt reads all of source and writes a random IV followed by the
// CBC ciphertext of the PKCS7-padded plaintext. The key is borrowed and
// not closed. An invalid key fails before any I/O.
func Encrypt(key *secret.Buffer, source io.Reader, destination io.Writer) error {
	block, err := newBlock(key)
	if err != nil {
		return err
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return fmt.Errorf("generating iv: %w", err)
	}
	return encrypt(block, iv, source, destination)
}

func encrypt(block cipher.Block, iv []byte, source io.Reader, destination io.Writer) error {
	if _, err := destination.Write(iv); err != nil {
		return fmt.Errorf("writing iv: %w", err)
	}
	mode := cipher.NewCBCEncrypter(block, iv)

	// Room for one full block of padding after a full chunk.
	chunk := make([]byte, chunkSize+aes.BlockSize)
	for {
		count, last, err := readChunk(source, chunk[:chunkSize])
		if err != nil {
			return fmt.Errorf("reading plaintext: %w", err)
		}
		if last {
			count = pad(chunk, count)
		}
		if count > 0 {
			mode.CryptBlocks(chunk[:count], chunk[:count])
			if _, err := destination.Write(chunk[:count]); err != nil {
				return fmt.Errorf("writing ciphertext: %w", err)
			}
		}
		if last {
			return nil
		}
	}
}

// Decrypt reads the IV and ciphertext written by Encrypt and writes the
// plaintext. The key is borrowed and not closed. The final block is
// held back until end-of-stream so its padding can be checked and
// removed.
func Decrypt(key *secret.Buffer, source io.Reader, destination io.Writer) error {
	block, err := newBlock(key)
	if err != nil {
		return err
	}

	iv := make([]byte, IVSize)
	if count, err := io.ReadFull(source, iv); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: iv has %d of %d bytes", ErrTruncatedStream, count, IVSize)
		}
		return fmt.Errorf("reading iv: %w", err)
	}
	mode := cipher.NewCBCDecrypter(block, iv)

	chunk := make([]byte, chunkSize)
	var held [aes.BlockSize]byte
	holding := false
	for {
		count, last, err := readChunk(source, chunk)
		if err != nil {
			return fmt.Errorf("reading ciphertext: %w", err)
		}
		if count%aes.BlockSize != 0 {
			return fmt.Errorf("%w: ciphertext is not a multiple of %d bytes", ErrCorrupt, aes.BlockSize)
		}

		if count > 0 {
			mode.CryptBlocks(chunk[:count], chunk[:count])
			if holding {
				if _, err := destination.Write(held[:]); err != nil {
					return fmt.Errorf("writing plaintext: %w", err)
				}
			}
			if _, err := destination.Write(chunk[:count-aes.BlockSize]); err != nil {
				return fmt.Errorf("writing plaintext: %w", err)
			}
			copy(held[:], chunk[count-aes.BlockSize:count])
			holding = true
		}

		if last {
			break
		}
	}

	if !holding {
		return fmt.Errorf("%w: no ciphertext after the iv", ErrCorrupt)
	}
	plaintext, err := unpad(held[:])
	if err != nil {
		return err
	}
	if _, err := destination.Write(plaintext); err != nil {
		return fmt.Errorf("writing plaintext: %w", err)
	}
	return nil
}

// pad appends PKCS7 padding to buffer[:count] in place and returns the
// padded length. buffer must have aes.BlockSize spare bytes.
func pad(buffer []byte, count int) int {
	padding := aes.BlockSize - count%aes.BlockSize
	for index := count; index < count+padding; index++ {
		buffer[index] = byte(padding)
	}
	return count + padding
}

func unpad(block []byte) ([]byte, error) {
	padding := int(block[len(block)-1])
	if padding == 0 || padding > aes.BlockSize {
		return nil, fmt.Errorf("%w: invalid padding length %d", ErrCorrupt, padding)
	}
	for _, value := range block[len(block)-padding:] {
		if int(value) != padding {
			return nil, fmt.Errorf("%w: invalid padding bytes", ErrCorrupt)
		}
	}
	return block[:len(block)-padding], nil
}

// readChunk fills buffer from source. last reports end-of-stream.
func readChunk(source io.Reader, buffer []byte) (count int, last bool, err error) {
	count, err = io.ReadFull(source, buffer)
	switch {
	case err == nil:
		return count, false, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return count, true, nil
	default:
		return count, false, err
	}
}
