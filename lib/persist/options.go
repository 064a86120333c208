// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/persist/lib/aescbc"
	"github.com/bureau-foundation/persist/lib/compression"
	"github.com/bureau-foundation/persist/lib/header"
	"github.com/bureau-foundation/persist/lib/secret"
)

// DefaultChannelBudget is the total capacity shared by the queues of
// one pipeline when the options leave it zero.
const DefaultChannelBudget = 1 << 24

// Key is an optional encryption key. The zero Key means no encryption.
type Key struct {
	material   []byte
	passphrase bool
}

// RawKey uses key directly as the AES key. It must be 16, 24 or 32
// bytes. The slice is copied when a pipeline starts, not before, so it
// must not change while a call is running.
func RawKey(key []byte) Key {
	return Key{material: key}
}

// Passphrase reduces passphrase to an AES-256 key with one unsalted
// SHA-256 pass. There is no salt or work factor, so equal passphrases
// give equal keys and guessing is cheap; use RawKey for new data where
// that matters.
func Passphrase(passphrase string) Key {
	return Key{material: []byte(passphrase), passphrase: true}
}

// IsZero reports whether k carries no key.
func (k Key) IsZero() bool {
	return !k.passphrase && len(k.material) == 0
}

func (k Key) validate() error {
	switch {
	case k.IsZero():
		return nil
	case k.passphrase:
		if len(k.material) == 0 {
			return ErrEmptyPassphrase
		}
		return nil
	default:
		return aescbc.ValidateKey(k.material)
	}
}

// open materializes the AES key in protected memory. It returns nil for
// the zero Key. The caller closes the buffer.
func (k Key) open() (*secret.Buffer, error) {
	if err := k.validate(); err != nil {
		return nil, err
	}
	if k.IsZero() {
		return nil, nil
	}
	if k.passphrase {
		return aescbc.PassphraseKey(k.material)
	}
	return secret.NewFromBytes(bytes.Clone(k.material))
}

// SaveOptions configures Save.
type SaveOptions struct {
	Compression compression.Method

	// LegacyFraming writes fast compression in the old unframed layout.
	// It exists to produce files for older readers and for tests; Load
	// reads both layouts.
	LegacyFraming bool

	Key Key

	// ChannelBudget is the total queue capacity in bytes, split evenly
	// across the queues. Zero means DefaultChannelBudget.
	ChannelBudget int

	// Logger receives debug-level pipeline state transitions. Nil
	// discards them.
	Logger *slog.Logger
}

func (options SaveOptions) validate() error {
	if !options.Compression.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidCompression, options.Compression)
	}
	if options.ChannelBudget < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannelBudget, options.ChannelBudget)
	}
	return options.Key.validate()
}

// flags returns the header for a validated configuration.
func (options SaveOptions) flags() header.Flags {
	var flags header.Flags
	switch options.Compression {
	case compression.Fast:
		flags |= header.FastCompressed
	case compression.Strong:
		flags |= header.StrongCompressed
	}
	if !options.Key.IsZero() {
		flags |= header.Encrypted
	}
	return flags
}

// LoadOptions configures Load and LoadValue.
type LoadOptions struct {
	// Key decrypts encrypted streams. It is ignored for streams that
	// are not encrypted.
	Key Key

	// Safeguard makes LoadValue always return the codec.Objects
	// envelope instead of unwrapping a lone positional object.
	Safeguard bool

	ChannelBudget int
	Logger        *slog.Logger
}

func (options LoadOptions) validate() error {
	if options.ChannelBudget < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannelBudget, options.ChannelBudget)
	}
	return options.Key.validate()
}

func budgetOrDefault(budget int) int {
	if budget == 0 {
		return DefaultChannelBudget
	}
	return budget
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
