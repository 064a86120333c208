// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/persist/lib/aescbc"
	"github.com/bureau-foundation/persist/lib/codec"
	"github.com/bureau-foundation/persist/lib/compression"
	"github.com/bureau-foundation/persist/lib/header"
	"github.com/bureau-foundation/persist/lib/secret"
)

// Load reads a persisted stream from source and returns its objects.
//
// A fast-compressed stream in the legacy unframed layout is detected on
// its first record and decoded again from the start with the legacy
// decoder. Sources implementing io.Seeker are rewound by seeking; other
// sources are replayed from an in-memory recording of the bytes read
// before the first record decoded.
func Load(source io.Reader, options LoadOptions) (codec.Objects, error) {
	current := newCall(options.Logger, "load")
	current.enter(stateConfiguring)

	if err := options.validate(); err != nil {
		return codec.Objects{}, current.fail(err)
	}
	flags, err := header.Read(source)
	if err != nil {
		return codec.Objects{}, current.fail(fmt.Errorf("%w: %w", ErrCorruptStream, err))
	}
	if flags.Has(header.Encrypted) && options.Key.IsZero() {
		return codec.Objects{}, current.fail(ErrMissingKey)
	}

	var key *secret.Buffer
	if flags.Has(header.Encrypted) {
		key, err = options.Key.open()
		if err != nil {
			return codec.Objects{}, current.fail(err)
		}
		defer key.Close()
	}

	budget := budgetOrDefault(options.ChannelBudget)
	if !flags.Has(header.FastCompressed) {
		current.enter(stateRunning, "flags", flags.String())
		objects, err := decode(flags, key, false, source, nil, budget, current)
		if err != nil {
			return codec.Objects{}, current.fail(fmt.Errorf("%w: %w", ErrCorruptStream, err))
		}
		current.enter(stateSucceeded)
		return objects, nil
	}

	// Only fast compression has a legacy layout to fall back to.
	rewind := newRewinder(source)
	current.enter(stateRunning, "flags", flags.String())
	objects, err := decode(flags, key, false, rewind, rewind.release, budget, current)
	if err == nil {
		current.enter(stateSucceeded)
		return objects, nil
	}
	if !errors.Is(err, compression.ErrLegacyFormat) {
		return codec.Objects{}, current.fail(fmt.Errorf("%w: %w", ErrCorruptStream, err))
	}

	current.enter(stateRetryingLegacy, "cause", err)
	replay, rewindErr := rewind.rewind()
	if rewindErr != nil {
		return codec.Objects{}, current.fail(fmt.Errorf("%w: rewinding for legacy layout: %w", ErrCorruptStream, rewindErr))
	}
	current.enter(stateRunning, "flags", flags.String(), "legacy", true)
	objects, err = decode(flags, key, true, replay, nil, budget, current)
	if err != nil {
		return codec.Objects{}, current.fail(fmt.Errorf("%w: legacy layout: %w", ErrCorruptStream, err))
	}
	current.enter(stateSucceeded)
	return objects, nil
}

// LoadValue loads a stream and, unless options.Safeguard is set,
// unwraps it with codec.Objects.Unwrap: a lone positional object comes
// back as itself. With Safeguard, or when named objects are present,
// the result is the codec.Objects value.
func LoadValue(source io.Reader, options LoadOptions) (any, error) {
	objects, err := Load(source, options)
	if err != nil {
		return nil, err
	}
	if options.Safeguard {
		return objects, nil
	}
	return objects.Unwrap(), nil
}

// Probe reads only the header byte of source.
func Probe(source io.Reader) (header.Flags, error) {
	flags, err := header.Read(source)
	if err != nil {
		return flags, fmt.Errorf("%w: %w", ErrCorruptStream, err)
	}
	return flags, nil
}

// decode runs one decode pass over source.
func decode(flags header.Flags, key *secret.Buffer, legacy bool, source io.Reader,
	onFirstBlock func(), budget int, current *call) (codec.Objects, error) {

	var objects codec.Objects
	line := &pipeline{
		stages: loadStages(flags, key, legacy, onFirstBlock, &objects),
		budget: budget,
		logger: current.logger,
	}
	if err := line.run(source, nil); err != nil {
		return codec.Objects{}, err
	}
	return objects, nil
}

// loadStages is the reverse of saveStages. When both compression bits
// are set, strong was applied last on save and is undone first.
func loadStages(flags header.Flags, key *secret.Buffer, legacy bool, onFirstBlock func(), result *codec.Objects) []stage {
	var stages []stage

	if flags.Has(header.Encrypted) {
		stages = append(stages, stage{
			name: "decrypt",
			run: func(source io.Reader, destination io.Writer) error {
				return aescbc.Decrypt(key, source, destination)
			},
		})
	}
	if flags.Has(header.StrongCompressed) {
		stages = append(stages, stage{name: "strong decompress", run: compression.StrongDecode})
	}
	if flags.Has(header.FastCompressed) {
		if legacy {
			stages = append(stages, stage{name: "legacy fast decompress", run: compression.LegacyDecode})
		} else {
			decoder := compression.FastDecoder{OnFirstBlock: onFirstBlock}
			stages = append(stages, stage{name: "fast decompress", run: decoder.Decode})
		}
	}

	stages = append(stages, stage{
		name: "decode objects",
		run: func(source io.Reader, _ io.Writer) error {
			objects, err := codec.DecodeObjects(source)
			if err != nil {
				return err
			}
			*result = objects
			return nil
		},
	})
	return stages
}
