// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"io"

	"github.com/bureau-foundation/persist/lib/aescbc"
	"github.com/bureau-foundation/persist/lib/codec"
	"github.com/bureau-foundation/persist/lib/compression"
	"github.com/bureau-foundation/persist/lib/header"
	"github.com/bureau-foundation/persist/lib/secret"
)

// Save writes objects to destination as a persisted stream. Options are
// validated before the header byte is written, so an invalid key or
// compression method leaves destination untouched.
func Save(destination io.Writer, objects codec.Objects, options SaveOptions) error {
	current := newCall(options.Logger, "save")
	current.enter(stateConfiguring)

	if err := options.validate(); err != nil {
		return current.fail(err)
	}
	key, err := options.Key.open()
	if err != nil {
		return current.fail(err)
	}
	if key != nil {
		defer key.Close()
	}

	flags := options.flags()
	if err := header.Write(destination, flags); err != nil {
		return current.fail(err)
	}

	line := &pipeline{
		stages: saveStages(objects, options, key),
		budget: budgetOrDefault(options.ChannelBudget),
		logger: current.logger,
	}
	current.enter(stateRunning, "flags", flags.String(), "stages", len(line.stages))
	if err := line.run(nil, destination); err != nil {
		return current.fail(err)
	}
	current.enter(stateSucceeded)
	return nil
}

func saveStages(objects codec.Objects, options SaveOptions, key *secret.Buffer) []stage {
	stages := []stage{{
		name: "encode objects",
		run: func(_ io.Reader, destination io.Writer) error {
			return codec.EncodeObjects(objects, destination)
		},
	}}

	switch options.Compression {
	case compression.Fast:
		if options.LegacyFraming {
			stages = append(stages, stage{name: "legacy fast compress", run: compression.LegacyEncode})
		} else {
			stages = append(stages, stage{name: "fast compress", run: compression.FastEncode})
		}
	case compression.Strong:
		stages = append(stages, stage{name: "strong compress", run: compression.StrongEncode})
	}

	if key != nil {
		stages = append(stages, stage{
			name: "encrypt",
			run: func(source io.Reader, destination io.Writer) error {
				return aescbc.Encrypt(key, source, destination)
			},
		})
	}
	return stages
}
