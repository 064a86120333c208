// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/lib/codec"
	"github.com/bureau-foundation/persist/lib/persist"
)

type loadParams struct {
	configParams
	keyParams
	Safeguard     bool `flag:"safeguard" desc:"always print the positional/named envelope"`
	ChannelBudget int  `flag:"channel-budget" desc:"total bytes buffered between stages (default from config)"`
}

func loadCommand(stdio IO) *cli.Command {
	var params loadParams
	return &cli.Command{
		Name:    "load",
		Summary: "Load a persisted stream and print it as JSON",
		Description: `Load a persisted stream and print its objects as JSON.

Without --safeguard, a stream holding one positional object prints that
object alone and several positional objects print as an array. Streams
with named objects, or any stream under --safeguard, print the
{"positional": [...], "named": {...}} envelope. FILE '-' reads stdin.`,
		Usage: "persist load [flags] FILE",
		Examples: []cli.Example{
			{
				Description: "Load an encrypted stream",
				Command:     "persist load --key-file aes.key state.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("load", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: persist load [flags] FILE")
			}
			return runLoad(stdio, params, args[0])
		},
	}
}

func runLoad(stdio IO, params loadParams, path string) error {
	session, err := newSession(stdio, params.configParams)
	if err != nil {
		return err
	}
	defer session.close()

	if err := session.resolveKey(stdio, params.keyParams, false); err != nil {
		return err
	}

	options := persist.LoadOptions{
		Key:           session.key,
		Safeguard:     params.Safeguard || session.config.Safeguard,
		ChannelBudget: session.budget(params.ChannelBudget),
		Logger:        session.logger,
	}

	value, err := loadValue(stdio, path, options)
	if err != nil {
		return classify(err)
	}
	if err := writeJSON(stdio.Stdout, value); err != nil {
		return cli.Internal("writing output: %w", err)
	}
	return nil
}

func loadValue(stdio IO, path string, options persist.LoadOptions) (any, error) {
	if path == "-" {
		return persist.LoadValue(stdio.Stdin, options)
	}
	return persist.LoadValueFile(path, options)
}

// loadObjects loads the full envelope of the stream at path.
func loadObjects(stdio IO, path string, options persist.LoadOptions) (codec.Objects, error) {
	if path == "-" {
		return persist.Load(stdio.Stdin, options)
	}
	return persist.LoadFile(path, options)
}
