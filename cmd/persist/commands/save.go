// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/lib/compression"
	"github.com/bureau-foundation/persist/lib/persist"
)

type saveParams struct {
	configParams
	keyParams
	Compress      string `flag:"compress,c" desc:"compression: none, fast or strong (default from config)"`
	LegacyFraming bool   `flag:"legacy-framing" desc:"write fast compression in the old unframed layout"`
	ChannelBudget int    `flag:"channel-budget" desc:"total bytes buffered between stages (default from config)"`
}

func saveCommand(stdio IO) *cli.Command {
	var params saveParams
	return &cli.Command{
		Name:    "save",
		Summary: "Save a JSON document as a persisted stream",
		Description: `Save a JSON document as a persisted stream.

The document is read from INPUT, or stdin when INPUT is omitted or '-'.
A top-level object with only "positional" and "named" keys names both
kinds of objects; anything else is saved as a single positional object.
OUTPUT '-' writes the stream to stdout; otherwise the file is replaced
atomically.`,
		Usage: "persist save [flags] OUTPUT [INPUT]",
		Examples: []cli.Example{
			{
				Description: "Save with fast compression and a passphrase",
				Command:     "persist save --compress fast --passphrase-file pass.txt state.bin state.json",
			},
			{
				Description: "Save from a pipe with strong compression",
				Command:     "generate-state | persist save -c strong state.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("save", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return cli.Validation("usage: persist save [flags] OUTPUT [INPUT]")
			}
			output, input := args[0], ""
			if len(args) == 2 {
				input = args[1]
			}
			return runSave(stdio, params, output, input)
		},
	}
}

func runSave(stdio IO, params saveParams, output, input string) error {
	session, err := newSession(stdio, params.configParams)
	if err != nil {
		return err
	}
	defer session.close()

	method := session.config.Compression
	if params.Compress != "" {
		method, err = compression.ParseMethod(params.Compress)
		if err != nil {
			return cli.Validation("--compress: %w", err)
		}
	}
	if err := session.resolveKey(stdio, params.keyParams, true); err != nil {
		return err
	}

	data, err := readDocument(stdio, input)
	if err != nil {
		return classify(err)
	}
	objects, err := parseDocument(data)
	if err != nil {
		return cli.Validation("%w", err)
	}

	options := persist.SaveOptions{
		Compression:   method,
		LegacyFraming: params.LegacyFraming,
		Key:           session.key,
		ChannelBudget: session.budget(params.ChannelBudget),
		Logger:        session.logger,
	}
	if output == "-" {
		err = persist.Save(stdio.Stdout, objects, options)
	} else {
		err = persist.SaveFile(output, objects, options)
	}
	if err != nil {
		return classify(err)
	}

	session.logger.Info("saved",
		"path", output,
		"compression", method.String(),
		"encrypted", !session.key.IsZero(),
		"positional", len(objects.Positional),
		"named", len(objects.Named),
	)
	return nil
}
