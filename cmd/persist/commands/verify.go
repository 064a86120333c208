// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/lib/digest"
	"github.com/bureau-foundation/persist/lib/persist"
)

type verifyParams struct {
	configParams
	keyParams
}

func verifyCommand(stdio IO) *cli.Command {
	var params verifyParams
	return &cli.Command{
		Name:    "verify",
		Summary: "Check that streams decode completely",
		Description: `Decode each FILE end to end and report whether it is intact.

Prints one line per file. Exits 1 when any file is corrupt or cannot be
decrypted with the given key.`,
		Usage: "persist verify [flags] FILE...",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("verify", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("usage: persist verify [flags] FILE...")
			}
			return runVerify(stdio, params, args)
		},
	}
}

func runVerify(stdio IO, params verifyParams, paths []string) error {
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
		ChannelBudget: session.config.Pipeline.ChannelBudget,
		Logger:        session.logger,
	}

	failed := 0
	for _, path := range paths {
		objects, err := loadObjects(stdio, path, options)
		switch {
		case err == nil:
			fmt.Fprintf(stdio.Stdout, "ok       %s (%d objects%s)\n", path, objects.Len(), describeDigest(path))
		case errors.Is(err, persist.ErrCorruptStream), errors.Is(err, persist.ErrMissingKey):
			failed++
			fmt.Fprintf(stdio.Stdout, "corrupt  %s: %v\n", path, err)
		default:
			return classify(err)
		}
	}

	if failed > 0 {
		session.logger.Warn("verification failed", "failed", failed, "checked", len(paths))
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// describeDigest returns ", blake3 HEX" for a regular file and "" for
// stdin or a file that cannot be read again.
func describeDigest(path string) string {
	if path == "-" {
		return ""
	}
	sum, _, err := digest.File(path)
	if err != nil {
		return ""
	}
	return ", blake3 " + sum.String()
}
