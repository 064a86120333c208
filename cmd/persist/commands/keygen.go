// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"crypto/rand"
	"errors"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/lib/secret"
)

type keygenParams struct {
	Size  int  `flag:"size" desc:"key size in bytes: 16, 24 or 32" default:"32"`
	Force bool `flag:"force" desc:"overwrite an existing key file"`
}

func keygenCommand(stdio IO) *cli.Command {
	var params keygenParams
	return &cli.Command{
		Name:    "keygen",
		Summary: "Write a random AES key file for --key-file",
		Description: `Write a random raw AES key to FILE with mode 0600.

The file refuses to be overwritten unless --force is given, since a
replaced key makes every stream saved with the old one unreadable.`,
		Usage: "persist keygen [flags] FILE",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("keygen", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: persist keygen [flags] FILE")
			}
			return runKeygen(params, args[0])
		},
	}
}

func runKeygen(params keygenParams, path string) error {
	switch params.Size {
	case 16, 24, 32:
	default:
		return cli.Validation("--size must be 16, 24 or 32, got %d", params.Size)
	}
	key, err := secret.New(params.Size)
	if err != nil {
		return cli.Internal("allocating key: %w", err)
	}
	defer key.Close()
	if _, err := rand.Read(key.Bytes()); err != nil {
		return cli.Internal("generating key: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if params.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return cli.Conflict("%s already exists", path).WithHint("Pass --force to replace it.")
		}
		return cli.Internal("creating %s: %w", path, err)
	}
	if _, err := file.Write(key.Bytes()); err != nil {
		file.Close()
		return cli.Internal("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return cli.Internal("closing %s: %w", path, err)
	}
	return nil
}

