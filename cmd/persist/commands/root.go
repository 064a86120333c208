// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the persist command tree.
package commands

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/lib/version"
)

// IO is the process environment a command tree runs against.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive reports whether Stderr is a terminal; it selects the
	// log format.
	Interactive bool

	// ReadPassword prompts for a secret with echo disabled. Nil means
	// no terminal is available.
	ReadPassword func(prompt string) ([]byte, error)
}

// Stdio returns the IO of the running process.
func Stdio() IO {
	stdio := IO{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: term.IsTerminal(int(os.Stderr.Fd())),
	}
	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		stdio.ReadPassword = func(prompt string) ([]byte, error) {
			fmt.Fprint(os.Stderr, prompt)
			password, err := term.ReadPassword(stdinFd)
			fmt.Fprintln(os.Stderr)
			return password, err
		}
	}
	return stdio
}

// Root returns the persist command tree.
func Root(stdio IO) *cli.Command {
	return &cli.Command{
		Name: "persist",
		Description: `persist: save and load object graphs as compressed, optionally
encrypted streams.

Objects are read from JSON (comments and trailing commas allowed) and
written as CBOR, optionally compressed with LZ4 or zstd and encrypted
with AES-CBC. Every stream starts with a one-byte header naming the
stages applied, so load needs only the key.`,
		HelpOutput: stdio.Stderr,
		Subcommands: []*cli.Command{
			saveCommand(stdio),
			loadCommand(stdio),
			probeCommand(stdio),
			inspectCommand(stdio),
			verifyCommand(stdio),
			keygenCommand(stdio),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					if len(args) > 0 {
						return cli.Validation("usage: persist version")
					}
					fmt.Fprintf(stdio.Stdout, "persist %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
