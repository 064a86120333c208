// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command persist saves, loads and inspects persisted object streams.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/cmd/persist/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that already reported their outcome return an
		// ExitError; print nothing more for those.
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	return commands.Root(commands.Stdio()).Execute(os.Args[1:])
}
