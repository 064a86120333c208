// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/lib/header"
	"github.com/bureau-foundation/persist/lib/persist"
)

type probeParams struct {
	JSON bool `flag:"json" desc:"print the flags as a JSON object"`
}

func probeCommand(stdio IO) *cli.Command {
	var params probeParams
	return &cli.Command{
		Name:    "probe",
		Summary: "Print the stages recorded in a stream's header",
		Description: `Print the stages recorded in a stream's one-byte header without
decoding the stream or needing its key. FILE '-' reads stdin.`,
		Usage: "persist probe [flags] FILE",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("probe", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: persist probe [flags] FILE")
			}
			return runProbe(stdio, params, args[0])
		},
	}
}

// headerSummary is the JSON form of a header.
type headerSummary struct {
	Flags            string `json:"flags"`
	FastCompressed   bool   `json:"fast_compressed"`
	StrongCompressed bool   `json:"strong_compressed"`
	Encrypted        bool   `json:"encrypted"`
}

func summarize(flags header.Flags) headerSummary {
	return headerSummary{
		Flags:            flags.String(),
		FastCompressed:   flags.Has(header.FastCompressed),
		StrongCompressed: flags.Has(header.StrongCompressed),
		Encrypted:        flags.Has(header.Encrypted),
	}
}

func runProbe(stdio IO, params probeParams, path string) error {
	var flags header.Flags
	var err error
	if path == "-" {
		flags, err = persist.Probe(stdio.Stdin)
	} else {
		flags, err = persist.ProbeFile(path)
	}
	if err != nil {
		return classify(err)
	}

	if params.JSON {
		if err := writeJSON(stdio.Stdout, summarize(flags)); err != nil {
			return cli.Internal("writing output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(stdio.Stdout, flags)
	return nil
}
