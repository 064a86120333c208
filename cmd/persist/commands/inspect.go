// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/lib/codec"
	"github.com/bureau-foundation/persist/lib/digest"
	"github.com/bureau-foundation/persist/lib/header"
	"github.com/bureau-foundation/persist/lib/persist"
)

type inspectParams struct {
	configParams
	keyParams
	Diagnose bool   `flag:"diagnose" desc:"decode the stream and print its objects in CBOR diagnostic notation"`
	JSON     bool   `flag:"json" desc:"print the report as JSON"`
	Expect   string `flag:"expect" desc:"exit 1 unless the BLAKE3 digest equals this hex digest"`
}

func inspectCommand(stdio IO) *cli.Command {
	var params inspectParams
	return &cli.Command{
		Name:    "inspect",
		Summary: "Report a stream's header, size and BLAKE3 digest",
		Description: `Report a stream's header flags, size and BLAKE3 digest.

The digest covers the stream exactly as stored, header included, so two
saves of the same objects compare equal when no encryption is used.
With --diagnose the stream is also decoded (encrypted streams need a
key) and each object is printed in CBOR diagnostic notation. With
--expect the command exits 1 after printing the report when the digest
differs.`,
		Usage: "persist inspect [flags] FILE",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("inspect", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: persist inspect [flags] FILE")
			}
			return runInspect(stdio, params, args[0])
		},
	}
}

// inspectReport is the result of inspecting one stream.
type inspectReport struct {
	Path   string        `json:"path"`
	Size   int64         `json:"size"`
	BLAKE3 string        `json:"blake3"`
	Header headerSummary `json:"header"`

	// HeaderError is set when the header byte is missing or invalid.
	HeaderError string `json:"header_error,omitempty"`

	Positional []string          `json:"positional,omitempty"`
	Named      map[string]string `json:"named,omitempty"`
}

func runInspect(stdio IO, params inspectParams, path string) error {
	var expected digest.Digest
	if params.Expect != "" {
		parsed, err := digest.Parse(params.Expect)
		if err != nil {
			return cli.Validation("--expect: %w", err)
		}
		expected = parsed
	}

	var source io.Reader
	if path == "-" {
		source = stdio.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return classify(err)
		}
		defer file.Close()
		source = file
	}

	// Stdin cannot be reopened for --diagnose, so keep a copy.
	var replay *bytes.Buffer
	if params.Diagnose && path == "-" {
		replay = &bytes.Buffer{}
		source = io.TeeReader(source, replay)
	}

	report := inspectReport{Path: path}
	hasher := digest.NewWriter()
	stream := io.TeeReader(source, hasher)

	flags, err := header.Read(stream)
	report.Header = summarize(flags)
	if err != nil {
		report.HeaderError = err.Error()
	}
	if _, err := io.Copy(io.Discard, stream); err != nil {
		return cli.Internal("reading %s: %w", path, err)
	}
	report.Size = hasher.Size()
	report.BLAKE3 = hasher.Sum().String()

	if params.Diagnose {
		if err := diagnose(stdio, params, path, replay, &report); err != nil {
			return err
		}
	}

	if params.JSON {
		if err := writeJSON(stdio.Stdout, report); err != nil {
			return cli.Internal("writing output: %w", err)
		}
	} else {
		printReport(stdio.Stdout, report)
	}

	if params.Expect != "" && hasher.Sum() != expected {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

func diagnose(stdio IO, params inspectParams, path string, replay *bytes.Buffer, report *inspectReport) error {
	if report.HeaderError != "" {
		return cli.Corrupt("%s: %s", path, report.HeaderError)
	}

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
	var objects codec.Objects
	if replay != nil {
		objects, err = persist.Load(replay, options)
	} else {
		objects, err = persist.LoadFile(path, options)
	}
	if err != nil {
		return classify(err)
	}

	for index, object := range objects.Positional {
		notation, err := diagnostic(object)
		if err != nil {
			return cli.Internal("positional object %d: %w", index, err)
		}
		report.Positional = append(report.Positional, notation)
	}
	for _, name := range sortedKeys(objects.Named) {
		notation, err := diagnostic(objects.Named[name])
		if err != nil {
			return cli.Internal("named object %q: %w", name, err)
		}
		if report.Named == nil {
			report.Named = make(map[string]string, len(objects.Named))
		}
		report.Named[name] = notation
	}
	return nil
}

// diagnostic renders one object in CBOR diagnostic notation.
func diagnostic(object any) (string, error) {
	data, err := codec.Marshal(object)
	if err != nil {
		return "", err
	}
	return codec.Diagnose(data)
}

func printReport(w io.Writer, report inspectReport) {
	table := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintf(table, "path\t%s\n", report.Path)
	fmt.Fprintf(table, "size\t%d\n", report.Size)
	fmt.Fprintf(table, "blake3\t%s\n", report.BLAKE3)
	if report.HeaderError != "" {
		fmt.Fprintf(table, "header\tinvalid: %s\n", report.HeaderError)
	} else {
		fmt.Fprintf(table, "header\t%s\n", report.Header.Flags)
	}
	for index, notation := range report.Positional {
		fmt.Fprintf(table, "positional[%d]\t%s\n", index, notation)
	}
	for _, name := range sortedKeys(report.Named) {
		fmt.Fprintf(table, "named[%s]\t%s\n", name, report.Named[name])
	}
	table.Flush()
}
