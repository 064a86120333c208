// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func testTree(called *string, received *[]string) *Command {
	var params struct {
		Compress string `flag:"compress,c" desc:"compression method" default:"none"`
	}
	record := func(name string) func([]string) error {
		return func(args []string) error {
			*called = name
			*received = args
			return nil
		}
	}
	return &Command{
		Name:       "persist",
		HelpOutput: &bytes.Buffer{},
		Subcommands: []*Command{
			{
				Name: "save",
				Flags: func() *pflag.FlagSet {
					return FlagsFromParams("save", &params)
				},
				Run: func(args []string) error {
					*called = "save:" + params.Compress
					*received = args
					return nil
				},
			},
			{Name: "load", Run: record("load")},
			{
				Name: "key",
				Subcommands: []*Command{
					{Name: "generate", Run: record("key generate")},
				},
			},
		},
	}
}

func TestExecuteDispatch(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCall string
		wantArgs []string
	}{
		{"plain", []string{"load", "data.bin"}, "load", []string{"data.bin"}},
		{"flags parsed", []string{"save", "--compress", "fast", "out.bin"}, "save:fast", []string{"out.bin"}},
		{"shorthand", []string{"save", "-c", "strong", "out.bin"}, "save:strong", []string{"out.bin"}},
		{"default flag", []string{"save", "out.bin"}, "save:none", []string{"out.bin"}},
		{"nested", []string{"key", "generate", "x"}, "key generate", []string{"x"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var called string
			var received []string
			if err := testTree(&called, &received).Execute(test.args); err != nil {
				t.Fatalf("Execute(%q): %v", test.args, err)
			}
			if called != test.wantCall {
				t.Errorf("called %q, want %q", called, test.wantCall)
			}
			if strings.Join(received, " ") != strings.Join(test.wantArgs, " ") {
				t.Errorf("args = %q, want %q", received, test.wantArgs)
			}
		})
	}
}

func TestExecuteUnknownCommandSuggests(t *testing.T) {
	var called string
	var received []string
	err := testTree(&called, &received).Execute([]string{"laod"})
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "load"?`) {
		t.Errorf("error %q has no suggestion", err)
	}
	if CategoryOf(err) != CategoryValidation {
		t.Errorf("category = %q, want validation", CategoryOf(err))
	}
}

func TestExecuteUnknownFlagSuggests(t *testing.T) {
	var called string
	var received []string
	err := testTree(&called, &received).Execute([]string{"save", "--compres", "fast"})
	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --compress?") {
		t.Errorf("error %q has no flag suggestion", err)
	}
	if called != "" {
		t.Errorf("Run was called (%q) despite the flag error", called)
	}
}

func TestExecuteSubcommandRequired(t *testing.T) {
	var called string
	var received []string
	root := testTree(&called, &received)

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Fatalf("Execute(nil) = %v, want subcommand required", err)
	}
	help := root.HelpOutput.(*bytes.Buffer).String()
	if !strings.Contains(help, "Commands:") || !strings.Contains(help, "save") {
		t.Errorf("help output missing command listing:\n%s", help)
	}
}

func TestExecuteHelp(t *testing.T) {
	for _, flag := range []string{"-h", "--help", "help"} {
		t.Run(flag, func(t *testing.T) {
			var called string
			var received []string
			root := testTree(&called, &received)
			if err := root.Execute([]string{"save", flag}); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			help := root.HelpOutput.(*bytes.Buffer).String()
			if !strings.Contains(help, "persist save [flags]") {
				t.Errorf("help does not show the full command path:\n%s", help)
			}
			if !strings.Contains(help, "--compress") {
				t.Errorf("help does not list flags:\n%s", help)
			}
			if called != "" {
				t.Errorf("Run was called for %s", flag)
			}
		})
	}
}

func TestExecutePropagatesRunError(t *testing.T) {
	sentinel := errors.New("boom")
	command := &Command{Name: "fail", Run: func([]string) error { return sentinel }}
	if err := command.Execute(nil); !errors.Is(err, sentinel) {
		t.Errorf("Execute = %v, want the Run error", err)
	}
}

func TestPrintHelpExamples(t *testing.T) {
	command := &Command{
		Name:    "probe",
		Summary: "Print header flags",
		Examples: []Example{
			{Description: "Probe a file", Command: "persist probe data.bin"},
		},
	}
	var output bytes.Buffer
	command.PrintHelp(&output)
	for _, want := range []string{"Print header flags", "Usage:\n  probe [flags]", "# Probe a file", "persist probe data.bin"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("help missing %q:\n%s", want, output.String())
		}
	}
}
