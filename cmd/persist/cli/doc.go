// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the persist binary:
// a tree of [Command] values dispatched by name, with pflag flag sets
// bound from tagged parameter structs, typo suggestions for unknown
// commands and flags, and categorized errors the entry point maps to
// exit codes.
package cli
