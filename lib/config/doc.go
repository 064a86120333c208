// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads defaults for the persist command from a YAML
// file.
//
// The file is named by the --config flag or the PERSIST_CONFIG
// environment variable. There is no discovery and no merging of several
// files: command-line flags override what the one file says, and the
// file overrides [Default].
//
// Example:
//
//	compression: fast
//	keys:
//	  key_file: ${HOME}/.config/persist/key
//	pipeline:
//	  channel_budget: 16777216
//	log:
//	  level: info
//
// Paths may reference ${VAR} or ${VAR:-default}; nothing else is
// expanded.
package config
