// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"errors"
	"log/slog"
	"os"

	"github.com/bureau-foundation/persist/cmd/persist/cli"
	"github.com/bureau-foundation/persist/lib/config"
	"github.com/bureau-foundation/persist/lib/persist"
	"github.com/bureau-foundation/persist/lib/secret"
)

// configParams selects the configuration file.
type configParams struct {
	Config   string `flag:"config" desc:"config file (default: $PERSIST_CONFIG, else built-in defaults)"`
	LogLevel string `flag:"log-level" desc:"override the configured log level (debug, info, warn, error)"`
}

// keyParams selects the encryption key. The flags override the
// config's keys section; at most one source may be used.
type keyParams struct {
	KeyFile        string `flag:"key-file" desc:"file holding a raw 16, 24 or 32 byte AES key ('-' for stdin)"`
	PassphraseFile string `flag:"passphrase-file" desc:"file holding a passphrase ('-' for stdin)"`
	Prompt         bool   `flag:"prompt" desc:"prompt for a passphrase on the terminal"`
}

// session is the resolved environment of one command run.
type session struct {
	config *config.Config
	logger *slog.Logger
	key    persist.Key

	// secrets are closed by close once the operation is done.
	secrets []*secret.Buffer
}

// newSession loads configuration and builds the logger.
func newSession(stdio IO, params configParams) (*session, error) {
	var cfg *config.Config
	var err error
	if params.Config != "" {
		cfg, err = config.LoadFile(params.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("config: %w", err)
		}
		return nil, cli.Validation("config: %w", err)
	}

	if params.LogLevel != "" {
		cfg.Log.Level = params.LogLevel
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	return &session{
		config: cfg,
		logger: cli.NewLogger(stdio.Stderr, stdio.Interactive, level),
	}, nil
}

// resolveKey reads the key named by the flags, falling back to the
// config. confirm asks for the passphrase twice when prompting, for
// commands that write.
func (s *session) resolveKey(stdio IO, params keyParams, confirm bool) error {
	sources := 0
	for _, set := range []bool{params.KeyFile != "", params.PassphraseFile != "", params.Prompt} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return cli.Validation("--key-file, --passphrase-file and --prompt are mutually exclusive")
	}

	keyFile, passphraseFile := params.KeyFile, params.PassphraseFile
	if sources == 0 {
		keyFile, passphraseFile = s.config.Keys.KeyFile, s.config.Keys.PassphraseFile
	}

	switch {
	case params.Prompt:
		passphrase, err := promptPassphrase(stdio, confirm)
		if err != nil {
			return err
		}
		s.usePassphrase(passphrase)

	case keyFile != "":
		buffer, err := secret.ReadRawFromPath(keyFile)
		if err != nil {
			return readError("key", err)
		}
		s.secrets = append(s.secrets, buffer)
		s.key = persist.RawKey(buffer.Bytes())

	case passphraseFile != "":
		buffer, err := secret.ReadFromPath(passphraseFile)
		if err != nil {
			return readError("passphrase", err)
		}
		s.usePassphrase(buffer)
	}
	return nil
}

func (s *session) usePassphrase(buffer *secret.Buffer) {
	s.secrets = append(s.secrets, buffer)
	s.key = persist.Passphrase(string(buffer.Bytes()))
}

// close releases every secret the session read.
func (s *session) close() {
	for _, buffer := range s.secrets {
		buffer.Close()
	}
	s.secrets = nil
}

func readError(what string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return cli.NotFound("reading %s: %w", what, err)
	}
	return cli.Validation("reading %s: %w", what, err)
}

func promptPassphrase(stdio IO, confirm bool) (*secret.Buffer, error) {
	if stdio.ReadPassword == nil {
		return nil, cli.Validation("no terminal available for a passphrase prompt (use --passphrase-file)")
	}

	first, err := stdio.ReadPassword("Passphrase: ")
	if err != nil {
		return nil, cli.Internal("reading passphrase: %w", err)
	}
	if confirm {
		second, err := stdio.ReadPassword("Confirm passphrase: ")
		if err != nil {
			secret.Zero(first)
			return nil, cli.Internal("reading passphrase confirmation: %w", err)
		}
		match := bytes.Equal(first, second)
		secret.Zero(second)
		if !match {
			secret.Zero(first)
			return nil, cli.Validation("passphrases do not match")
		}
	}

	buffer, err := secret.NewFromBytes(first)
	if err != nil {
		secret.Zero(first)
		return nil, cli.Internal("protecting passphrase: %w", err)
	}
	return buffer, nil
}

// classify maps an operation error onto a categorized command error.
func classify(err error) error {
	var toolError *cli.ToolError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &toolError):
		return err
	case errors.Is(err, os.ErrNotExist):
		return cli.NotFound("%w", err)
	case errors.Is(err, persist.ErrLocked):
		return cli.Conflict("%w", err).
			WithHint("Another save to the same file is in progress.")
	case errors.Is(err, persist.ErrMissingKey):
		return cli.Validation("%w", err).
			WithHint("Pass --key-file, --passphrase-file or --prompt, or set keys in the config.")
	case errors.Is(err, persist.ErrInvalidKeyLength),
		errors.Is(err, persist.ErrEmptyPassphrase),
		errors.Is(err, persist.ErrInvalidCompression),
		errors.Is(err, persist.ErrInvalidChannelBudget):
		return cli.Validation("%w", err)
	case errors.Is(err, persist.ErrCorruptStream):
		return cli.Corrupt("%w", err)
	default:
		return cli.Internal("%w", err)
	}
}

// budget returns the channel budget flag, or the config's when the
// flag was left at zero.
func (s *session) budget(flag int) int {
	if flag > 0 {
		return flag
	}
	return s.config.Pipeline.ChannelBudget
}
