// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the persist binary.
//
// The variables are injected at build time with -ldflags, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/persist/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty is "true" when the tree had uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version, set by hand for releases.
	Version = "0.1.0-dev"
)

// Info returns "VERSION (COMMIT[-dirty], BUILDTIME)".
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full adds the Go toolchain, platform and the versions of the codec
// libraries compiled in, since those determine which streams a binary
// can read.
func Full() string {
	text := fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	for _, dependency := range Codecs() {
		text += fmt.Sprintf("\n  %s: %s", dependency.Path, dependency.Version)
	}
	return text
}

// codecModules are the modules whose versions Full reports.
var codecModules = []string{
	"github.com/fxamacker/cbor/v2",
	"github.com/klauspost/compress",
	"github.com/pierrec/lz4/v4",
}

// Codecs returns the build's versions of the codec modules. It is
// empty when build information is unavailable, as in some test
// binaries.
func Codecs() []debug.Module {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	var modules []debug.Module
	for _, path := range codecModules {
		for _, dependency := range info.Deps {
			if dependency.Path == path {
				modules = append(modules, *dependency)
				break
			}
		}
	}
	return modules
}
