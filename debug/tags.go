// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

//go:build !debug

// Package debug exposes the build-time debug flag.
//
// Building with the "debug" tag keeps the logger active under `go test` and
// enables extra sanity checks.
package debug

// Debug is true when the debug build tag is set.
const Debug = false
