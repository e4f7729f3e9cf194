// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package merkletree

import "errors"

var (
	// ErrInvalidDepth the requested depth exceeds MaxDepth
	ErrInvalidDepth = errors.New("tree depth exceeds maximum")

	// ErrMerkleTreeFull all 2^depth leaf slots are occupied
	ErrMerkleTreeFull = errors.New("merkle tree is full")

	// ErrInvalidLeaf the leaf is not a canonical big-endian BN254 scalar
	ErrInvalidLeaf = errors.New("leaf is not a canonical field element")

	// ErrInvalidBuffer the serialized bytes are truncated or inconsistent
	ErrInvalidBuffer = errors.New("invalid serialized tree buffer")
)
