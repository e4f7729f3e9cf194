// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package hash gathers the 2-to-1 compression functions usable as the node
// combiner of the accumulator. The structure of the package is similar to what
// can be found in golang's crypto/ package.
package hash

import (
	"github.com/voidify/accumulator/poseidon"
)

// Compressor is a deterministic 2-to-1 compression function over 32-byte
// big-endian encodings of BN254 scalar field elements. It is the only
// primitive the tree consumes; behavior on non-canonical inputs is defined by
// the implementation, which is expected to reject them with an error.
type Compressor interface {
	Compress(left, right [32]byte) ([32]byte, error)
}

type Hash uint

const (
	// POSEIDON_BN254 is the circom-parameter Poseidon the deployed verifier
	// and the empty-subtree table use; it is the tree default.
	POSEIDON_BN254 Hash = iota
	// POSEIDON2_BN254 uses different round constants and requires its own
	// empty-subtree table.
	POSEIDON2_BN254
)

// New creates the corresponding compression function.
func (m Hash) New() Compressor {
	switch m {
	case POSEIDON_BN254:
		return poseidon.New()
	case POSEIDON2_BN254:
		return poseidon.NewPoseidon2()
	default:
		panic("unknown hash ID")
	}
}

// String returns the hash ID in string format.
func (m Hash) String() string {
	switch m {
	case POSEIDON_BN254:
		return "POSEIDON_BN254"
	case POSEIDON2_BN254:
		return "POSEIDON2_BN254"
	default:
		panic("unknown hash ID")
	}
}

// Size returns the size of the digest of the corresponding hash function.
func (m Hash) Size() int {
	return 32
}
