// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package poseidon implements the node compression functions of the
// accumulator over the BN254 scalar field.
//
// The default Compressor is the circom-parameter Poseidon permutation
// (width 3, 8 full rounds, 57 partial rounds, S-box exponent 5) — the
// primitive the deployed verifier and the empty-subtree table were built
// with. A Poseidon2 variant is available for callers that supply their own
// empty-subtree constants.
package poseidon

import (
	"math/big"

	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"
)

// Compressor compresses two BN254 scalars with the circom-parameter Poseidon
// permutation. It is stateless and safe for concurrent use; a single
// Compressor may be shared between trees.
type Compressor struct{}

// New returns the default compressor.
func New() *Compressor {
	return &Compressor{}
}

// Compress interprets left and right as big-endian canonical encodings of
// BN254 scalars and returns the big-endian encoding of their compression.
// Values at or above the field modulus are rejected.
func (c *Compressor) Compress(left, right [32]byte) ([32]byte, error) {
	h, err := iden3poseidon.Hash([]*big.Int{
		new(big.Int).SetBytes(left[:]),
		new(big.Int).SetBytes(right[:]),
	})
	if err != nil {
		return [32]byte{}, err
	}

	var out [32]byte
	h.FillBytes(out[:])
	return out, nil
}
