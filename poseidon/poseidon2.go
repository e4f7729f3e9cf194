// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package poseidon

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
)

const (
	width         = 3
	fullRounds    = 8
	partialRounds = 57
)

// Poseidon2 compresses two BN254 scalar field elements into one by running
// the Poseidon2 permutation on the state (left, right, 0) and keeping the
// first state element.
//
// Poseidon2 round constants differ from the circom-parameter permutation, so
// trees using it are not interoperable with the default empty-subtree table;
// it is meant for deployments that derive their own.
//
// A single instance may be shared between trees; the permutation is guarded
// by a mutex so at most one compression runs on it at a time.
type Poseidon2 struct {
	lock sync.Mutex
	perm *poseidon2.Permutation
}

// NewPoseidon2 returns a Poseidon2 compressor with freshly derived round
// constants.
func NewPoseidon2() *Poseidon2 {
	return &Poseidon2{
		perm: poseidon2.NewPermutation(width, fullRounds, partialRounds),
	}
}

// Compress interprets left and right as big-endian canonical encodings of
// BN254 scalars and returns the big-endian encoding of their compression.
// Non-canonical input (a value not below the field modulus) is rejected.
func (c *Poseidon2) Compress(left, right [32]byte) ([32]byte, error) {
	var state [width]fr.Element
	if err := state[0].SetBytesCanonical(left[:]); err != nil {
		return [32]byte{}, err
	}
	if err := state[1].SetBytesCanonical(right[:]); err != nil {
		return [32]byte{}, err
	}

	c.lock.Lock()
	err := c.perm.Permutation(state[:])
	c.lock.Unlock()
	if err != nil {
		return [32]byte{}, err
	}

	return state[0].Bytes(), nil
}
