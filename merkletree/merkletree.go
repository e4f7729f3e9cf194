// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package merkletree

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/voidify/accumulator/hash"
	"github.com/voidify/accumulator/logger"
)

// MaxDepth bounds the configurable tree depth and fixes the capacity of the
// root history, independently of the configured depth.
const MaxDepth = 20

// MerkleTree is the accumulator state. It carries no internal
// synchronization: callers must serialize Insert; IsKnownRoot is safe to call
// concurrently with itself but not with a concurrent Insert on the same tree.
type MerkleTree struct {
	depth uint32

	// frontier[i] is the most recently completed left node hash at level i,
	// still awaiting its right sibling.
	frontier [][32]byte

	rootHistory   [MaxDepth][32]byte
	historyCursor uint32
	leafCount     uint32

	h hash.Compressor
}

// Option configures a MerkleTree at construction.
type Option func(*MerkleTree)

// WithCompressor sets the node compression function. The default is the
// circom-parameter Poseidon the empty-subtree table was derived with; a
// single compressor may be shared across trees. Injecting a different
// primitive forfeits interop with the deployed verifier's zero constants.
func WithCompressor(h hash.Compressor) Option {
	return func(t *MerkleTree) {
		t.h = h
	}
}

// New creates an empty tree of the given depth, 0 <= depth <= MaxDepth.
//
// The frontier is seeded with the empty-subtree values and history slot 0
// holds the empty tree's root, so a proof against the pristine tree verifies.
func New(depth uint32, opts ...Option) (*MerkleTree, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidDepth, depth, MaxDepth)
	}

	t := &MerkleTree{
		depth:    depth,
		frontier: make([][32]byte, depth),
	}
	for i := uint32(0); i < depth; i++ {
		t.frontier[i] = zeroValue(i)
	}

	// The deployed verifier seeds the history with zeroValue(depth-1), not
	// zeroValue(depth); kept as-is for interop. A depth-0 tree has no
	// level below the root and seeds the leaf-level placeholder instead.
	if depth == 0 {
		t.rootHistory[0] = zeroValue(0)
	} else {
		t.rootHistory[0] = zeroValue(depth - 1)
	}

	for _, opt := range opts {
		opt(t)
	}
	if t.h == nil {
		t.h = hash.POSEIDON_BN254.New()
	}

	log := logger.Logger()
	log.Debug().Uint32("depth", depth).Msg("new merkle tree")

	return t, nil
}

// Depth returns the configured tree depth.
func (t *MerkleTree) Depth() uint32 {
	return t.depth
}

// LeafCount returns the number of leaves inserted so far.
func (t *MerkleTree) LeafCount() uint32 {
	return t.leafCount
}

// Root returns the most recently produced root.
func (t *MerkleTree) Root() [32]byte {
	return t.rootHistory[t.historyCursor]
}

// Insert appends a leaf and returns the updated leaf count. Note that this is
// the count of leaves now in the tree, one more than the zero-based index the
// leaf was inserted at; callers relying on the index must subtract one. The
// contract is kept for compatibility with the deployed verifier.
//
// The leaf must be a canonical big-endian BN254 scalar; anything else is
// rejected with ErrInvalidLeaf. On any error the tree is left unchanged.
func (t *MerkleTree) Insert(leaf [32]byte) (uint32, error) {
	if t.leafCount == 1<<t.depth {
		return 0, ErrMerkleTreeFull
	}

	var el fr.Element
	if err := el.SetBytesCanonical(leaf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLeaf, err)
	}

	index := t.leafCount
	current := leaf

	// Frontier writes are staged and committed only once the full path has
	// been hashed, so a failing compressor cannot leave a half-updated tree.
	staged := make([][32]byte, t.depth)
	copy(staged, t.frontier)

	for i := uint32(0); i < t.depth; i++ {
		var left, right [32]byte
		if index%2 == 0 {
			// left child; the right sibling does not exist yet, the tree
			// fills strictly left to right
			left, right = current, zeroValue(i)
		} else {
			// right child; the left sibling was recorded when the matching
			// even insertion completed this level
			left, right = staged[i], current
		}

		var err error
		current, err = t.h.Compress(left, right)
		if err != nil {
			return 0, err
		}

		staged[i] = left
		index /= 2
	}

	copy(t.frontier, staged)
	t.historyCursor = (t.historyCursor + 1) % MaxDepth
	t.rootHistory[t.historyCursor] = current
	t.leafCount++

	return t.leafCount, nil
}

// IsKnownRoot reports whether candidate is one of the most recent MaxDepth
// roots. The all-zero value is never known, even though it is the literal
// content of an unwritten history slot; this prevents forging validity
// against an uninitialized slot.
func (t *MerkleTree) IsKnownRoot(candidate [32]byte) bool {
	if candidate == [32]byte{} {
		return false
	}

	i := t.historyCursor
	for range MaxDepth {
		if t.rootHistory[i] == candidate {
			return true
		}
		if i == 0 {
			i = MaxDepth - 1
		} else {
			i--
		}
	}

	return false
}
