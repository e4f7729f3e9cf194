// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package merkletree

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func scalarLeaf(v uint64) [32]byte {
	var r [32]byte
	binary.BigEndian.PutUint64(r[24:], v)
	return r
}

func TestDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("equal leaf sequences produce equal trees", prop.ForAll(
		func(leaves []uint64) bool {
			t1, err := New(7)
			if err != nil {
				return false
			}
			t2, err := New(7)
			if err != nil {
				return false
			}
			for _, v := range leaves {
				c1, err1 := t1.Insert(scalarLeaf(v))
				c2, err2 := t2.Insert(scalarLeaf(v))
				if errors.Is(err1, ErrMerkleTreeFull) && errors.Is(err2, ErrMerkleTreeFull) {
					break
				}
				if err1 != nil || err2 != nil || c1 != c2 {
					return false
				}
				if t1.Root() != t2.Root() {
					return false
				}
			}
			return cmp.Diff(t1.Snapshot(), t2.Snapshot()) == ""
		},
		gen.SliceOf(gen.UInt64()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCapacity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)
	properties.Property("a depth-d tree holds exactly 2^d leaves", prop.ForAll(
		func(depth uint32, seed uint64) bool {
			tree, err := New(depth)
			if err != nil {
				return false
			}
			capacity := uint32(1) << depth
			for i := uint32(0); i < capacity; i++ {
				count, err := tree.Insert(scalarLeaf(seed + uint64(i)))
				if err != nil || count != i+1 {
					return false
				}
			}
			_, err = tree.Insert(scalarLeaf(seed))
			return errors.Is(err, ErrMerkleTreeFull)
		},
		gen.UInt32Range(0, 6),
		gen.UInt64(),
	))

	properties.Property("inserted roots stay within the acceptance window", prop.ForAll(
		func(seed uint64) bool {
			tree, err := New(6)
			if err != nil {
				return false
			}
			var roots [][32]byte
			for i := 0; i < MaxDepth; i++ {
				if _, err := tree.Insert(scalarLeaf(seed + uint64(i))); err != nil {
					return false
				}
				roots = append(roots, tree.Root())
			}
			for _, root := range roots {
				if !tree.IsKnownRoot(root) {
					return false
				}
			}
			return !tree.IsKnownRoot([32]byte{})
		},
		gen.UInt64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
