// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package merkletree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxSizeBytes(t *testing.T) {
	// interop constant consumed by external allocators
	assert.Equal(t, 4+32*20+32*20+4+4, MaxSizeBytes)
}

func TestToBytesLayout(t *testing.T) {
	tree, err := New(3)
	require.NoError(t, err)
	_, err = tree.Insert(leaf(1))
	require.NoError(t, err)

	data, err := tree.ToBytes()
	require.NoError(t, err)

	// depth | frontier prefix + 3 slots | MaxDepth history slots | cursor | count
	assert.Len(t, data, 4+4+32*3+32*MaxDepth+4+4)
	assert.Equal(t, []byte{3, 0, 0, 0}, data[0:4], "depth, little-endian")
	assert.Equal(t, []byte{3, 0, 0, 0}, data[4:8], "frontier length prefix")
	assert.Equal(t, leaf(1), [32]byte(data[8:40]), "frontier[0]")
}

func TestRoundTrip(t *testing.T) {
	tree, err := New(4)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = tree.Insert(leaf(byte(i + 1)))
		require.NoError(t, err)
	}

	data, err := tree.ToBytes()
	require.NoError(t, err)

	var restored MerkleTree
	n, err := restored.FromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	assert.Empty(t, cmp.Diff(tree.Snapshot(), restored.Snapshot()))

	// the restored tree keeps producing the same roots
	_, err = tree.Insert(leaf(9))
	require.NoError(t, err)
	_, err = restored.Insert(leaf(9))
	require.NoError(t, err)
	assert.Equal(t, tree.Root(), restored.Root())
}

func TestFromBytesRejects(t *testing.T) {
	tree, err := New(2)
	require.NoError(t, err)
	data, err := tree.ToBytes()
	require.NoError(t, err)

	var restored MerkleTree

	_, err = restored.FromBytes(data[:5])
	assert.ErrorIs(t, err, ErrInvalidBuffer)

	_, err = restored.FromBytes(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrInvalidBuffer)

	bad := append([]byte(nil), data...)
	bad[0] = MaxDepth + 1
	_, err = restored.FromBytes(bad)
	assert.ErrorIs(t, err, ErrInvalidDepth)

	bad = append([]byte(nil), data...)
	bad[4] = 7 // frontier prefix no longer matches depth
	_, err = restored.FromBytes(bad)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
}

func TestCBORRoundTrip(t *testing.T) {
	tree, err := New(3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = tree.Insert(leaf(byte(i + 1)))
		require.NoError(t, err)
	}

	data, err := tree.MarshalCBOR()
	require.NoError(t, err)

	var restored MerkleTree
	require.NoError(t, restored.UnmarshalCBOR(data))
	assert.Empty(t, cmp.Diff(tree.Snapshot(), restored.Snapshot()))

	// deterministic encoding: same state, same bytes
	data2, err := restored.MarshalCBOR()
	require.NoError(t, err)
	assert.Equal(t, data, data2)
}

func TestSnapshotIsACopy(t *testing.T) {
	tree, err := New(2)
	require.NoError(t, err)
	_, err = tree.Insert(leaf(1))
	require.NoError(t, err)

	s := tree.Snapshot()
	s.Frontier[0][0] ^= 0xff
	assert.Equal(t, leaf(1), tree.frontier[0], "mutating a snapshot must not touch the tree")
}
