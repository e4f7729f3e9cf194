// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package merkletree

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/voidify/accumulator/hash"
	"github.com/voidify/accumulator/logger"
)

// MaxSizeBytes is the allocation bound external storage uses for a serialized
// tree: depth + frontier + root history + cursor + leaf count. The constant
// is part of the interop contract and intentionally mirrors the deployed
// verifier's arithmetic, which does not count the frontier length prefix.
const MaxSizeBytes = 4 + 32*MaxDepth + 32*MaxDepth + 4 + 4

// ToBytes serializes the tree to the fixed account layout, little-endian:
// depth, length-prefixed frontier (length == depth), the full MaxDepth-slot
// root history with no prefix, history cursor, leaf count.
func (t *MerkleTree) ToBytes() ([]byte, error) {
	buf := make([]byte, 0, MaxSizeBytes+4)

	buf = binary.LittleEndian.AppendUint32(buf, t.depth)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.frontier)))
	for i := range t.frontier {
		buf = append(buf, t.frontier[i][:]...)
	}
	for i := range t.rootHistory {
		buf = append(buf, t.rootHistory[i][:]...)
	}
	buf = binary.LittleEndian.AppendUint32(buf, t.historyCursor)
	buf = binary.LittleEndian.AppendUint32(buf, t.leafCount)

	return buf, nil
}

// FromBytes deserializes a tree from the fixed account layout and returns the
// number of bytes read. The receiver's compressor is kept if already set,
// otherwise the default Poseidon BN254 compressor is installed.
func (t *MerkleTree) FromBytes(data []byte) (int, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("%w: missing header", ErrInvalidBuffer)
	}

	depth := binary.LittleEndian.Uint32(data[0:4])
	if depth > MaxDepth {
		return 0, fmt.Errorf("%w: %d > %d", ErrInvalidDepth, depth, MaxDepth)
	}
	frontierLen := binary.LittleEndian.Uint32(data[4:8])
	if frontierLen != depth {
		return 0, fmt.Errorf("%w: frontier length %d does not match depth %d", ErrInvalidBuffer, frontierLen, depth)
	}

	n := 8 + 32*int(depth) + 32*MaxDepth + 8
	if len(data) < n {
		return 0, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidBuffer, len(data), n)
	}

	cursor := binary.LittleEndian.Uint32(data[n-8 : n-4])
	leafCount := binary.LittleEndian.Uint32(data[n-4 : n])
	if cursor >= MaxDepth {
		return 0, fmt.Errorf("%w: history cursor %d out of range", ErrInvalidBuffer, cursor)
	}
	if uint64(leafCount) > 1<<depth {
		return 0, fmt.Errorf("%w: leaf count %d exceeds capacity", ErrInvalidBuffer, leafCount)
	}

	t.depth = depth
	t.frontier = make([][32]byte, depth)
	offset := 8
	for i := range t.frontier {
		copy(t.frontier[i][:], data[offset:offset+32])
		offset += 32
	}
	for i := range t.rootHistory {
		copy(t.rootHistory[i][:], data[offset:offset+32])
		offset += 32
	}
	t.historyCursor = cursor
	t.leafCount = leafCount
	offset += 8

	if t.h == nil {
		t.h = hash.POSEIDON_BN254.New()
	}

	log := logger.Logger()
	log.Debug().
		Uint32("depth", depth).
		Uint32("leafCount", t.leafCount).
		Msg("merkle tree deserialized")

	return offset, nil
}

// Snapshot is a point-in-time copy of the tree state with exported fields,
// used for the CBOR diagnostic encoding and for state comparison in tooling.
// It is deliberately distinct from the fixed account layout.
type Snapshot struct {
	Depth         uint32
	Frontier      [][]byte
	RootHistory   [][]byte
	HistoryCursor uint32
	LeafCount     uint32
}

// Snapshot copies the tree state.
func (t *MerkleTree) Snapshot() *Snapshot {
	s := &Snapshot{
		Depth:         t.depth,
		Frontier:      make([][]byte, len(t.frontier)),
		RootHistory:   make([][]byte, MaxDepth),
		HistoryCursor: t.historyCursor,
		LeafCount:     t.leafCount,
	}
	for i := range t.frontier {
		s.Frontier[i] = append([]byte(nil), t.frontier[i][:]...)
	}
	for i := range t.rootHistory {
		s.RootHistory[i] = append([]byte(nil), t.rootHistory[i][:]...)
	}
	return s
}

// MarshalCBOR encodes a Snapshot of the tree with deterministic CBOR.
func (t *MerkleTree) MarshalCBOR() ([]byte, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return enc.Marshal(t.Snapshot())
}

// UnmarshalCBOR restores the tree from a Snapshot encoding, validating the
// same invariants as FromBytes.
func (t *MerkleTree) UnmarshalCBOR(data []byte) error {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.restore(&s)
}

func (t *MerkleTree) restore(s *Snapshot) error {
	if s.Depth > MaxDepth {
		return fmt.Errorf("%w: %d > %d", ErrInvalidDepth, s.Depth, MaxDepth)
	}
	if uint32(len(s.Frontier)) != s.Depth {
		return fmt.Errorf("%w: frontier length %d does not match depth %d", ErrInvalidBuffer, len(s.Frontier), s.Depth)
	}
	if len(s.RootHistory) != MaxDepth {
		return fmt.Errorf("%w: root history has %d slots, want %d", ErrInvalidBuffer, len(s.RootHistory), MaxDepth)
	}
	if s.HistoryCursor >= MaxDepth {
		return fmt.Errorf("%w: history cursor %d out of range", ErrInvalidBuffer, s.HistoryCursor)
	}
	if uint64(s.LeafCount) > 1<<s.Depth {
		return fmt.Errorf("%w: leaf count %d exceeds capacity", ErrInvalidBuffer, s.LeafCount)
	}

	t.depth = s.Depth
	t.frontier = make([][32]byte, s.Depth)
	for i := range t.frontier {
		if len(s.Frontier[i]) != 32 {
			return fmt.Errorf("%w: frontier entry %d has %d bytes", ErrInvalidBuffer, i, len(s.Frontier[i]))
		}
		copy(t.frontier[i][:], s.Frontier[i])
	}
	for i := range t.rootHistory {
		if len(s.RootHistory[i]) != 32 {
			return fmt.Errorf("%w: history slot %d has %d bytes", ErrInvalidBuffer, i, len(s.RootHistory[i]))
		}
		copy(t.rootHistory[i][:], s.RootHistory[i])
	}
	t.historyCursor = s.HistoryCursor
	t.leafCount = s.LeafCount

	if t.h == nil {
		t.h = hash.POSEIDON_BN254.New()
	}
	return nil
}
