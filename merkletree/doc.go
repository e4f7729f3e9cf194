// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package merkletree maintains a fixed-depth, append-only binary Merkle
// accumulator over 32-byte field-element commitments.
//
// Insertion recomputes only the path from the new leaf to the root, using a
// precomputed empty-subtree table for siblings that have not been populated
// yet. The most recent roots are kept in a fixed-capacity circular history so
// that proofs generated against a slightly stale root are still accepted by
// IsKnownRoot.
//
// The tree does not generate or verify membership proofs and does not support
// deletion or update; it exposes exactly the root bookkeeping an external
// prover/verifier needs. The serialized layout mirrors the on-chain account
// format consumed by the deployed verifier and must not be changed.
package merkletree
