// Package mtree implements a binary Merkle tree
// over an ordered sequence of opaque byte records.
//
// Build a full tree with [NewTree] to obtain the root digest
// and extract membership proofs for individual records,
// or use [ComputeRoot] when only the root is needed.
// Both agree on every input: levels with an odd number of nodes
// pair the last node with itself to compute its parent.
//
// Leaf and internal-node digests are domain separated through
// the [Hasher] interface, so a leaf's raw bytes can never be
// reinterpreted as a valid internal node or vice versa.
// See [github.com/arbor-engine/sequoia/mtree/mtsha256] for the
// standard SHA-256 implementation.
package mtree
