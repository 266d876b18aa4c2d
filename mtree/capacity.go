package mtree

import "math/bits"

// maxTreeDepth is the deepest tree any leaf count can produce.
// With a 64-bit leaf count, the carry array in [ComputeRoot]
// never indexes past this many levels.
const maxTreeDepth = 64

// nextLevelLen returns the number of nodes in the level
// above a level of levelLen nodes.
// A level of one node is the root and has no level above it.
func nextLevelLen(levelLen int) int {
	if levelLen == 1 {
		return 0
	}
	return (levelLen + 1) / 2
}

// proofLen returns the number of entries in a membership proof
// for a tree of leafCount leaves.
// Every leaf is at level zero, so all proofs for one tree
// have the same length.
func proofLen(leafCount int) int {
	if leafCount <= 1 {
		return 0
	}

	n := 0
	for l := leafCount; l > 0; l = nextLevelLen(l) {
		n++
	}

	// One entry per level transition, and the leaf level contributes none.
	return n - 1
}

// EstimateNodeCount returns an upper bound on the total node count,
// across all levels, of a tree with leafCount leaves.
//
// The worst shape is an almost-balanced tree plus one extra leaf,
// which adds a lone path of roughly tree-height nodes to the root;
// floor(log2 n) + 2n + 1 covers that for every n.
// [NewTree] reserves its backing storage from this bound
// so that construction never reallocates.
func EstimateNodeCount(leafCount uint64) uint64 {
	if leafCount == 0 {
		return 0
	}

	return uint64(bits.Len64(leafCount)-1) + 2*leafCount + 1
}
