package mtree

import "math/bits"

// ComputeRoot returns the root digest for the given records,
// or nil if records is empty,
// without materializing any intermediate tree level.
//
// It folds leaves incrementally the way a binary counter carries:
// one pending subtree digest per level, at most [maxTreeDepth] of them,
// so auxiliary storage is logarithmic in the record count
// where [NewTree] is linear.
// A finishing pass merges the pending partial subtrees
// with the same duplicate-last pairing that NewTree applies,
// so for every input ComputeRoot equals NewTree(records, cfg).Root().
//
// The returned digest is freshly allocated and owned by the caller.
func ComputeRoot(records [][]byte, cfg TreeConfig) []byte {
	cfg.validate()

	if len(records) == 0 {
		return nil
	}

	sz := cfg.HashSize

	// One pending subtree digest per level,
	// all views into a single zero-initialized backing allocation.
	// pending[k], when live, is the root of a complete subtree
	// of 2^k leaves waiting for its right-hand counterpart.
	mem := make([]byte, maxTreeDepth*sz)
	pending := make([][]byte, maxTreeDepth)
	for i := range pending {
		pending[i] = mem[i*sz : (i+1)*sz]
	}

	// cur and spare ping-pong as fold output buffers,
	// since a fold reads cur while writing its result.
	cur := make([]byte, sz)
	spare := make([]byte, sz)

	var count uint64
	for _, rec := range records {
		cfg.Hasher.Leaf(rec, cur[:0])
		count++

		// Each cleared low bit of the running count means
		// a pair at that level just completed:
		// the pending digest is the left child, cur the right.
		layer := 0
		for c := count; c&1 == 0; c >>= 1 {
			cfg.Hasher.Node(pending[layer], cur, spare[:0])
			cur, spare = spare, cur
			layer++
		}

		copy(pending[layer], cur)
	}

	if count&(count-1) == 0 {
		// Power-of-two count: the single pending subtree is the root.
		root := make([]byte, sz)
		copy(root, pending[bits.TrailingZeros64(count)])
		return root
	}

	// Merge the pending partial subtrees bottom-up.
	// layerCount tracks how many subtrees of the current level's span
	// remain to be merged; when it is odd,
	// the carried digest is the level's odd tail and pairs with itself.
	layer := bits.TrailingZeros64(count)
	layerCount := count >> layer

	copy(cur, pending[layer])
	for layerCount > 1 {
		if layerCount&1 == 1 {
			cfg.Hasher.Node(cur, cur, spare[:0])
		} else {
			cfg.Hasher.Node(pending[layer], cur, spare[:0])
		}
		cur, spare = spare, cur

		layer++
		layerCount = (layerCount + 1) >> 1
	}

	return cur
}
