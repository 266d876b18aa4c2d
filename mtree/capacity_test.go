package mtree_test

import (
	"testing"

	"github.com/arbor-engine/sequoia/mtree"
	"github.com/stretchr/testify/require"
)

func TestEstimateNodeCount_zero(t *testing.T) {
	t.Parallel()

	require.Zero(t, mtree.EstimateNodeCount(0))
}

func TestEstimateNodeCount_boundHoldsExhaustively(t *testing.T) {
	t.Parallel()

	// The true node count is the sum of the level-size recurrence:
	// a level of k nodes is followed by ceil(k/2) nodes,
	// and a level of one node is the root.
	trueCount := func(leafCount uint64) uint64 {
		var total uint64
		for l := leafCount; l > 0; {
			total += l
			if l == 1 {
				break
			}
			l = (l + 1) / 2
		}
		return total
	}

	// An estimate below the true count would mean
	// out-of-bounds writes during tree construction,
	// so check every leaf count up to 2^16.
	for n := uint64(0); n < 65536; n++ {
		require.GreaterOrEqual(
			t, mtree.EstimateNodeCount(n), trueCount(n),
			"estimate must bound the true node count for %d leaves", n,
		)
	}
}

func TestEstimateNodeCount_isTight(t *testing.T) {
	t.Parallel()

	// The bound only wastes memory when loose,
	// but it should stay within tree-height slack of the truth.
	for _, n := range []uint64{1, 2, 8192, 8193, 65535} {
		var total uint64
		for l := n; l > 0; {
			total += l
			if l == 1 {
				break
			}
			l = (l + 1) / 2
		}

		require.LessOrEqual(t, mtree.EstimateNodeCount(n), total+66)
	}
}
