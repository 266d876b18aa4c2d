package mtree_test

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/arbor-engine/sequoia/internal/stest"
	"github.com/arbor-engine/sequoia/mtree"
	"github.com/stretchr/testify/require"
)

func TestTree_empty_rootAbsent(t *testing.T) {
	t.Parallel()

	tree := mtree.NewTree(nil, sha256Config())

	require.Nil(t, tree.Root())
	require.Zero(t, tree.LeafCount())

	_, err := tree.ProofAt(0)
	var re mtree.RangeError
	require.ErrorAs(t, err, &re)
}

func TestTree_singleLeaf_rootIsLeafDigest(t *testing.T) {
	t.Parallel()

	tree := mtree.NewTree([][]byte{[]byte("test")}, sha256Config())

	exp := sha256.Sum256([]byte("\x00test"))
	require.Equal(t, exp[:], tree.Root())

	// No internal nodes, so the proof discloses nothing;
	// the caller compares root to candidate directly.
	proof, err := tree.ProofAt(0)
	require.NoError(t, err)
	require.Zero(t, proof.Len())
	require.True(t, proof.Verify(exp[:]))
}

func TestTree_goldenRoot(t *testing.T) {
	t.Parallel()

	tree := mtree.NewTree(goldenRecords, sha256Config())

	exp, err := hex.DecodeString(goldenRootHex)
	require.NoError(t, err)
	require.Equal(t, exp, tree.Root())
}

func TestTree_simplified_3_leaves(t *testing.T) {
	t.Parallel()

	/* Tree structure:

	0122
	01 22
	0 1 2      <- the lone 2 pairs with itself

	*/

	tree := mtree.NewTree([][]byte{
		[]byte("zero"),
		[]byte("one"),
		[]byte("two"),
	}, fnv32Config())

	expLeaf0 := fnv32Hash("zero")
	expLeaf1 := fnv32Hash("one")
	expLeaf2 := fnv32Hash("two")

	expNode01 := fnv32Hash(string(expLeaf0) + string(expLeaf1))
	expNode22 := fnv32Hash(string(expLeaf2) + string(expLeaf2))

	expRoot := fnv32Hash(string(expNode01) + string(expNode22))
	require.Equal(t, expRoot, tree.Root())
}

func TestTree_simplified_4_leaves(t *testing.T) {
	t.Parallel()

	tree := mtree.NewTree([][]byte{
		[]byte("zero"),
		[]byte("one"),
		[]byte("two"),
		[]byte("three"),
	}, fnv32Config())

	expNode01 := fnv32Hash(string(fnv32Hash("zero")) + string(fnv32Hash("one")))
	expNode23 := fnv32Hash(string(fnv32Hash("two")) + string(fnv32Hash("three")))

	expRoot := fnv32Hash(string(expNode01) + string(expNode23))
	require.Equal(t, expRoot, tree.Root())
}

func TestTree_simplified_5_leaves(t *testing.T) {
	t.Parallel()

	/* Tree structure:

	01234444
	0123 4444
	01 23 44
	0 1 2 3 4  <- the lone 4 pairs with itself, twice

	*/

	tree := mtree.NewTree([][]byte{
		[]byte("zero"),
		[]byte("one"),
		[]byte("two"),
		[]byte("three"),
		[]byte("four"),
	}, fnv32Config())

	expLeaf4 := fnv32Hash("four")

	expNode01 := fnv32Hash(string(fnv32Hash("zero")) + string(fnv32Hash("one")))
	expNode23 := fnv32Hash(string(fnv32Hash("two")) + string(fnv32Hash("three")))
	expNode44 := fnv32Hash(string(expLeaf4) + string(expLeaf4))

	expNode0123 := fnv32Hash(string(expNode01) + string(expNode23))
	expNode4444 := fnv32Hash(string(expNode44) + string(expNode44))

	expRoot := fnv32Hash(string(expNode0123) + string(expNode4444))
	require.Equal(t, expRoot, tree.Root())
}

func TestTree_simplified_6_leaves(t *testing.T) {
	t.Parallel()

	/* Tree structure:

	012345
	0123 4545
	01 23 45
	0 1 2 3 4 5

	*/

	tree := mtree.NewTree([][]byte{
		[]byte("zero"),
		[]byte("one"),
		[]byte("two"),
		[]byte("three"),
		[]byte("four"),
		[]byte("five"),
	}, fnv32Config())

	expNode01 := fnv32Hash(string(fnv32Hash("zero")) + string(fnv32Hash("one")))
	expNode23 := fnv32Hash(string(fnv32Hash("two")) + string(fnv32Hash("three")))
	expNode45 := fnv32Hash(string(fnv32Hash("four")) + string(fnv32Hash("five")))

	expNode0123 := fnv32Hash(string(expNode01) + string(expNode23))
	expNode4545 := fnv32Hash(string(expNode45) + string(expNode45))

	expRoot := fnv32Hash(string(expNode0123) + string(expNode4545))
	require.Equal(t, expRoot, tree.Root())
}

func TestTree_leaf(t *testing.T) {
	t.Parallel()

	records := stest.RandomRecordsForTest(t, 6, 48)
	cfg := sha256Config()
	tree := mtree.NewTree(records, cfg)

	for i, rec := range records {
		exp := make([]byte, cfg.HashSize)
		cfg.Hasher.Leaf(rec, exp[:0])

		got, err := tree.Leaf(i)
		require.NoError(t, err)
		require.Equal(t, exp, got)
	}

	_, err := tree.Leaf(len(records))
	var re mtree.RangeError
	require.ErrorAs(t, err, &re)
	require.Equal(t, len(records), re.Index)
	require.Equal(t, len(records), re.LeafCount)
}

func TestTree_proofs_verifyAtEveryIndex(t *testing.T) {
	t.Parallel()

	// Sizes around powers of two exercise both balanced levels
	// and the duplicate-last tail.
	for _, n := range []int{2, 3, 4, 5, 6, 7, 8, 9, 11, 15, 16, 17, 31, 32, 33} {
		t.Run(fmt.Sprintf("%d_records", n), func(t *testing.T) {
			t.Parallel()

			records := stest.RandomRecordsForTest(t, n, 32)
			cfg := sha256Config()
			tree := mtree.NewTree(records, cfg)

			for i := range records {
				proof, err := tree.ProofAt(i)
				require.NoError(t, err)

				leaf := make([]byte, cfg.HashSize)
				cfg.Hasher.Leaf(records[i], leaf[:0])

				require.True(t, proof.Verify(leaf))
				require.Equal(t, i, proof.LeafIndex())

				// The final disclosure step targets the root.
				entries := proof.Entries()
				require.Equal(t,
					tree.Root(),
					entries[len(entries)-1].Target(),
				)
			}
		})
	}
}

func TestTree_proofs_rejectWrongDigest(t *testing.T) {
	t.Parallel()

	cfg := sha256Config()
	tree := mtree.NewTree(goldenRecords, cfg)

	for i, bad := range [][]byte{[]byte("bad"), []byte("missing"), []byte("false")} {
		proof, err := tree.ProofAt(i)
		require.NoError(t, err)

		leaf := make([]byte, cfg.HashSize)
		cfg.Hasher.Leaf(bad, leaf[:0])

		require.False(t, proof.Verify(leaf))
	}
}

func TestTree_proofAt_outOfRange(t *testing.T) {
	t.Parallel()

	tree := mtree.NewTree(goldenRecords, sha256Config())

	for _, idx := range []int{len(goldenRecords), len(goldenRecords) + 5, -1} {
		_, err := tree.ProofAt(idx)

		var re mtree.RangeError
		require.ErrorAs(t, err, &re)
		require.Equal(t, idx, re.Index)
		require.Equal(t, len(goldenRecords), re.LeafCount)
	}
}

func TestTree_proofs_outliveTree(t *testing.T) {
	t.Parallel()

	records := stest.RandomRecordsForTest(t, 7, 32)
	cfg := sha256Config()

	tree := mtree.NewTree(records, cfg)
	proof, err := tree.ProofAt(3)
	require.NoError(t, err)

	leaf := make([]byte, cfg.HashSize)
	cfg.Hasher.Leaf(records[3], leaf[:0])

	// The proof holds its own digest copies,
	// so it stays valid after the tree is released.
	tree = nil
	_ = tree

	require.True(t, proof.Verify(leaf))
}
