// Package mtreetest provides compliance fixtures
// for user-defined [mtree.Hasher] implementations.
package mtreetest

import (
	"testing"

	"github.com/arbor-engine/sequoia/mtree"
	"github.com/stretchr/testify/require"
)

type HasherFactory func() (h mtree.Hasher, hashSize int)

// TestHasherCompliance exercises the properties every Hasher must hold
// for trees and proofs to behave correctly.
func TestHasherCompliance(t *testing.T, f HasherFactory) {
	t.Run("leaf is deterministic", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		dst01 := make([]byte, sz)
		h.Leaf([]byte("deterministic_data"), dst01[:0])

		dst02 := make([]byte, sz)
		h.Leaf([]byte("deterministic_data"), dst02[:0])

		require.Equal(t, dst01, dst02)
	})

	t.Run("node is deterministic", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		left := make([]byte, sz)
		h.Leaf([]byte("left_data"), left[:0])
		right := make([]byte, sz)
		h.Leaf([]byte("right_data"), right[:0])

		dst01 := make([]byte, sz)
		h.Node(left, right, dst01[:0])

		dst02 := make([]byte, sz)
		h.Node(left, right, dst02[:0])

		require.Equal(t, dst01, dst02)
	})

	t.Run("node respects child order", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		left := make([]byte, sz)
		h.Leaf([]byte("left_data"), left[:0])
		right := make([]byte, sz)
		h.Leaf([]byte("right_data"), right[:0])

		dst01 := make([]byte, sz)
		h.Node(left, right, dst01[:0])

		dst02 := make([]byte, sz)
		h.Node(right, left, dst02[:0])

		require.NotEqual(t, dst01, dst02)
	})

	t.Run("leaf and node are domain separated", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		// A leaf whose raw bytes are exactly two child digests
		// must not hash to the same digest as the node of those children.
		left := make([]byte, sz)
		h.Leaf([]byte("left_data"), left[:0])
		right := make([]byte, sz)
		h.Leaf([]byte("right_data"), right[:0])

		asNode := make([]byte, sz)
		h.Node(left, right, asNode[:0])

		asLeaf := make([]byte, sz)
		h.Leaf(append(append([]byte{}, left...), right...), asLeaf[:0])

		require.NotEqual(t, asNode, asLeaf)
	})

	t.Run("empty leaf input is accepted", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		dst01 := make([]byte, sz)
		h.Leaf(nil, dst01[:0])

		dst02 := make([]byte, sz)
		h.Leaf([]byte{}, dst02[:0])

		require.Equal(t, dst01, dst02)
		require.Len(t, dst01, sz)
	})
}
