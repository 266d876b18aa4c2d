// Package mtsha256 provides the standard SHA-256 [mtree.Hasher].
package mtsha256

import (
	"crypto/sha256"
)

const HashSize = sha256.Size

// Single-byte domain separation prefixes,
// preventing a leaf's raw bytes from being reinterpreted
// as a pair of child digests or vice versa.
// These values are load-bearing:
// changing either changes every root ever committed.
const (
	leafPrefix = 0x00
	nodePrefix = 0x01
)

// Hasher is an [mtree.Hasher] backed by SHA-256.
type Hasher struct{}

func (Hasher) Leaf(in []byte, dst []byte) {
	h := sha256.New()
	_, _ = h.Write([]byte{leafPrefix})
	_, _ = h.Write(in)
	h.Sum(dst)
}

func (Hasher) Node(left, right []byte, dst []byte) {
	h := sha256.New()
	_, _ = h.Write([]byte{nodePrefix})
	_, _ = h.Write(left)
	_, _ = h.Write(right)
	h.Sum(dst)
}
