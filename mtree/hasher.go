package mtree

import "fmt"

// Hasher is the user-defined interface for hashing leaves and nodes.
// [NewTree] and [ComputeRoot] pass raw record data to the Leaf method,
// and they pass digests from earlier Leaf and Node calls
// back to the Node method.
//
// Implementations must domain separate the two methods,
// typically by a distinct fixed prefix per method,
// so that no leaf digest can collide with a node digest.
//
// To be allocation-efficient, the Hasher implementation
// must append its digest to dst, instead of creating a new byte slice.
// Hasher must not retain references to the dst slice.
//
// Furthermore, Hasher methods must be safe to call concurrently.
type Hasher interface {
	Leaf(in []byte, dst []byte)
	Node(left, right []byte, dst []byte)
}

// TreeConfig carries the hashing details for [NewTree], [ComputeRoot],
// and the proof codecs that reconstitute [Proof] values.
type TreeConfig struct {
	Hasher Hasher

	// The size, in bytes, of digests produced by Hasher.
	HashSize int
}

func (c TreeConfig) validate() {
	if c.Hasher == nil {
		panic(fmt.Errorf("BUG: Hasher must not be nil"))
	}
	if c.HashSize <= 0 {
		panic(fmt.Errorf("BUG: HashSize must be positive (got %d)", c.HashSize))
	}
}
