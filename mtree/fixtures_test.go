package mtree_test

import (
	"hash/fnv"

	"github.com/arbor-engine/sequoia/mtree"
	"github.com/arbor-engine/sequoia/mtree/mtsha256"
)

// goldenRecords is a fixed input list with a known root digest.
// Any change to hashing, prefixing, pairing or the duplicate-last policy
// changes the root and must be caught by the golden tests.
var goldenRecords = [][]byte{
	[]byte("my"), []byte("very"), []byte("eager"), []byte("mother"),
	[]byte("just"), []byte("served"), []byte("us"), []byte("nine"),
	[]byte("pizzas"), []byte("make"), []byte("prime"),
}

const goldenRootHex = "b40c847546fdceea166f927fc46c5ca33c3638236a36275c1346d3dffb84e1bc"

func sha256Config() mtree.TreeConfig {
	return mtree.TreeConfig{
		Hasher:   mtsha256.Hasher{},
		HashSize: mtsha256.HashSize,
	}
}

// fnv32Hasher is a simple, test-only hasher implementation.
// It is not suitable for production because it uses a non-cryptographic hash
// and it does not include the prefixes necessary for preimage attack avoidance.
// But, this simplicity does keep shape assertions easier to follow.
type fnv32Hasher struct{}

func (fnv32Hasher) Leaf(in []byte, dst []byte) {
	h := fnv.New32()
	_, _ = h.Write(in)
	h.Sum(dst)
}

func (fnv32Hasher) Node(left, right []byte, dst []byte) {
	h := fnv.New32()
	_, _ = h.Write(left)
	_, _ = h.Write(right)
	h.Sum(dst)
}

func fnv32Config() mtree.TreeConfig {
	return mtree.TreeConfig{
		Hasher:   fnv32Hasher{},
		HashSize: 4,
	}
}

// fnv32Hash is a convenience function to hash a string.
func fnv32Hash(in string) []byte {
	h := fnv.New32()
	_, _ = h.Write([]byte(in))
	return h.Sum(nil)
}
