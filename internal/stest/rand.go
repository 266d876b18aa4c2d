package stest

import (
	"crypto/sha256"
	"math/rand/v2"
	"testing"
)

// RandomRecordsForTest returns n byte slices of size sz each,
// filled with pseudorandom data derived from the test name,
// so a given test always sees the same records.
func RandomRecordsForTest(t *testing.T, n, sz int) [][]byte {
	// The test name hash is exactly the chacha8 seed size,
	// and hashing also means we aren't limited
	// by the length of any particular test name.
	seed := sha256.Sum256([]byte(t.Name()))
	chacha := rand.NewChaCha8(seed)

	mem := make([]byte, n*sz)
	if _, err := chacha.Read(mem); err != nil {
		panic(err)
	}

	recs := make([][]byte, n)
	for i := range recs {
		recs[i] = mem[i*sz : (i+1)*sz]
	}

	return recs
}

// RandomDataForTest returns a byte slice of size sz
// containing pseudorandom data derived from the test name.
func RandomDataForTest(t *testing.T, sz int) []byte {
	seed := sha256.Sum256([]byte(t.Name()))
	chacha := rand.NewChaCha8(seed)

	out := make([]byte, sz)
	if _, err := chacha.Read(out); err != nil {
		panic(err)
	}

	return out
}
