package mtree

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// ErrAlreadyProven is returned from [*WitnessSet.AddRecord]
// when membership of the given leaf was already established.
var ErrAlreadyProven = errors.New("membership already proven for given leaf")

// ErrProofMismatch is returned from [*WitnessSet.AddRecord]
// when the record and proof do not recompute the expected root.
var ErrProofMismatch = errors.New("proof does not commit record to the expected root")

// ErrIndexMismatch is returned from [*WitnessSet.AddRecord]
// when the proof's disclosure directions commit to a different leaf index
// than the one claimed.
var ErrIndexMismatch = errors.New("proof commits to a different leaf index")

// WitnessSet accumulates proven membership against a fixed root.
//
// It holds no record data and no tree:
// each [*WitnessSet.AddRecord] call verifies one
// (index, record, proof) triple in isolation
// and only tracks which leaf positions have been established.
// A relying party holding nothing but the root can use it
// to confirm an entire record set one record at a time.
type WitnessSet struct {
	root []byte

	proven *bitset.BitSet

	leafCount int

	hasher   Hasher
	hashSize int
}

// WitnessSetConfig contains all the details for [NewWitnessSet].
type WitnessSetConfig struct {
	// The trusted root digest; it is copied, not retained.
	Root []byte

	// The number of leaves in the tree the root commits to.
	LeafCount int

	// Must hash identically to the tree the root was taken from.
	Hasher   Hasher
	HashSize int
}

func NewWitnessSet(cfg WitnessSetConfig) *WitnessSet {
	TreeConfig{Hasher: cfg.Hasher, HashSize: cfg.HashSize}.validate()

	if cfg.LeafCount <= 0 {
		panic(fmt.Errorf(
			"BUG: LeafCount must be positive (got %d)", cfg.LeafCount,
		))
	}
	if len(cfg.Root) != cfg.HashSize {
		panic(fmt.Errorf(
			"BUG: Root must be %d bytes (got %d)", cfg.HashSize, len(cfg.Root),
		))
	}

	root := make([]byte, cfg.HashSize)
	copy(root, cfg.Root)

	return &WitnessSet{
		root: root,

		proven: bitset.MustNew(uint(cfg.LeafCount)),

		leafCount: cfg.LeafCount,

		hasher:   cfg.Hasher,
		hashSize: cfg.HashSize,
	}
}

// AddRecord verifies that record is the leaf at index idx
// of the tree committed to by the configured root,
// and marks that position proven.
//
// It returns a [RangeError] for an out-of-range index,
// [ErrAlreadyProven] if the position was established earlier,
// [ErrIndexMismatch] if the proof's directions disagree with idx,
// and [ErrProofMismatch] if the proof does not chain
// the record's digest to the root.
func (w *WitnessSet) AddRecord(idx int, record []byte, p Proof) error {
	if idx < 0 || idx >= w.leafCount {
		return RangeError{Index: idx, LeafCount: w.leafCount}
	}
	if w.proven.Test(uint(idx)) {
		return ErrAlreadyProven
	}

	leaf := make([]byte, w.hashSize)
	w.hasher.Leaf(record, leaf[:0])

	entries := p.Entries()

	if len(entries) != proofLen(w.leafCount) {
		// A shorter proof could only chain to an internal node,
		// and a longer one cannot end at the root;
		// either way the direction bits would be ambiguous.
		return ErrProofMismatch
	}

	if w.leafCount == 1 {
		// Nothing to disclose: the lone leaf is the root.
		if !bytes.Equal(leaf, w.root) {
			return ErrProofMismatch
		}
		w.proven.Set(uint(idx))
		return nil
	}

	if p.LeafIndex() != idx {
		return ErrIndexMismatch
	}

	// The final target must be the trusted root;
	// every earlier target is then validated transitively
	// by the fold below.
	if !bytes.Equal(entries[len(entries)-1].Target(), w.root) {
		return ErrProofMismatch
	}

	// Fold with our own hasher,
	// in case the proof was assembled against a different scheme.
	if !verifyEntries(entries, leaf, w.hasher, w.hashSize) {
		return ErrProofMismatch
	}

	w.proven.Set(uint(idx))
	return nil
}

// HasRecord reports whether membership at the given leaf position
// has been proven.
// It reports false for an out-of-range index.
func (w *WitnessSet) HasRecord(idx int) bool {
	if idx < 0 {
		return false
	}
	return w.proven.Test(uint(idx))
}

// Count returns how many leaf positions have been proven.
func (w *WitnessSet) Count() int {
	return int(w.proven.Count())
}

// Complete reports whether every leaf position has been proven.
func (w *WitnessSet) Complete() bool {
	return w.Count() == w.leafCount
}
