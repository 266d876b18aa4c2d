package mtree

import (
	"bytes"
	"fmt"
)

// ProofEntry is one disclosure step of a membership proof:
// the digest of the node being proven at some level (the target),
// and the sibling digest needed to recompute the target's parent.
//
// Exactly one sibling is ever disclosed.
// The absent side is implicitly the digest being verified itself,
// so the presence of the left or right sibling encodes whether
// the verified node is a right or left child at that level.
type ProofEntry struct {
	target []byte

	// Exactly one of these is non-nil.
	lsib, rsib []byte
}

// NewProofEntry returns a ProofEntry disclosing the given sibling.
// Exactly one of lsib and rsib must be non-nil;
// anything else is a structural invariant violation and panics.
//
// The entry retains the given slices, and they must not be modified.
func NewProofEntry(target, lsib, rsib []byte) ProofEntry {
	if (lsib == nil) == (rsib == nil) {
		panic(fmt.Errorf(
			"BUG: exactly one sibling must be disclosed (left set: %t, right set: %t)",
			lsib != nil, rsib != nil,
		))
	}

	return ProofEntry{target: target, lsib: lsib, rsib: rsib}
}

// Target returns the digest this entry's recomputed parent must match.
// The returned slice must not be modified.
func (e ProofEntry) Target() []byte {
	return e.target
}

// LeftSibling returns the disclosed left sibling, or nil.
// The returned slice must not be modified.
func (e ProofEntry) LeftSibling() []byte {
	return e.lsib
}

// RightSibling returns the disclosed right sibling, or nil.
// The returned slice must not be modified.
func (e ProofEntry) RightSibling() []byte {
	return e.rsib
}

// Proof is an ordered sequence of disclosure steps
// from a leaf's level up to, and including, the root:
// the final entry's target is the root digest.
//
// A Proof is plain data with no iterator state;
// it can be verified any number of times and concurrently.
type Proof struct {
	entries []ProofEntry

	hasher   Hasher
	hashSize int
}

// NewProof assembles a Proof from already-validated entries,
// typically ones decoded from a serialized form.
// The entries must be in leaf-to-root order.
func NewProof(entries []ProofEntry, cfg TreeConfig) Proof {
	cfg.validate()

	return Proof{
		entries: entries,

		hasher:   cfg.Hasher,
		hashSize: cfg.HashSize,
	}
}

// Entries returns the disclosure steps in leaf-to-root order.
// The returned slice and its digests must not be modified.
func (p Proof) Entries() []ProofEntry {
	return p.entries
}

// Len returns the number of disclosure steps.
func (p Proof) Len() int {
	return len(p.entries)
}

// LeafIndex returns the leaf index the proof commits to.
//
// The index is fully determined by the disclosure directions:
// a disclosed left sibling at step k means the verified node
// is a right child there, so bit k of the index is one.
func (p Proof) LeafIndex() int {
	idx := 0
	for k, e := range p.entries {
		if e.lsib != nil {
			idx |= 1 << k
		}
	}
	return idx
}

// Verify reports whether candidate is the digest of the leaf
// this proof was extracted for.
//
// Each step recomputes the parent of the running candidate
// and its disclosed sibling, in the disclosed order,
// and compares it to the step's target;
// the first mismatch fails the whole proof.
// Verification failure is the ordinary "not a member" outcome,
// never an error.
//
// An empty proof verifies trivially:
// a single-leaf tree discloses nothing,
// and the caller compares candidate to the root directly.
func (p Proof) Verify(candidate []byte) bool {
	return verifyEntries(p.entries, candidate, p.hasher, p.hashSize)
}

func verifyEntries(entries []ProofEntry, candidate []byte, h Hasher, hashSize int) bool {
	scratch := make([]byte, hashSize)

	cur := candidate
	for _, e := range entries {
		left, right := e.lsib, e.rsib
		if left == nil {
			left = cur
		}
		if right == nil {
			right = cur
		}

		h.Node(left, right, scratch[:0])
		if !bytes.Equal(scratch, e.target) {
			return false
		}

		// The target just matched, so continue folding from it;
		// the scratch buffer is then free for the next step.
		cur = e.target
	}

	return true
}
