package mtree

import "strconv"

// RangeError is returned from [*Tree.ProofAt] and [*WitnessSet.AddRecord]
// when the given leaf index is outside the tree's leaf range.
type RangeError struct {
	Index, LeafCount int
}

func (e RangeError) Error() string {
	return "leaf index " + strconv.Itoa(e.Index) +
		" out of range for tree with " + strconv.Itoa(e.LeafCount) + " leaves"
}
