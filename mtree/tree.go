package mtree

// Tree is a fully built binary Merkle tree.
//
// Every level of the tree is stored in a single flat sequence:
// level zero is the leaf digests in record order,
// each following level holds the parents of the previous one,
// and the final entry is the root.
// Levels with an odd number of nodes pair their last node with itself.
//
// A Tree is immutable once [NewTree] returns,
// so its methods are safe to call concurrently.
type Tree struct {
	// Views into a single backing allocation.
	nodes [][]byte

	leafCount int

	hasher   Hasher
	hashSize int
}

// NewTree builds the tree for the given records, in order.
// Records may be of any length, including empty,
// and zero records is a valid degenerate tree whose root is absent.
//
// All digest storage is reserved up front from [EstimateNodeCount],
// so construction performs a fixed number of allocations
// regardless of record count.
func NewTree(records [][]byte, cfg TreeConfig) *Tree {
	cfg.validate()

	n := len(records)
	t := &Tree{
		leafCount: n,

		hasher:   cfg.Hasher,
		hashSize: cfg.HashSize,
	}

	capNodes := int(EstimateNodeCount(uint64(n)))
	mem := make([]byte, capNodes*cfg.HashSize)
	t.nodes = make([][]byte, 0, capNodes)

	// Slice the next unused slot out of the backing allocation.
	used := 0
	nextSlot := func() []byte {
		slot := mem[used*cfg.HashSize : (used+1)*cfg.HashSize]
		used++
		t.nodes = append(t.nodes, slot)
		return slot
	}

	// Level zero: one leaf digest per record.
	for _, rec := range records {
		cfg.Hasher.Leaf(rec, nextSlot()[:0])
	}

	// Each following level pairs consecutive nodes of the previous one.
	prevStart, prevLen := 0, n
	levelLen := nextLevelLen(n)
	for levelLen > 0 {
		for i := range levelLen {
			left := prevStart + 2*i
			right := left + 1
			if 2*i+1 >= prevLen {
				// Odd level length: the last node pairs with itself.
				right = left
			}

			cfg.Hasher.Node(t.nodes[left], t.nodes[right], nextSlot()[:0])
		}

		prevStart += prevLen
		prevLen = levelLen
		levelLen = nextLevelLen(levelLen)
	}

	return t
}

// LeafCount returns the number of records the tree was built from.
func (t *Tree) LeafCount() int {
	return t.leafCount
}

// Root returns the root digest,
// or nil if the tree was built from zero records.
//
// The returned slice references the tree's backing memory
// and must not be modified.
func (t *Tree) Root() []byte {
	if len(t.nodes) == 0 {
		return nil
	}

	return t.nodes[len(t.nodes)-1]
}

// Leaf returns the digest of the leaf at the given index.
// The returned slice references the tree's backing memory
// and must not be modified.
func (t *Tree) Leaf(idx int) ([]byte, error) {
	if idx < 0 || idx >= t.leafCount {
		return nil, RangeError{Index: idx, LeafCount: t.leafCount}
	}

	return t.nodes[idx], nil
}

// ProofAt returns the membership proof for the leaf at the given index,
// or a [RangeError] if idx is outside [0, leaf count).
//
// The proof copies every digest it discloses,
// so it remains valid if the tree is released.
// A single-leaf tree produces an empty proof;
// for that case the caller compares the candidate digest
// to [*Tree.Root] directly.
func (t *Tree) ProofAt(idx int) (Proof, error) {
	if idx < 0 || idx >= t.leafCount {
		return Proof{}, RangeError{Index: idx, LeafCount: t.leafCount}
	}

	nEntries := proofLen(t.leafCount)
	entries := make([]ProofEntry, 0, nEntries)

	// One backing allocation for every disclosed digest:
	// a target and one sibling per entry.
	mem := make([]byte, 0, 2*nEntries*t.hashSize)
	keep := func(d []byte) []byte {
		if d == nil {
			return nil
		}
		start := len(mem)
		mem = append(mem, d...)
		return mem[start : start+len(d)]
	}

	// Walk bottom-up, exactly mirroring construction.
	// The sibling disclosed at each level
	// belongs to the entry recorded one level higher,
	// so the leaf's own level contributes no entry.
	levelStart, levelLen := 0, t.leafCount
	nodeIdx := idx
	var lsib, rsib []byte
	for levelLen > 0 {
		level := t.nodes[levelStart : levelStart+levelLen]
		target := level[nodeIdx]

		if lsib != nil || rsib != nil {
			entries = append(entries, NewProofEntry(
				keep(target), keep(lsib), keep(rsib),
			))
		}

		if nodeIdx%2 == 0 {
			lsib = nil
			if nodeIdx+1 < levelLen {
				rsib = level[nodeIdx+1]
			} else {
				// This node is the odd tail of the level,
				// so its sibling is itself.
				rsib = level[nodeIdx]
			}
		} else {
			lsib = level[nodeIdx-1]
			rsib = nil
		}

		nodeIdx /= 2
		levelStart += levelLen
		levelLen = nextLevelLen(levelLen)
	}

	return Proof{
		entries: entries,

		hasher:   t.hasher,
		hashSize: t.hashSize,
	}, nil
}
