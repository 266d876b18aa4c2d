package batchseal

import (
	"fmt"

	"github.com/arbor-engine/sequoia/mtree"
	"github.com/klauspost/reedsolomon"
)

// maxShards caps the total shard count of one batch.
// It is the Reed-Solomon implementation's hard limit,
// reached well before any Merkle tree concern.
const maxShards = 65536

// SealConfig is the configuration for [Seal].
type SealConfig struct {
	// Desired maximum size of one shard.
	// The actual shard size may be slightly smaller,
	// since the payload is split evenly across shards.
	MaxShardSize int

	// ParityRatio indicates the desired ratio of
	// parity shards to data shards.
	// For example, ParityRatio=0.25 means there will be
	// one parity shard for every four data shards.
	// The parity count is rounded down
	// if the ratio does not result in a whole number.
	ParityRatio float32

	// How to hash shards in the underlying Merkle tree.
	Hasher mtree.Hasher

	// The size, in bytes, of digests produced by Hasher.
	HashSize int
}

// Batch is the sealed form of a payload, returned by [Seal].
//
// The shard digests commit to Root,
// so any shard's membership can be proven
// without transmitting the whole batch.
type Batch struct {
	// The number of data and parity shards.
	NumData, NumParity int

	// Size of every shard in bytes.
	ShardSize int

	// Length of the original payload;
	// required to strip the final shard's padding on reconstruction.
	DataLen int

	// The Merkle root over all shards, data first, then parity.
	Root []byte

	// The data and parity shards, aligned with the tree's leaf order.
	Shards [][]byte

	// Proofs is aligned one-to-one with Shards.
	Proofs []mtree.Proof
}

// Seal splits data into erasure-coded shards
// and commits the full shard set to a Merkle root.
func Seal(data []byte, cfg SealConfig) (Batch, error) {
	if cfg.MaxShardSize <= 0 {
		panic(fmt.Errorf(
			"BUG: MaxShardSize must be positive (got %d)", cfg.MaxShardSize,
		))
	}
	if cfg.ParityRatio < 0 {
		panic(fmt.Errorf(
			"BUG: ParityRatio must be non-negative (got %g)", cfg.ParityRatio,
		))
	}

	tc := mtree.TreeConfig{Hasher: cfg.Hasher, HashSize: cfg.HashSize}

	if len(data) == 0 {
		return Batch{}, fmt.Errorf("cannot seal an empty payload")
	}

	nData := len(data) / cfg.MaxShardSize
	if len(data)%cfg.MaxShardSize > 0 {
		nData++
	}

	nParity := int(cfg.ParityRatio * float32(nData))
	if nData+nParity > maxShards {
		return Batch{}, fmt.Errorf(
			"payload too large: %d data and %d parity shards, but limit is %d",
			nData, nParity, maxShards,
		)
	}

	enc, err := reedsolomon.New(
		nData, nParity,
		reedsolomon.WithAutoGoroutines(cfg.MaxShardSize),
	)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to build Reed-Solomon encoder: %w", err)
	}

	shards, err := enc.Split(data)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to split payload into shards: %w", err)
	}

	if err := enc.Encode(shards); err != nil {
		return Batch{}, fmt.Errorf("failed to erasure-code payload: %w", err)
	}

	// With the parity shards in place, commit the whole shard set.
	tree := mtree.NewTree(shards, tc)

	proofs := make([]mtree.Proof, len(shards))
	for i := range shards {
		p, err := tree.ProofAt(i)
		if err != nil {
			// The index range is exactly the shard range.
			panic(fmt.Errorf("IMPOSSIBLE: no proof for shard %d: %w", i, err))
		}
		proofs[i] = p
	}

	root := make([]byte, cfg.HashSize)
	copy(root, tree.Root())

	return Batch{
		NumData:   nData,
		NumParity: nParity,

		ShardSize: len(shards[0]),
		DataLen:   len(data),

		Root: root,

		Shards: shards,
		Proofs: proofs,
	}, nil
}
