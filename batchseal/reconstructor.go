package batchseal

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arbor-engine/sequoia/mtree"
	"github.com/bits-and-blooms/bitset"
	"github.com/klauspost/reedsolomon"
)

// ErrInsufficientShards is returned from [*Reconstructor.Data]
// when fewer shards are held than data shards in the batch.
var ErrInsufficientShards = errors.New("not enough shards held to reconstruct payload")

// ErrWrongShardSize is returned from [*Reconstructor.AddShard]
// for a shard whose length differs from the batch's shard size.
var ErrWrongShardSize = errors.New("shard has wrong size for batch")

// ReconstructorConfig carries the seal parameters
// a receiving party needs ahead of any shard:
// everything here is typically taken from a [Batch] header.
type ReconstructorConfig struct {
	// The trusted root the whole shard set commits to.
	Root []byte

	// The number of data and parity shards in the batch.
	NumData, NumParity int

	// Size of every shard in bytes.
	ShardSize int

	// Length of the original payload.
	DataLen int

	// Must hash identically to the sealing side.
	Hasher   mtree.Hasher
	HashSize int
}

// Reconstructor accumulates verified shards of one sealed batch
// and recovers the original payload once enough are held.
//
// Every shard is checked against the configured root
// before it is admitted, so a Reconstructor fed from
// an untrusted source never reconstructs a forged payload.
//
// Methods must not be called concurrently.
type Reconstructor struct {
	log *slog.Logger

	enc reedsolomon.Encoder

	// Admitted shards, nil where not yet held;
	// the layout Reed-Solomon reconstruction expects.
	shards [][]byte

	// Which shard indices are held.
	have *bitset.BitSet

	// Membership bookkeeping against the root.
	ws *mtree.WitnessSet

	root []byte

	numData, numParity int
	shardSize, dataLen int

	hasher   mtree.Hasher
	hashSize int
}

// NewReconstructor returns a Reconstructor for one sealed batch.
func NewReconstructor(log *slog.Logger, cfg ReconstructorConfig) (*Reconstructor, error) {
	if cfg.ShardSize <= 0 {
		panic(fmt.Errorf(
			"BUG: ShardSize must be positive (got %d)", cfg.ShardSize,
		))
	}
	if cfg.DataLen <= 0 || cfg.DataLen > cfg.NumData*cfg.ShardSize {
		panic(fmt.Errorf(
			"BUG: DataLen must be in (0, %d] (got %d)",
			cfg.NumData*cfg.ShardSize, cfg.DataLen,
		))
	}

	enc, err := reedsolomon.New(
		cfg.NumData, cfg.NumParity,
		reedsolomon.WithAutoGoroutines(cfg.ShardSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build Reed-Solomon encoder: %w", err)
	}

	total := cfg.NumData + cfg.NumParity

	root := make([]byte, cfg.HashSize)
	copy(root, cfg.Root)

	return &Reconstructor{
		log: log,

		enc: enc,

		shards: make([][]byte, total),

		have: bitset.MustNew(uint(total)),

		ws: mtree.NewWitnessSet(mtree.WitnessSetConfig{
			Root:      cfg.Root,
			LeafCount: total,

			Hasher:   cfg.Hasher,
			HashSize: cfg.HashSize,
		}),

		root: root,

		numData:   cfg.NumData,
		numParity: cfg.NumParity,
		shardSize: cfg.ShardSize,
		dataLen:   cfg.DataLen,

		hasher:   cfg.Hasher,
		hashSize: cfg.HashSize,
	}, nil
}

// AddShard verifies that shard is the batch member at index idx
// and stores a copy of it for reconstruction.
//
// It returns [ErrWrongShardSize] for a missized shard,
// and passes through the [mtree.WitnessSet] errors:
// [mtree.RangeError], [mtree.ErrAlreadyProven],
// [mtree.ErrIndexMismatch] and [mtree.ErrProofMismatch].
func (r *Reconstructor) AddShard(idx int, shard []byte, proof mtree.Proof) error {
	if len(shard) != r.shardSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrWrongShardSize, len(shard), r.shardSize)
	}

	if err := r.ws.AddRecord(idx, shard, proof); err != nil {
		return err
	}

	cp := make([]byte, len(shard))
	copy(cp, shard)
	r.shards[idx] = cp
	r.have.Set(uint(idx))

	r.log.Debug(
		"Admitted shard",
		"idx", idx,
		"have", r.have.Count(),
		"need", r.numData,
	)

	return nil
}

// HasShard reports whether the shard at idx has been admitted.
func (r *Reconstructor) HasShard(idx int) bool {
	if idx < 0 {
		return false
	}
	return r.have.Test(uint(idx))
}

// CanReconstruct reports whether enough shards are held
// for [*Reconstructor.Data] to succeed.
func (r *Reconstructor) CanReconstruct() bool {
	return int(r.have.Count()) >= r.numData
}

// Data reconstructs any missing shards and returns the original payload.
//
// It returns [ErrInsufficientShards] if called before
// [*Reconstructor.CanReconstruct] reports true.
// Reconstruction from verified shards cannot produce a wrong payload;
// the full shard set is still re-committed against the root afterward,
// and a mismatch is an unrecoverable internal fault.
func (r *Reconstructor) Data() ([]byte, error) {
	if !r.CanReconstruct() {
		return nil, fmt.Errorf(
			"%w: have %d of %d required",
			ErrInsufficientShards, r.have.Count(), r.numData,
		)
	}

	missing := len(r.shards) - int(r.have.Count())
	if err := r.enc.Reconstruct(r.shards); err != nil {
		return nil, fmt.Errorf("failed to reconstruct shards: %w", err)
	}

	if missing > 0 {
		r.log.Debug("Reconstructed missing shards", "count", missing)

		// Every admitted shard was proven against the root,
		// so the reconstructed set must re-commit to it;
		// anything else is a bug in this package or its codecs.
		root := mtree.ComputeRoot(r.shards, mtree.TreeConfig{
			Hasher:   r.hasher,
			HashSize: r.hashSize,
		})
		if !bytes.Equal(root, r.root) {
			panic(fmt.Errorf(
				"IMPOSSIBLE: reconstructed shards commit to root %x, expected %x",
				root, r.root,
			))
		}

		// The reconstructed shards are now as trustworthy as proven ones.
		for i, s := range r.shards {
			if s != nil {
				r.have.Set(uint(i))
			}
		}
	}

	var buf bytes.Buffer
	buf.Grow(r.dataLen)
	if err := r.enc.Join(&buf, r.shards, r.dataLen); err != nil {
		return nil, fmt.Errorf("failed to join data shards: %w", err)
	}

	return buf.Bytes(), nil
}
