// Package batchseal commits a byte payload to a single Merkle root
// by splitting it into erasure-coded shards
// and building an [mtree.Tree] over the shard set.
//
// [Seal] produces the root, the shards and a membership proof per shard.
// A [Reconstructor] holding only the seal parameters and the root
// admits shards one at a time, refusing any shard
// that does not prove membership,
// and recovers the original payload once enough shards are held,
// even if some shards were never received.
package batchseal
