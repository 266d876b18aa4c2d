// Package proofwire serializes [mtree.Proof] values.
//
// Two codecs are provided:
// a raw codec writing disclosure steps verbatim,
// and a snappy codec compressing the same body,
// which pays off when many proofs over the same tree
// share upper-level digests.
//
// Encoders and decoders keep reusable internal buffers,
// so a single value should be used per stream,
// not shared across goroutines.
// Decoded proofs own their memory and are independent
// of the decoder's buffers.
package proofwire
