package proofwire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arbor-engine/sequoia/mtree"
	"github.com/golang/snappy"
)

// SnappyEncoder writes proofs as a snappy-compressed raw body,
// prefixed with a big-endian uint16 compressed length.
type SnappyEncoder struct {
	raw RawEncoder

	// The compressed body, including the length prefix.
	encBuf []byte
}

// WriteProof writes p to w in compressed form.
func (e *SnappyEncoder) WriteProof(w io.Writer, p mtree.Proof) error {
	e.raw.encode(p)

	// +2 for the length uint16.
	maxEnc := snappy.MaxEncodedLen(len(e.raw.buf)) + 2
	if cap(e.encBuf) < maxEnc {
		e.encBuf = make([]byte, maxEnc)
	} else {
		e.encBuf = e.encBuf[:maxEnc]
	}

	// Compress first, then backfill the length prefix.
	res := snappy.Encode(e.encBuf[2:], e.raw.buf)
	binary.BigEndian.PutUint16(e.encBuf, uint16(len(res)))

	e.encBuf = e.encBuf[:2+len(res)]

	if _, err := w.Write(e.encBuf); err != nil {
		return fmt.Errorf("failed to write compressed proof: %w", err)
	}

	return nil
}

// SnappyDecoder reads proofs written by [SnappyEncoder].
type SnappyDecoder struct {
	compBuf []byte
	rawBuf  []byte
}

// ReadProof reads one compressed proof from r.
// The cfg hashing details must match the tree
// the proof was extracted from.
func (d *SnappyDecoder) ReadProof(r io.Reader, cfg mtree.TreeConfig) (mtree.Proof, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return mtree.Proof{}, fmt.Errorf("failed to read compressed proof length: %w", err)
	}

	compLen := int(binary.BigEndian.Uint16(lenBuf[:]))
	if cap(d.compBuf) < compLen {
		d.compBuf = make([]byte, compLen)
	} else {
		d.compBuf = d.compBuf[:compLen]
	}

	if _, err := io.ReadFull(r, d.compBuf); err != nil {
		return mtree.Proof{}, fmt.Errorf("failed to read compressed proof body: %w", err)
	}

	rawLen, err := snappy.DecodedLen(d.compBuf)
	if err != nil {
		return mtree.Proof{}, fmt.Errorf("failed to read compressed proof header: %w", err)
	}
	if maxRaw := 2 + maxProofEntries*(1+2*cfg.HashSize); rawLen > maxRaw {
		return mtree.Proof{}, fmt.Errorf(
			"refusing compressed proof expanding to %d bytes; limit is %d", rawLen, maxRaw,
		)
	}
	if rawLen < 2 {
		return mtree.Proof{}, fmt.Errorf(
			"compressed proof expands to %d bytes; need at least an entry count", rawLen,
		)
	}

	if cap(d.rawBuf) < rawLen {
		d.rawBuf = make([]byte, rawLen)
	} else {
		d.rawBuf = d.rawBuf[:rawLen]
	}

	raw, err := snappy.Decode(d.rawBuf, d.compBuf)
	if err != nil {
		return mtree.Proof{}, fmt.Errorf("failed to decompress proof: %w", err)
	}

	nEntries := int(binary.BigEndian.Uint16(raw))
	if nEntries > maxProofEntries {
		return mtree.Proof{}, fmt.Errorf(
			"refusing proof with %d entries, exceeding the depth limit %d",
			nEntries, maxProofEntries,
		)
	}

	return parseProofBody(raw[2:], nEntries, cfg)
}
