package proofwire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arbor-engine/sequoia/mtree"
)

// Direction bytes marking which sibling an entry discloses.
const (
	leftSibling  = 0x00
	rightSibling = 0x01
)

// maxProofEntries caps accepted proof depth.
// A 64-bit leaf count can never produce a deeper proof,
// so anything past this is malformed input.
const maxProofEntries = 64

// RawEncoder writes proofs in their direct wire form:
// a big-endian uint16 entry count,
// then one direction byte, the target digest,
// and the disclosed sibling digest per entry.
type RawEncoder struct {
	buf []byte
}

// WriteProof writes p to w in raw form.
func (e *RawEncoder) WriteProof(w io.Writer, p mtree.Proof) error {
	e.encode(p)

	if _, err := w.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write proof: %w", err)
	}

	return nil
}

func (e *RawEncoder) encode(p mtree.Proof) {
	entries := p.Entries()
	if len(entries) > maxProofEntries {
		panic(fmt.Errorf(
			"BUG: proof has %d entries, exceeding the depth limit %d",
			len(entries), maxProofEntries,
		))
	}

	nBytes := 2
	for _, pe := range entries {
		sib := pe.LeftSibling()
		if sib == nil {
			sib = pe.RightSibling()
		}
		nBytes += 1 + len(pe.Target()) + len(sib)
	}

	if cap(e.buf) < nBytes {
		e.buf = make([]byte, nBytes)
	} else {
		e.buf = e.buf[:nBytes]
	}

	binary.BigEndian.PutUint16(e.buf, uint16(len(entries)))

	out := e.buf[2:2]
	for _, pe := range entries {
		if sib := pe.LeftSibling(); sib != nil {
			out = append(out, leftSibling)
			out = append(out, pe.Target()...)
			out = append(out, sib...)
		} else {
			out = append(out, rightSibling)
			out = append(out, pe.Target()...)
			out = append(out, pe.RightSibling()...)
		}
	}
}

// RawDecoder reads proofs written by [RawEncoder].
type RawDecoder struct {
	buf []byte
}

// ReadProof reads one raw-form proof from r.
// The cfg hashing details must match the tree
// the proof was extracted from.
func (d *RawDecoder) ReadProof(r io.Reader, cfg mtree.TreeConfig) (mtree.Proof, error) {
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return mtree.Proof{}, fmt.Errorf("failed to read proof entry count: %w", err)
	}

	nEntries := int(binary.BigEndian.Uint16(countBuf[:]))
	if nEntries > maxProofEntries {
		return mtree.Proof{}, fmt.Errorf(
			"refusing proof with %d entries, exceeding the depth limit %d",
			nEntries, maxProofEntries,
		)
	}

	nBytes := nEntries * (1 + 2*cfg.HashSize)
	if cap(d.buf) < nBytes {
		d.buf = make([]byte, nBytes)
	} else {
		d.buf = d.buf[:nBytes]
	}

	if _, err := io.ReadFull(r, d.buf); err != nil {
		return mtree.Proof{}, fmt.Errorf("failed to read proof body: %w", err)
	}

	return parseProofBody(d.buf, nEntries, cfg)
}

// parseProofBody decodes nEntries disclosure steps from body,
// copying every digest out so the result
// does not reference the decoder's reusable buffer.
func parseProofBody(body []byte, nEntries int, cfg mtree.TreeConfig) (mtree.Proof, error) {
	sz := cfg.HashSize
	if len(body) != nEntries*(1+2*sz) {
		return mtree.Proof{}, fmt.Errorf(
			"proof body is %d bytes; %d entries of %d-byte digests require %d",
			len(body), nEntries, sz, nEntries*(1+2*sz),
		)
	}

	entries := make([]mtree.ProofEntry, 0, nEntries)

	// One backing allocation for all digests of the proof.
	mem := make([]byte, 0, 2*nEntries*sz)

	for i := range nEntries {
		in := body[i*(1+2*sz):]

		dir := in[0]
		if dir != leftSibling && dir != rightSibling {
			return mtree.Proof{}, fmt.Errorf(
				"invalid sibling direction %#02x at entry %d", dir, i,
			)
		}

		start := len(mem)
		mem = append(mem, in[1:1+2*sz]...)
		target := mem[start : start+sz]
		sib := mem[start+sz : start+2*sz]

		if dir == leftSibling {
			entries = append(entries, mtree.NewProofEntry(target, sib, nil))
		} else {
			entries = append(entries, mtree.NewProofEntry(target, nil, sib))
		}
	}

	return mtree.NewProof(entries, cfg), nil
}
