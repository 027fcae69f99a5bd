// Package blockindex builds and queries the weak-checksum-keyed table of
// block signatures used by the delta encoder to locate reusable blocks in an
// existing destination file.
package blockindex

import (
	"bytes"
	"crypto/md5"
	"io"

	"github.com/pkg/errors"

	"github.com/dirsync/dirsync/internal/rolling"
)

// StrongSize is the length, in bytes, of the strong digest used to confirm a
// weak-checksum match. MD5 is sufficient and matches rsync heritage; see
// DESIGN.md for why a stronger digest was not substituted.
const StrongSize = md5.Size

// Signature is the fingerprint of a single block of the destination file:
// its weak rolling checksum, its strong digest, its ordinal position, and
// its length (which is BlockSize except possibly for the final block).
type Signature struct {
	Weak   uint32
	Strong [StrongSize]byte
	Index  uint64
	Length uint32
	Offset int64
}

// strongHash computes the strong digest of a block. The digest choice is
// fixed module-wide; mixing digests within one index is never done.
func strongHash(data []byte) [StrongSize]byte {
	return md5.Sum(data)
}

// DefaultMemoryCeiling is the default maximum number of bytes an Index is
// permitted to occupy (approximated as approxSignatureSize * block count) before
// Build fails fast, per spec.md's "configurable memory ceiling (default:
// 256 MiB)".
const DefaultMemoryCeiling = 256 << 20

// approxSignatureSize is the in-memory footprint attributed to each stored
// Signature for the purpose of enforcing MemoryCeiling. It doesn't need to
// be exact, only a stable, conservative estimate.
const approxSignatureSize = 64

// Index maps a weak checksum to all destination blocks that share it.
// Collisions on the weak checksum are resolved by strong-digest comparison
// at match time, not at build time. Given the same destination content and
// block size, Build is deterministic.
type Index struct {
	BlockSize uint32
	Length    int64
	buckets   map[uint32][]Signature
}

// ErrMemoryCeilingExceeded is returned by Build when the resulting index
// would exceed the configured memory ceiling.
var ErrMemoryCeilingExceeded = errors.New("block index would exceed memory ceiling")

// Build partitions the bytes read from r into non-overlapping blocks of
// blockSize (the final block may be shorter) and computes a weak+strong
// signature for each, per spec.md §4.A. memoryCeiling of 0 selects
// DefaultMemoryCeiling.
func Build(r io.Reader, blockSize uint32, memoryCeiling int64) (*Index, error) {
	if blockSize == 0 {
		return nil, errors.New("block size must be at least 1")
	}
	if memoryCeiling <= 0 {
		memoryCeiling = DefaultMemoryCeiling
	}

	idx := &Index{
		BlockSize: blockSize,
		buckets:   make(map[uint32][]Signature),
	}

	buffer := make([]byte, blockSize)
	var ordinal uint64
	var offset int64
	var estimatedBytes int64
	for {
		n, err := io.ReadFull(r, buffer)
		if err == io.EOF {
			break
		} else if err != nil && err != io.ErrUnexpectedEOF {
			return nil, errors.Wrap(err, "unable to read block")
		}

		block := buffer[:n]
		sig := Signature{
			Weak:   rolling.Sum(block),
			Strong: strongHash(block),
			Index:  ordinal,
			Length: uint32(n),
			Offset: offset,
		}
		idx.buckets[sig.Weak] = append(idx.buckets[sig.Weak], sig)

		estimatedBytes += approxSignatureSize
		if estimatedBytes > memoryCeiling {
			return nil, ErrMemoryCeilingExceeded
		}

		ordinal++
		offset += int64(n)
		idx.Length += int64(n)

		if err == io.ErrUnexpectedEOF || n < len(buffer) {
			break
		}
	}

	return idx, nil
}

// Candidates returns the signatures sharing the given weak checksum, in
// deterministic ascending-offset order (they are appended in build order,
// which is already ascending offset, so no sort is required here — this
// method exists to make that invariant explicit and enforced at the call
// site).
func (idx *Index) Candidates(weak uint32) []Signature {
	return idx.buckets[weak]
}

// Match returns the signature, among those sharing weak, whose strong digest
// and length equal those of block. If multiple entries satisfy this (only
// possible with deliberately crafted or naturally colliding content), the
// one with the smallest Offset is returned, per spec.md's tie-breaking rule.
// Strong-digest equality is treated as byte equality; no secondary
// byte-for-byte verification is performed, matching rsync semantics.
func (idx *Index) Match(weak uint32, block []byte) (Signature, bool) {
	candidates := idx.buckets[weak]
	if len(candidates) == 0 {
		return Signature{}, false
	}
	strong := strongHash(block)
	best := Signature{}
	found := false
	for _, c := range candidates {
		if c.Length != uint32(len(block)) {
			continue
		}
		if !bytes.Equal(c.Strong[:], strong[:]) {
			continue
		}
		if !found || c.Offset < best.Offset {
			best = c
			found = true
		}
	}
	return best, found
}

// Empty reports whether the index was built from a zero-length destination.
func (idx *Index) Empty() bool {
	return idx.Length == 0
}
