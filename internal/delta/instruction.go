// Package delta implements the rolling-checksum delta engine: given a
// source byte stream and a block index built over an existing destination
// file, it produces the minimal COPY/LITERAL instruction stream needed to
// reconstruct the source, and applies such a stream against the
// destination's existing contents, writing the result to an io.Writer.
// Atomic replacement of the destination file is done by the caller.
//
// The algorithm is grounded on the rsync-style engine in
// mutagen-io/mutagen's pkg/synchronization/rsync package, adapted to
// produce an explicit instruction stream (rather than a wire-oriented
// Operation transmitter) and to key matches by byte offset rather than
// block ordinal, since this engine has no network framing to amortize.
package delta

// Instruction is a single reconstruction step. A LITERAL instruction
// carries Data directly; a COPY instruction names a byte range already
// present in the destination file via Offset/Length. Exactly one of Data or
// (Offset, Length) is meaningful for a given instruction: Kind determines
// which.
type Instruction struct {
	Kind   Kind
	Offset int64
	Length uint32
	Data   []byte
}

// Kind distinguishes COPY from LITERAL instructions.
type Kind uint8

const (
	// Copy instructs the applier to read Length bytes from the destination
	// at Offset and write them to the output.
	Copy Kind = iota
	// Literal instructs the applier to write Data directly to the output.
	Literal
)

// Stats accumulates per-file transfer accounting for a single delta
// operation, per spec.md §3's SyncStats.
type Stats struct {
	TotalBytes       uint64
	BytesTransferred uint64
	BytesSaved       uint64
	LiteralBytes     uint64
	MatchedBytes     uint64
}

// addCopy and addLiteral fold the effect of a single instruction into the
// running stats.
func (s *Stats) addCopy(length uint32) {
	s.MatchedBytes += uint64(length)
	s.BytesSaved += uint64(length)
}

func (s *Stats) addLiteral(n int) {
	s.LiteralBytes += uint64(n)
	s.BytesTransferred += uint64(n)
}
