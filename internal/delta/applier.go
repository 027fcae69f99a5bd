package delta

import (
	"io"

	"github.com/pkg/errors"
)

// ApplyOne writes the reconstruction of a single instruction to w, reading
// COPY source ranges from dest (which must support ReadAt — the applier
// tolerates non-sequential offsets, per spec.md §4.C). Callers apply an
// instruction stream by calling ApplyOne once per instruction as it is
// produced by Encode, so the whole stream is never materialized in memory,
// per spec.md §5's ownership note ("instructions are transient ... until
// consumed by the applier").
func ApplyOne(w io.Writer, dest io.ReaderAt, instr Instruction) (int64, error) {
	switch instr.Kind {
	case Literal:
		n, err := w.Write(instr.Data)
		if err != nil {
			return int64(n), errors.Wrap(err, "unable to write literal data")
		}
		return int64(n), nil
	case Copy:
		buf := make([]byte, instr.Length)
		if _, err := dest.ReadAt(buf, instr.Offset); err != nil && err != io.EOF {
			return 0, errors.Wrap(err, "unable to read copy source range")
		}
		n, err := w.Write(buf)
		if err != nil {
			return int64(n), errors.Wrap(err, "unable to write copied data")
		}
		return int64(n), nil
	default:
		return 0, errors.Errorf("unknown instruction kind %d", instr.Kind)
	}
}

// Apply writes the reconstruction of a complete, pre-built instruction
// stream to w. It is a convenience wrapper around ApplyOne for callers (and
// tests) that already have the full stream in memory.
func Apply(w io.Writer, dest io.ReaderAt, instructions []Instruction) (int64, error) {
	var written int64
	for _, instr := range instructions {
		n, err := ApplyOne(w, dest, instr)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
