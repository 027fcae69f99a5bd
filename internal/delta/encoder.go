package delta

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/dirsync/dirsync/internal/blockindex"
	"github.com/dirsync/dirsync/internal/rolling"
)

// Emit is called once per instruction, in source-byte order, as the encoder
// produces them. It mirrors the reference codebase's OperationTransmitter
// shape (pkg/synchronization/rsync.OperationTransmitter) but carries a
// fully-formed Instruction rather than a wire operation, since this engine
// has no transport to serve.
type Emit func(Instruction) error

// Encode reads the entirety of src and emits the instruction stream that
// reconstructs it against idx (the block index built over the existing
// destination file), per spec.md §4.B. It returns the final Stats for the
// operation. Encode does not buffer the whole source in memory: it holds at
// most one block's worth of window plus a bounded literal buffer, flushed
// whenever a match occurs or it grows past one block in size.
//
// Only a full block-sized window is ever checked against the index. Once
// fewer than blockSize bytes remain in the source, rolling stops and the
// remainder is emitted as a trailing literal, even if those bytes happen to
// equal a destination block's content — matching spec.md §4.B step 5's
// "stop rolling" rule rather than opportunistically matching partial
// windows.
func Encode(src io.Reader, idx *blockindex.Index, blockSize uint32, emit Emit) (Stats, error) {
	var stats Stats

	if blockSize == 0 {
		return stats, errors.New("block size must be at least 1")
	}

	r := bufio.NewReaderSize(src, int(blockSize)*2+64)

	// If the destination is empty, or a single block wouldn't even fit in
	// it, no match is possible: emit the whole source as literal data.
	if idx == nil || idx.Empty() || int64(blockSize) > idx.Length {
		return copyAllLiteral(r, &stats, emit)
	}

	literalBuf := make([]byte, 0, blockSize*2)
	flush := func() error {
		if len(literalBuf) == 0 {
			return nil
		}
		data := make([]byte, len(literalBuf))
		copy(data, literalBuf)
		stats.addLiteral(len(data))
		literalBuf = literalBuf[:0]
		return emit(Instruction{Kind: Literal, Data: data})
	}
	finish := func() (Stats, error) {
		if err := flush(); err != nil {
			return stats, err
		}
		return stats, nil
	}

	window := make([]byte, blockSize)
	n, err := io.ReadFull(r, window)
	stats.TotalBytes += uint64(n)
	if err == io.EOF {
		return stats, nil
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return stats, errors.Wrap(err, "unable to read source")
	}
	if err == io.ErrUnexpectedEOF {
		// Fewer than blockSize bytes total: no matching is possible.
		literalBuf = append(literalBuf, window[:n]...)
		return finish()
	}

	checksum := rolling.New(window)
	for {
		weak := checksum.Value()
		if match, ok := idx.Match(weak, window); ok {
			if err := flush(); err != nil {
				return stats, err
			}
			stats.addCopy(match.Length)
			if err := emit(Instruction{Kind: Copy, Offset: match.Offset, Length: match.Length}); err != nil {
				return stats, err
			}

			n, err = io.ReadFull(r, window)
			stats.TotalBytes += uint64(n)
			if err == io.EOF {
				return finish()
			} else if err == io.ErrUnexpectedEOF {
				literalBuf = append(literalBuf, window[:n]...)
				return finish()
			} else if err != nil {
				return stats, errors.Wrap(err, "unable to read source")
			}
			checksum.Reset(window)
			continue
		}

		literalBuf = append(literalBuf, window[0])
		if len(literalBuf) >= int(blockSize) {
			if err := flush(); err != nil {
				return stats, err
			}
		}

		next, rerr := r.ReadByte()
		if rerr == io.EOF {
			literalBuf = append(literalBuf, window[1:]...)
			return finish()
		} else if rerr != nil {
			return stats, errors.Wrap(rerr, "unable to read source")
		}
		stats.TotalBytes++

		checksum.Roll(window[0], next)
		copy(window, window[1:])
		window[len(window)-1] = next
	}
}

// copyAllLiteral handles the degenerate cases from spec.md §4.B step 1: an
// empty or too-small destination means no matching is possible, so the
// entire source is emitted as literal data (read in bounded chunks so large
// sources are never loaded into memory at once).
func copyAllLiteral(r *bufio.Reader, stats *Stats, emit Emit) (Stats, error) {
	const chunkSize = 64 * 1024
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			stats.addLiteral(n)
			if eerr := emit(Instruction{Kind: Literal, Data: data}); eerr != nil {
				return *stats, eerr
			}
		}
		if err == io.EOF {
			break
		} else if err != nil {
			return *stats, errors.Wrap(err, "unable to read source")
		}
	}
	stats.TotalBytes = stats.LiteralBytes
	return *stats, nil
}
