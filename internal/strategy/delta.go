package strategy

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dirsync/dirsync/internal/blockindex"
	"github.com/dirsync/dirsync/internal/delta"
	"github.com/dirsync/dirsync/internal/fsutil"
	"github.com/dirsync/dirsync/internal/logging"
)

// Delta reconstructs a destination file from blocks already present in the
// previous destination copy plus literal bytes from the source, per
// spec.md §4.B/§4.C. It owns a StatsRegistry covering every file it syncs
// during its lifetime (spec.md §3): a fresh Delta should be constructed per
// run so that the registry doesn't accumulate across unrelated runs.
type Delta struct {
	BlockSize     uint32
	MemoryCeiling int64
	Logger        *logging.Logger

	stats *StatsRegistry
}

// NewDelta constructs a Delta strategy with the given block size (0 selects
// DefaultBlockSize) and a fresh, empty StatsRegistry.
func NewDelta(blockSize uint32, logger *logging.Logger) *Delta {
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}
	return &Delta{
		BlockSize: blockSize,
		Logger:    logger,
		stats:     newStatsRegistry(),
	}
}

// Stats returns the full StatsRegistry snapshot accumulated so far, per
// spec.md §6's DeltaStrategy.stats().
func (d *Delta) Stats() map[string]delta.Stats {
	return d.stats.All()
}

// GetStatsFor returns the stats recorded for a single path, if any, per
// spec.md §6's DeltaStrategy.get_stats_for(path).
func (d *Delta) GetStatsFor(path string) (delta.Stats, bool) {
	return d.stats.GetFor(path)
}

// SyncFile implements Strategy. The destination file must already exist:
// spec.md §4.E routes newly-created files to Copy instead, regardless of
// the configured strategy.
func (d *Delta) SyncFile(source, destination string) error {
	dest, err := os.Open(destination)
	if err != nil {
		return errors.Wrap(err, "unable to open existing destination for delta")
	}

	idx, err := blockindex.Build(dest, d.BlockSize, d.MemoryCeiling)
	if closeErr := dest.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		if errors.Cause(err) == blockindex.ErrMemoryCeilingExceeded {
			return err
		}
		return errors.Wrap(err, "unable to build block index")
	}

	src, err := os.Open(source)
	if err != nil {
		return wrapSource(err, "unable to open source")
	}
	defer src.Close()

	srcInfo, err := src.Stat()
	if err != nil {
		return wrapSource(err, "unable to stat source")
	}

	destDir := filepath.Dir(destination)
	tempPath := fsutil.TempName(destDir)
	temp, err := os.OpenFile(tempPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return errors.Wrap(err, "unable to create temporary file")
	}
	defer func() {
		temp.Close()
		os.Remove(tempPath)
	}()

	// Re-open the destination for random-access reads of COPY ranges while
	// the temp file is being assembled; this is a separate handle from the
	// one used to build the index, which has already been closed.
	destReader, err := os.Open(destination)
	if err != nil {
		return errors.Wrap(err, "unable to reopen destination for reading")
	}
	defer destReader.Close()

	var reconstructed int64
	var encodeErr error
	stats, encErr := delta.Encode(src, idx, d.BlockSize, func(instr delta.Instruction) error {
		n, applyErr := delta.ApplyOne(temp, destReader, instr)
		reconstructed += n
		if applyErr != nil {
			encodeErr = applyErr
			return applyErr
		}
		return nil
	})
	if encErr != nil {
		return errors.Wrap(encErr, "unable to compute delta")
	}
	if encodeErr != nil {
		return errors.Wrap(encodeErr, "unable to apply delta instruction")
	}

	if uint64(reconstructed) != stats.TotalBytes {
		return &ReconstructionError{Err: errors.Errorf("reconstructed %d bytes but expected %d", reconstructed, stats.TotalBytes)}
	}

	if err := temp.Sync(); err != nil {
		return errors.Wrap(err, "unable to fsync temporary file")
	}
	if err := temp.Close(); err != nil {
		return errors.Wrap(err, "unable to close temporary file")
	}

	if err := os.Rename(tempPath, destination); err != nil {
		if fsutil.IsCrossDeviceError(err) {
			return errors.Wrap(err, "unable to rename across filesystems")
		}
		return errors.Wrap(err, "unable to rename temporary file into place")
	}
	_ = fsutil.SyncDir(destDir)

	if err := fsutil.CopyMetadata(source, destination); err != nil {
		d.logger().Warn(errors.Wrap(err, "unable to preserve metadata"))
	}

	d.stats.record(destination, stats)

	return nil
}

func (d *Delta) logger() *logging.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.RootLogger
}
