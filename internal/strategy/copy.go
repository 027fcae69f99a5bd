package strategy

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dirsync/dirsync/internal/fsutil"
	"github.com/dirsync/dirsync/internal/logging"
)

// Copy performs a byte-for-byte copy of a source file to a destination,
// via a temporary file in the destination's parent directory followed by
// an atomic rename, per spec.md §4.D. It is the fallback strategy used
// whenever the destination file does not yet exist, regardless of the
// configured strategy (spec.md §4.E).
type Copy struct {
	Logger *logging.Logger
}

// SyncFile implements Strategy.
func (c *Copy) SyncFile(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return wrapSource(err, "unable to stat source")
	}

	src, err := os.Open(source)
	if err != nil {
		return wrapSource(err, "unable to open source")
	}
	defer src.Close()

	destDir := filepath.Dir(destination)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(err, "unable to create destination directory")
	}

	err = fsutil.AtomicReplace(destination, info.Mode().Perm(), func(temp *os.File) error {
		_, copyErr := io.Copy(temp, src)
		return copyErr
	})
	if err != nil {
		return errors.Wrap(err, "unable to copy file")
	}

	if err := fsutil.CopyMetadata(source, destination); err != nil {
		c.logger().Warn(errors.Wrap(err, "unable to preserve metadata"))
	}

	return nil
}

func (c *Copy) logger() *logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.RootLogger
}
