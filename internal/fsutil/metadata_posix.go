//go:build !windows

package fsutil

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

// CopyMetadata copies mode bits and modification time from src to dst,
// matching spec.md §4.C/§4.D's "copy mode bits and mtime from the source to
// the destination" requirement. On POSIX platforms both are preserved.
func CopyMetadata(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "unable to stat source for metadata copy")
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "unable to set destination permissions")
	}

	if err := os.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		return errors.Wrap(err, "unable to set destination modification time")
	}

	return nil
}
