//go:build windows

package fsutil

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

// CopyMetadata copies modification time from src to dst. Permission bit
// preservation on Windows filesystems is undefined (spec.md §9 open
// question 3), so this build only preserves mtime; it does not attempt to
// translate POSIX mode bits into Windows ACLs.
func CopyMetadata(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "unable to stat source for metadata copy")
	}

	if err := os.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		return errors.Wrap(err, "unable to set destination modification time")
	}

	return nil
}
