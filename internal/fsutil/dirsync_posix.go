//go:build !windows

package fsutil

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// SyncDir fsyncs a directory's inode so that a preceding rename is durable
// across a crash, not merely atomic from a concurrent reader's point of
// view. Mirrors the reference codebase's POSIX-specific split
// (pkg/filesystem/atomic_posix.go, directory_rename_posix.go) between
// platform-portable logic and raw syscall usage.
func SyncDir(path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Fsync(fd)
}

// IsCrossDeviceError reports whether err is the result of attempting an
// atomic rename across filesystem boundaries (EXDEV), which spec.md §7
// classifies as a DestinationIOError rather than an Internal error, since it
// reflects a placement problem rather than a logic bug.
func IsCrossDeviceError(err error) bool {
	linkErr, ok := err.(*os.LinkError)
	if !ok {
		return false
	}
	return linkErr.Err == syscall.EXDEV
}
