//go:build windows

package fsutil

import "os"

// SyncDir is a no-op on Windows, where directory handles cannot be fsynced
// the same way; the rename itself is already durable there.
func SyncDir(path string) error {
	return nil
}

// IsCrossDeviceError reports whether err is the result of attempting an
// atomic rename across filesystem boundaries.
func IsCrossDeviceError(err error) bool {
	linkErr, ok := err.(*os.LinkError)
	if !ok {
		return false
	}
	return linkErr.Err.Error() == "The system cannot move the file to a different disk drive."
}
