package strategy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCopySyncFileCreatesAndPreservesMetadata(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	srcPath := filepath.Join(srcDir, "file.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("hello world"), 0o640))

	mtime := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(srcPath, mtime, mtime))

	dstPath := filepath.Join(dstDir, "file.txt")
	c := &Copy{}
	require.NoError(t, c.SyncFile(srcPath, dstPath))

	data, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	info, err := os.Stat(dstPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	require.WithinDuration(t, mtime, info.ModTime(), time.Second)
}

// A missing source file is a source-side fault, not a destination-side
// one, per spec.md §7 -- confirmed by asserting the concrete error type
// rather than just checking for any error.
func TestCopySyncFileMissingSourceIsSourceError(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	c := &Copy{}
	err := c.SyncFile(filepath.Join(srcDir, "missing"), filepath.Join(dstDir, "f"))
	require.Error(t, err)

	var sourceErr *SourceError
	require.ErrorAs(t, err, &sourceErr)
}
