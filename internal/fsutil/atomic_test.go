package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtomicReplaceCreatesDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")

	err := AtomicReplace(dest, 0o644, func(f *os.File) error {
		_, werr := f.Write([]byte("hello"))
		return werr
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestAtomicReplaceLeavesOriginalUntouchedOnError(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(dest, []byte("original"), 0o644))

	injected := errors.New("injected failure")
	err := AtomicReplace(dest, 0o644, func(f *os.File) error {
		f.Write([]byte("partial"))
		return injected
	})
	require.Error(t, err)

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	require.Equal(t, "original", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file should have been removed")
}

func TestTempNameIsUniqueAndColocated(t *testing.T) {
	dir := t.TempDir()
	a := TempName(dir)
	b := TempName(dir)
	require.NotEqual(t, a, b)
	require.Equal(t, dir, filepath.Dir(a))
}
