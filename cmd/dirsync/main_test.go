package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dirsync/dirsync/internal/strategy"
	syncpkg "github.com/dirsync/dirsync/internal/sync"
)

func TestParseStrategyDefaultsToCopy(t *testing.T) {
	cfg, err := parseStrategy("", "65536")
	require.NoError(t, err)
	require.Equal(t, strategy.KindCopy, cfg.Kind)
}

func TestParseStrategyDeltaParsesHumanSizes(t *testing.T) {
	cfg, err := parseStrategy("delta", "64KiB")
	require.NoError(t, err)
	require.Equal(t, strategy.KindDelta, cfg.Kind)
	require.EqualValues(t, 64*1024, cfg.BlockSize)
}

func TestParseStrategyRejectsUnknownName(t *testing.T) {
	_, err := parseStrategy("rsync", "65536")
	require.Error(t, err)
}

func TestParseStrategyRejectsOversizedBlockSize(t *testing.T) {
	_, err := parseStrategy("delta", "2GiB")
	require.Error(t, err)
}

func TestParseStrategyRejectsZeroBlockSize(t *testing.T) {
	_, err := parseStrategy("delta", "0")
	require.Error(t, err)
}

func TestExitCodeForArgumentErrorIsOne(t *testing.T) {
	err := &syncpkg.Error{Kind: syncpkg.ArgumentError}
	require.Equal(t, 1, exitCodeFor(err))
}

func TestExitCodeForOtherKindsIsTwo(t *testing.T) {
	err := &syncpkg.Error{Kind: syncpkg.DestinationIOError}
	require.Equal(t, 2, exitCodeFor(err))
}
