// Command dirsync brings a destination directory into byte-for-byte
// agreement with a source directory, using either a wholesale copy
// strategy or a rolling-checksum delta strategy. It is the thin CLI
// surface of spec.md §6; all algorithmic and orchestration logic lives in
// internal/sync, internal/strategy, internal/walk, and internal/delta.
package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dirsync/dirsync/internal/logging"
	"github.com/dirsync/dirsync/internal/report"
	"github.com/dirsync/dirsync/internal/strategy"
	syncpkg "github.com/dirsync/dirsync/internal/sync"
)

// configuration stores configuration for the sync command, mirroring the
// reference codebase's flat configuration-struct-plus-flags convention
// (cmd/mutagen/sync/create.go).
var configuration struct {
	strategyName string
	blockSize    string
	dryRun       bool
	verbose      bool
}

var rootCommand = &cobra.Command{
	Use:          "dirsync <source> <destination>",
	Short:        "Synchronize a destination directory tree to match a source directory tree",
	Args:         cobra.ExactArgs(2),
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	flags := rootCommand.Flags()
	flags.SortFlags = false
	flags.StringVar(&configuration.strategyName, "strategy", "copy", "synchronization strategy to use (copy|delta)")
	flags.StringVar(&configuration.blockSize, "block-size", "65536", "delta block size in bytes, accepts human-friendly suffixes (e.g. 64KiB); only meaningful with --strategy delta")
	flags.BoolVar(&configuration.dryRun, "dry-run", false, "report planned actions without mutating the destination")
	flags.BoolVarP(&configuration.verbose, "verbose", "v", false, "also report skipped entries")
}

func run(command *cobra.Command, arguments []string) error {
	source, destination := arguments[0], arguments[1]

	cfg, err := parseStrategy(configuration.strategyName, configuration.blockSize)
	if err != nil {
		Error(err)
		os.Exit(1)
	}

	reporter := &report.ConsoleReporter{Out: os.Stdout, Verbose: configuration.verbose}

	logger := logging.RootLogger.Sublogger("dirsync")

	stats, runErr := syncpkg.Run(syncpkg.Options{
		Source:      source,
		Destination: destination,
		Strategy:    cfg,
		DryRun:      configuration.dryRun,
		Reporter:    reporter.Reporter(),
		Verbose:     configuration.verbose,
		Logger:      logger,
	})
	if runErr != nil {
		Error(runErr)
		os.Exit(exitCodeFor(runErr))
	}

	var transferred, saved uint64
	for _, s := range stats {
		transferred += s.BytesTransferred
		saved += s.BytesSaved
	}
	reporter.Summary(transferred, saved)

	return nil
}

// parseStrategy validates and converts the --strategy/--block-size flags
// into a strategy.Config, failing fast with an ArgumentError-shaped message
// before any filesystem access, per spec.md §7's fail-fast validation rule.
func parseStrategy(name, blockSizeText string) (strategy.Config, error) {
	switch name {
	case "copy", "":
		return strategy.Config{Kind: strategy.KindCopy}, nil
	case "delta":
		size, err := humanize.ParseBytes(blockSizeText)
		if err != nil {
			return strategy.Config{}, errors.Wrapf(err, "invalid --block-size %q", blockSizeText)
		}
		if size == 0 || size > strategy.MaxBlockSize {
			return strategy.Config{}, errors.Errorf("--block-size must be in [1, %d], got %d", strategy.MaxBlockSize, size)
		}
		return strategy.Config{Kind: strategy.KindDelta, BlockSize: uint32(size)}, nil
	default:
		return strategy.Config{}, errors.Errorf("unknown --strategy %q (expected copy or delta)", name)
	}
}

// exitCodeFor maps a sync failure to the exit codes of spec.md §6: 1 for
// argument errors, 2 for everything else (I/O or strategy failures).
func exitCodeFor(err error) int {
	if syncErr, ok := err.(*syncpkg.Error); ok && syncErr.Kind == syncpkg.ArgumentError {
		return 1
	}
	return 2
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		Error(err)
		os.Exit(1)
	}
}
