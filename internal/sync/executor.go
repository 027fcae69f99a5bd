// Package sync implements the executor of spec.md §4.F: it drives the
// walker, dispatches each planned file action to the configured strategy,
// honors dry-run, and routes every action to the reporter.
package sync

import (
	stderrors "errors"
	"os"

	"github.com/pkg/errors"

	"github.com/dirsync/dirsync/internal/blockindex"
	"github.com/dirsync/dirsync/internal/delta"
	"github.com/dirsync/dirsync/internal/logging"
	"github.com/dirsync/dirsync/internal/report"
	"github.com/dirsync/dirsync/internal/strategy"
	"github.com/dirsync/dirsync/internal/walk"
)

// Options configures a single call to Run, mirroring spec.md §6's library
// surface: sync(source, destination, strategy?, dry_run=false, reporter?,
// verbose=false).
type Options struct {
	Source      string
	Destination string
	Strategy    strategy.Config
	DryRun      bool
	Reporter    report.Reporter
	Verbose     bool
	Logger      *logging.Logger
}

// Run performs a full synchronization per Options, returning a *Error on any
// I/O or strategy fault (spec.md §6/§7). On success it also returns the
// Delta strategy's stats registry snapshot, which is empty if the COPY
// strategy was used.
func Run(opts Options) (map[string]delta.Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.RootLogger
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.Nop
	}

	srcInfo, err := os.Stat(opts.Source)
	if err != nil {
		return nil, newError(ArgumentError, opts.Source, errors.Wrap(err, "unable to stat source"))
	}
	if !srcInfo.IsDir() {
		return nil, newError(ArgumentError, opts.Source, errors.New("source is not a directory"))
	}

	if opts.Strategy.Kind == strategy.KindDelta {
		if opts.Strategy.BlockSize == 0 {
			opts.Strategy.BlockSize = strategy.DefaultBlockSize
		} else if opts.Strategy.BlockSize > strategy.MaxBlockSize {
			return nil, newError(ArgumentError, "", errors.Errorf("block size %d exceeds maximum %d", opts.Strategy.BlockSize, strategy.MaxBlockSize))
		}
	}

	if destInfo, err := os.Stat(opts.Destination); err == nil {
		if !destInfo.IsDir() {
			return nil, newError(ArgumentError, opts.Destination, errors.New("destination exists and is not a directory"))
		}
	} else if !os.IsNotExist(err) {
		return nil, newError(DestinationIOError, opts.Destination, errors.Wrap(err, "unable to stat destination"))
	} else if !opts.DryRun {
		if err := os.MkdirAll(opts.Destination, srcInfo.Mode().Perm()); err != nil {
			return nil, newError(DestinationIOError, opts.Destination, errors.Wrap(err, "unable to create destination root"))
		}
	}

	copyStrategy := &strategy.Copy{Logger: logger.Sublogger("copy")}
	var deltaStrategy *strategy.Delta
	updateKind := report.CopyFile
	if opts.Strategy.Kind == strategy.KindDelta {
		deltaStrategy = strategy.NewDelta(opts.Strategy.BlockSize, logger.Sublogger("delta"))
		updateKind = report.DeltaFile
	}

	walkLogger := logger.Sublogger("walk")

	err = walk.Walk(opts.Source, opts.Destination, updateKind, func(p walk.Plan) error {
		switch p.Kind {
		case report.CreateDir:
			if !opts.DryRun {
				if err := os.Mkdir(p.DestinationPath, 0o755); err != nil && !os.IsExist(err) {
					return newError(DestinationIOError, p.DestinationPath, errors.Wrap(err, "unable to create directory"))
				}
			}
			reporter(report.Action{Kind: report.CreateDir, Path: p.DestinationPath})
			return nil

		case report.SkipDir:
			if opts.Verbose {
				reporter(report.Action{Kind: report.SkipDir, Path: p.DestinationPath})
			}
			return nil

		case report.SkipFile:
			if opts.Verbose {
				reporter(report.Action{Kind: report.SkipFile, Path: p.DestinationPath, Reason: p.Reason})
			}
			return nil

		case report.CreateFile:
			if !opts.DryRun {
				if err := copyStrategy.SyncFile(p.SourcePath, p.DestinationPath); err != nil {
					return classifyStrategyErr(walkLogger, p.DestinationPath, err)
				}
			}
			reporter(report.Action{Kind: report.CreateFile, Path: p.DestinationPath})
			return nil

		case report.CopyFile:
			if !opts.DryRun {
				if err := copyStrategy.SyncFile(p.SourcePath, p.DestinationPath); err != nil {
					return classifyStrategyErr(walkLogger, p.DestinationPath, err)
				}
			}
			reporter(report.Action{Kind: report.CopyFile, Path: p.DestinationPath})
			return nil

		case report.DeltaFile:
			if !opts.DryRun {
				if err := deltaStrategy.SyncFile(p.SourcePath, p.DestinationPath); err != nil {
					return classifyStrategyErr(walkLogger, p.DestinationPath, err)
				}
			}
			reporter(report.Action{Kind: report.DeltaFile, Path: p.DestinationPath})
			return nil
		}
		return nil
	})

	if err != nil {
		if syncErr, ok := err.(*Error); ok {
			return nil, syncErr
		}
		return nil, newError(SourceIOError, opts.Source, err)
	}

	if deltaStrategy != nil {
		return deltaStrategy.Stats(), nil
	}
	return nil, nil
}

// classifyStrategyErr maps a strategy failure to the appropriate Error
// Kind, per spec.md §7, logging it before the executor aborts the run.
// Strategies mark source-side failures and reconstruction-invariant
// violations with dedicated error types (strategy.SourceError,
// strategy.ReconstructionError) precisely so this function can recover
// that classification instead of defaulting every non-memory-ceiling
// failure to DestinationIOError.
func classifyStrategyErr(logger *logging.Logger, path string, err error) error {
	logger.Error(err)

	var sourceErr *strategy.SourceError
	var reconErr *strategy.ReconstructionError
	switch {
	case errors.Cause(err) == blockindex.ErrMemoryCeilingExceeded:
		return newError(StrategyError, path, err)
	case stderrors.As(err, &sourceErr):
		return newError(SourceIOError, path, err)
	case stderrors.As(err, &reconErr):
		return newError(Internal, path, err)
	default:
		return newError(DestinationIOError, path, err)
	}
}
