package strategy

import "github.com/pkg/errors"

// SourceError marks a failure that occurred while statting, opening, or
// reading the source file, as distinct from a failure touching the
// destination. The executor classifies these as spec.md §7's
// SourceIOError rather than defaulting to DestinationIOError.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string { return e.Err.Error() }
func (e *SourceError) Unwrap() error { return e.Err }

// wrapSource wraps err with message and marks it as source-side, or
// returns nil if err is nil.
func wrapSource(err error, message string) error {
	if err == nil {
		return nil
	}
	return &SourceError{Err: errors.Wrap(err, message)}
}

// ReconstructionError marks a failure where an applied delta instruction
// stream did not reconstruct its declared length: an invariant violation
// rather than an I/O fault, classified as spec.md §7's Internal (the
// taxonomy's own worked example for that kind).
type ReconstructionError struct {
	Err error
}

func (e *ReconstructionError) Error() string { return e.Err.Error() }
func (e *ReconstructionError) Unwrap() error { return e.Err }
