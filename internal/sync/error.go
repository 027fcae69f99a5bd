package sync

import "fmt"

// Kind is the error taxonomy of spec.md §7: a classification, not a type
// hierarchy, so that callers can branch on Kind without needing a chain of
// type assertions.
type Kind int

const (
	// ArgumentError covers invalid block size, missing source,
	// destination not a directory.
	ArgumentError Kind = iota
	// SourceIOError covers source path unreadable, stat failure,
	// permission denied.
	SourceIOError
	// DestinationIOError covers destination unwritable, rename across
	// filesystems, disk full.
	DestinationIOError
	// StrategyError covers delta index exceeding the memory ceiling, or
	// an unsupported entry kind encountered while non-skippable.
	StrategyError
	// Internal covers invariant violations, e.g. an instruction stream
	// that did not reconstruct its declared length.
	Internal
)

// String renders a Kind for display.
func (k Kind) String() string {
	switch k {
	case ArgumentError:
		return "ArgumentError"
	case SourceIOError:
		return "SourceIOError"
	case DestinationIOError:
		return "DestinationIOError"
	case StrategyError:
		return "StrategyError"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the single surfaced failure type for a sync run, carrying the
// context spec.md §7 requires: {kind, path, underlying_message}.
type Error struct {
	Kind       Kind
	Path       string
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Underlying)
}

// Unwrap allows errors.Is/errors.As (and github.com/pkg/errors.Cause) to
// reach the underlying error.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// newError constructs an *Error, the only constructor used across the
// executor so that every fatal condition carries a Kind.
func newError(kind Kind, path string, underlying error) *Error {
	return &Error{Kind: kind, Path: path, Underlying: underlying}
}
