// Package report defines the Reporter capability and the SyncAction event it
// observes, per spec.md §3/§4.G.
package report

// Kind enumerates the kinds of planned/materialized actions the executor
// reports, per spec.md §3's SyncAction.
type Kind int

const (
	CreateDir Kind = iota
	CopyFile
	DeltaFile
	SkipFile
	SkipDir
	CreateFile
)

// String renders a Kind for display.
func (k Kind) String() string {
	switch k {
	case CreateDir:
		return "CREATE_DIR"
	case CopyFile:
		return "COPY_FILE"
	case DeltaFile:
		return "DELTA_FILE"
	case SkipFile:
		return "SKIP_FILE"
	case SkipDir:
		return "SKIP_DIR"
	case CreateFile:
		return "CREATE_FILE"
	default:
		return "UNKNOWN"
	}
}

// Action is a single reported event: an entry the planner considered, and
// what was decided (and, in non-dry-run mode, completed) for it.
type Action struct {
	Kind   Kind
	Path   string
	Reason string
}

// Reporter is a callable observer of Actions, per spec.md §4.G /
// §6 ("A Reporter capability: a callable of (SyncAction) -> void"). The
// executor invokes it synchronously immediately after each action is
// completed (or, in dry-run, after it is decided).
type Reporter func(Action)

// Nop is a Reporter that discards every action.
func Nop(Action) {}
