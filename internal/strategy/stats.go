package strategy

import (
	"sync"

	"github.com/dirsync/dirsync/internal/delta"
)

// StatsRegistry is a mapping from destination path to delta.Stats, owned by
// a single Delta strategy instance across one sync run, per spec.md §3. It
// is append-only during a run and safe for concurrent readers/writer, so
// that an optimization that adds bounded worker parallelism (spec.md §5)
// can write to it from multiple goroutines while callers of GetFor/All
// observe a consistent snapshot.
type StatsRegistry struct {
	mu   sync.RWMutex
	data map[string]delta.Stats
}

// newStatsRegistry creates an empty registry.
func newStatsRegistry() *StatsRegistry {
	return &StatsRegistry{data: make(map[string]delta.Stats)}
}

// record stores the stats for path, overwriting any prior entry (a path is
// only ever synced once per run).
func (r *StatsRegistry) record(path string, stats delta.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[path] = stats
}

// GetFor returns the stats recorded for path, if any.
func (r *StatsRegistry) GetFor(path string) (delta.Stats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[path]
	return s, ok
}

// All returns a snapshot copy of the full path -> stats mapping.
func (r *StatsRegistry) All() map[string]delta.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]delta.Stats, len(r.data))
	for k, v := range r.data {
		out[k] = v
	}
	return out
}
