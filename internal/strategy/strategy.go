// Package strategy implements the Strategy capability of spec.md §9: a
// single sync_file(source, destination) operation, with Copy and Delta as
// its two implementations.
package strategy

// Strategy mirrors a single source file to a destination path.
type Strategy interface {
	// SyncFile brings destination into byte-for-byte agreement with
	// source, using whatever technique the implementation provides.
	SyncFile(source, destination string) error
}

// Kind identifies which strategy a StrategyConfig selects, per spec.md §3's
// StrategyConfig tagged variant.
type Kind int

const (
	KindCopy Kind = iota
	KindDelta
)

// Config is spec.md §3's StrategyConfig: COPY or DELTA{block_size}.
type Config struct {
	Kind      Kind
	BlockSize uint32
}

// DefaultBlockSize is the default delta block size, per spec.md §3
// ("block_size default is 64 KiB").
const DefaultBlockSize = 64 * 1024

// MaxBlockSize is the upper bound of the valid block size range from
// spec.md §3 ("valid range is [1, 2^30]").
const MaxBlockSize = 1 << 30
