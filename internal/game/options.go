package game

import (
	. "github.com/cricklet/chesscore/internal/helpers"
	"github.com/cricklet/chesscore/internal/zobrist"
)

const (
	DefaultMaxPly     = 64
	DefaultMaxHistory = 1024

	// MovesPerPly bounds pseudo-legal moves in any reachable position
	// (the legal maximum is 218).
	MovesPerPly = 256
)

type Options struct {
	Seed            int64
	MaxPly          int
	MaxHistory      int
	Logger          Logger
	HistoryTable    *HistoryTable
	InvariantChecks bool
}

type Option func(*Options)

func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithMaxPly sizes the generation buffer for searches up to maxPly deep.
func WithMaxPly(maxPly int) Option {
	return func(o *Options) {
		o.MaxPly = maxPly
	}
}

// WithMaxHistory sizes the undo stack: the most plies that can be applied
// since the position was set up.
func WithMaxHistory(maxHistory int) Option {
	return func(o *Options) {
		o.MaxHistory = maxHistory
	}
}

func WithLogger(logger Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithHistoryTable(table *HistoryTable) Option {
	return func(o *Options) {
		o.HistoryTable = table
	}
}

// WithInvariantChecks re-verifies the occupancy and hash invariants after
// every Apply and Unmake. Slow, meant for tests and debugging.
func WithInvariantChecks(enabled bool) Option {
	return func(o *Options) {
		o.InvariantChecks = enabled
	}
}

func buildOptions(opts []Option) Options {
	o := Options{
		Seed:       zobrist.DefaultSeed,
		MaxPly:     DefaultMaxPly,
		MaxHistory: DefaultMaxHistory,
		Logger:     &SilentLogger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxPly < 1 {
		Panicf("max ply must be positive, got %v", o.MaxPly)
	}
	if o.MaxHistory < 1 {
		Panicf("max history must be positive, got %v", o.MaxHistory)
	}
	if o.HistoryTable == nil {
		o.HistoryTable = &HistoryTable{}
	}
	return o
}

func keysFor(seed int64) *zobrist.Keys {
	if seed == zobrist.DefaultSeed {
		return zobrist.DefaultKeys()
	}
	return zobrist.NewKeys(seed)
}
