package perft

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cricklet/chesscore/internal/game"
	. "github.com/cricklet/chesscore/internal/helpers"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// Result tallies the leaves of a move tree. The move counters describe the
// last move played to reach each leaf.
type Result struct {
	Nodes      int
	Captures   int
	EnPassants int
	Castles    int
	Promotions int
}

func (r *Result) Add(o Result) {
	r.Nodes += o.Nodes
	r.Captures += o.Captures
	r.EnPassants += o.EnPassants
	r.Castles += o.Castles
	r.Promotions += o.Promotions
}

func (r Result) String() string {
	return fmt.Sprintf("nodes: %v, captures: %v, en passants: %v, castles: %v, promotions: %v",
		humanize.Comma(int64(r.Nodes)), r.Captures, r.EnPassants, r.Castles, r.Promotions)
}

func leaf(m game.Move) Result {
	r := Result{Nodes: 1}
	if m.IsCapture() {
		r.Captures++
	}
	if m.IsEnPassant() {
		r.EnPassants++
	}
	if m.IsCastle() {
		r.Castles++
	}
	if m.IsPromotion() {
		r.Promotions++
	}
	return r
}

func checkDepth(p *game.Position, depth int) {
	if depth < 0 || p.Ply()+depth > p.MaxPly() {
		Panicf("perft depth %v from ply %v exceeds the %v ply buffer", depth, p.Ply(), p.MaxPly())
	}
}

// Count walks every legal line to the given depth and leaves the position
// as it found it.
func Count(p *game.Position, depth int) Result {
	checkDepth(p, depth)
	return count(p, depth)
}

func count(p *game.Position, depth int) Result {
	if depth == 0 {
		return Result{Nodes: 1}
	}
	result := Result{}
	for _, sm := range p.Generate() {
		if p.Apply(sm.Move) != nil {
			continue
		}
		if depth == 1 {
			result.Add(leaf(sm.Move))
		} else {
			result.Add(count(p, depth-1))
		}
		p.Unmake()
	}
	return result
}

type Entry struct {
	Move   string
	Result Result
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move < entries[j].Move
	})
}

// Total sums the per-move results of a divide.
func Total(entries []Entry) Result {
	result := Result{}
	for _, e := range entries {
		result.Add(e.Result)
	}
	return result
}

func divideMove(p *game.Position, m game.Move, depth int) (Entry, error) {
	if err := p.Apply(m); err != nil {
		return Entry{}, Errorf("root move %v rejected in %v: %w", m, p.Fen(), err)
	}
	defer p.Unmake()

	if depth == 1 {
		return Entry{Move: m.String(), Result: leaf(m)}, nil
	}
	return Entry{Move: m.String(), Result: count(p, depth-1)}, nil
}

// Divide counts the tree below each legal root move, sorted by move.
func Divide(p *game.Position, depth int) []Entry {
	checkDepth(p, depth)
	if depth == 0 {
		return []Entry{}
	}

	roots := p.LegalMoves()
	entries := make([]Entry, 0, len(roots))
	for _, m := range roots {
		e, err := divideMove(p, m, depth)
		if err != nil {
			panic(err)
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries
}

// DivideParallel is Divide with the root moves spread over workers, each
// searching its own clone of p. progress, if set, is called after every
// root move with the number finished so far.
func DivideParallel(
	ctx context.Context,
	p *game.Position,
	depth int,
	workers int,
	progress func(done, total int),
) ([]Entry, error) {
	checkDepth(p, depth)
	if depth == 0 {
		return []Entry{}, nil
	}

	roots := p.LegalMoves()
	entries := make([]Entry, len(roots))

	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range roots {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- i:
			}
		}
		return nil
	})

	lock := sync.Mutex{}
	done := 0

	for w := 0; w < Max(workers, 1); w++ {
		worker := p.Clone()
		g.Go(func() error {
			for i := range jobs {
				e, err := divideMove(worker, roots[i], depth)
				if err != nil {
					return err
				}
				entries[i] = e

				if progress != nil {
					lock.Lock()
					done++
					progress(done, len(roots))
					lock.Unlock()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}
