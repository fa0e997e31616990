package game

import (
	. "github.com/cricklet/chesscore/internal/helpers"
)

// GenBuffer holds generated moves for every ply of a search in one arena.
// The moves for ply p live in moves[begin[p]:begin[p+1]].
type GenBuffer struct {
	moves []ScoredMove
	begin []int
}

func newGenBuffer(maxPly int) GenBuffer {
	return GenBuffer{
		moves: make([]ScoredMove, maxPly*MovesPerPly),
		begin: make([]int, maxPly+1),
	}
}

func (b *GenBuffer) MaxPly() int {
	return len(b.begin) - 1
}

func (b *GenBuffer) reset() {
	b.begin[0] = 0
	b.begin[1] = 0
}

func (b *GenBuffer) clone() GenBuffer {
	c := GenBuffer{
		moves: make([]ScoredMove, len(b.moves)),
		begin: make([]int, len(b.begin)),
	}
	copy(c.moves, b.moves)
	copy(c.begin, b.begin)
	return c
}

// fill runs generate into the free space starting at ply and closes the
// ply's range.
func (b *GenBuffer) fill(ply int, generate func([]ScoredMove) []ScoredMove) []ScoredMove {
	if ply < 0 || ply >= b.MaxPly() {
		Panicf("generation at ply %v outside buffer of %v plies", ply, b.MaxPly())
	}
	start := b.begin[ply]
	moves := generate(b.moves[start:start])
	end := start + len(moves)
	if end > len(b.moves) {
		Panicf("generation buffer overflow at ply %v: %v moves", ply, end)
	}
	b.begin[ply+1] = end
	// The next ply has nothing generated until it is filled.
	if ply+2 <= b.MaxPly() {
		b.begin[ply+2] = end
	}
	return b.moves[start:end:end]
}

// at returns the moves last generated for ply.
func (b *GenBuffer) at(ply int) []ScoredMove {
	if b.begin[ply+1] < b.begin[ply] {
		return nil
	}
	return b.moves[b.begin[ply]:b.begin[ply+1]]
}
