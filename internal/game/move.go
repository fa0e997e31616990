package game

import (
	"fmt"

	. "github.com/cricklet/chesscore/internal/geometry"
)

type MoveFlags uint8

const (
	FlagCapture MoveFlags = 1 << iota
	FlagCastle
	FlagEnPassant
	FlagDoublePush
	FlagPawnMove
	FlagPromotion
)

func (f MoveFlags) Has(flag MoveFlags) bool {
	return f&flag != 0
}

// Move is only built by the generator, so its flags always agree with the
// board it was generated on. Moves compare field-wise with ==.
type Move struct {
	from      Square
	to        Square
	promotion PieceKind
	flags     MoveFlags
}

var NoMove = Move{NoSquare, NoSquare, NoPiece, 0}

func (m Move) From() Square {
	return m.from
}

func (m Move) To() Square {
	return m.to
}

// Promotion is NoPiece unless the move is a promotion.
func (m Move) Promotion() PieceKind {
	return m.promotion
}

func (m Move) Flags() MoveFlags {
	return m.flags
}

func (m Move) IsCapture() bool {
	return m.flags.Has(FlagCapture)
}

func (m Move) IsCastle() bool {
	return m.flags.Has(FlagCastle)
}

func (m Move) IsEnPassant() bool {
	return m.flags.Has(FlagEnPassant)
}

func (m Move) IsDoublePush() bool {
	return m.flags.Has(FlagDoublePush)
}

func (m Move) IsPawnMove() bool {
	return m.flags.Has(FlagPawnMove)
}

func (m Move) IsPromotion() bool {
	return m.flags.Has(FlagPromotion)
}

// String is coordinate notation: "e2e4", "e7e8q".
func (m Move) String() string {
	if m.IsPromotion() {
		return m.from.String() + m.to.String() + m.promotion.String()
	}
	return m.from.String() + m.to.String()
}

func (m Move) DebugString() string {
	s := m.String()
	if m.IsCapture() {
		s = m.from.String() + "x" + m.to.String()
		if m.IsPromotion() {
			s += m.promotion.String()
		}
	}
	return fmt.Sprintf("%v (flags %06b)", s, m.flags)
}

type ScoredMove struct {
	Move  Move
	Score int
}

const CaptureScore = 1000000

// HistoryTable scores quiet moves by (from, to). The generator only reads
// it; searches update it through Record.
type HistoryTable [64][64]int

func (h *HistoryTable) Score(m Move) int {
	return h[m.from][m.to]
}

func (h *HistoryTable) Record(m Move, depth int) {
	h[m.from][m.to] += depth * depth
}

func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}
