package game

import (
	"strings"

	. "github.com/cricklet/chesscore/internal/geometry"
	. "github.com/cricklet/chesscore/internal/helpers"
	"github.com/cricklet/chesscore/internal/zobrist"
)

type CastleRights uint8

const (
	LightKingSide CastleRights = 1 << iota
	LightQueenSide
	DarkKingSide
	DarkQueenSide

	AllCastleRights = LightKingSide | LightQueenSide | DarkKingSide | DarkQueenSide
)

func (c CastleRights) Has(rights CastleRights) bool {
	return c&rights == rights
}

func (c CastleRights) String() string {
	s := ""
	for i, letter := range []string{"K", "Q", "k", "q"} {
		if c.Has(CastleRights(1 << i)) {
			s += letter
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

// Position is the board and all state needed to apply and take back moves.
// Only Apply, Unmake and the setup functions write to it.
type Position struct {
	piece [64]PieceKind
	color [64]Color

	side      Color
	xside     Color
	castle    CastleRights
	enPassant Square
	fifty     int
	fullMove  int
	hash      uint64

	// ply counts plies applied since the last SetRoot and indexes the
	// generation buffer. hply counts every ply on the history stack.
	ply     int
	hply    int
	history []HistoryEntry

	gen GenBuffer

	keys     *zobrist.Keys
	table    *HistoryTable
	logger   Logger
	checking bool
}

var initialPieces = [64]PieceKind{
	Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook,
	Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn,
	NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece,
	NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece,
	NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece,
	NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece, NoPiece,
	Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn,
	Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook,
}

var initialColors = func() [64]Color {
	result := [64]Color{}
	for sq := range result {
		switch {
		case sq < 16:
			result[sq] = Dark
		case sq >= 48:
			result[sq] = Light
		default:
			result[sq] = NoColor
		}
	}
	return result
}()

func newPosition(opts []Option) *Position {
	o := buildOptions(opts)
	p := &Position{
		keys:     keysFor(o.Seed),
		table:    o.HistoryTable,
		logger:   o.Logger,
		checking: o.InvariantChecks,
		history:  make([]HistoryEntry, o.MaxHistory),
		gen:      newGenBuffer(o.MaxPly),
	}
	p.clearBoard()
	return p
}

func (p *Position) clearBoard() {
	for sq := range p.piece {
		p.piece[sq] = NoPiece
		p.color[sq] = NoColor
	}
	p.side = Light
	p.xside = Dark
	p.castle = 0
	p.enPassant = NoSquare
	p.fifty = 0
	p.fullMove = 1
	p.ply = 0
	p.hply = 0
	p.gen.reset()
	p.hash = p.ComputeHash()
}

// NewStandard builds the initial chess position. The hash keys are derived
// before the board is populated so the stored hash is valid on return.
func NewStandard(opts ...Option) *Position {
	p := newPosition(opts)
	p.Reset()
	return p
}

// Reset puts the standard starting position back on the board and discards
// all history.
func (p *Position) Reset() {
	p.clearBoard()
	p.piece = initialPieces
	p.color = initialColors
	p.castle = AllCastleRights
	p.hash = p.ComputeHash()
}

func (p *Position) PieceAt(sq Square) PieceKind {
	return p.piece[sq]
}

func (p *Position) ColorAt(sq Square) Color {
	return p.color[sq]
}

func (p *Position) IsEmpty(sq Square) bool {
	return p.color[sq] == NoColor
}

func (p *Position) Side() Color {
	return p.side
}

func (p *Position) XSide() Color {
	return p.xside
}

func (p *Position) Castling() CastleRights {
	return p.castle
}

// EnPassant is the square a pawn just skipped over, or NoSquare.
func (p *Position) EnPassant() Square {
	return p.enPassant
}

func (p *Position) HalfMoveClock() int {
	return p.fifty
}

func (p *Position) FullMoveNumber() int {
	return p.fullMove
}

func (p *Position) Hash() uint64 {
	return p.hash
}

func (p *Position) Ply() int {
	return p.ply
}

// HistoryPly is the number of plies applied since setup.
func (p *Position) HistoryPly() int {
	return p.hply
}

func (p *Position) Keys() *zobrist.Keys {
	return p.keys
}

// MaxPly is how many plies past the root the generation buffer holds.
func (p *Position) MaxPly() int {
	return p.gen.MaxPly()
}

func (p *Position) HistoryTable() *HistoryTable {
	return p.table
}

// ComputeHash recomputes the Zobrist key from scratch.
func (p *Position) ComputeHash() uint64 {
	return p.keys.Hash(&p.piece, &p.color, p.side, p.enPassant)
}

// SetRoot makes the current position the root of a new search: the
// generation buffer starts over at ply 0. History is kept so moves played
// so far can still be taken back.
func (p *Position) SetRoot() {
	p.ply = 0
	p.gen.reset()
}

// Line returns the moves on the history stack, oldest first.
func (p *Position) Line() []Move {
	result := make([]Move, p.hply)
	for i := 0; i < p.hply; i++ {
		result[i] = p.history[i].Move
	}
	return result
}

// Repetitions counts earlier positions, within the reach of the half-move
// clock, that are identical to the current one.
func (p *Position) Repetitions() int {
	count := 0
	for i := p.hply - 1; i >= 0 && i >= p.hply-p.fifty; i-- {
		if p.history[i].Hash == p.hash {
			count++
		}
	}
	return count
}

func (p *Position) IsFiftyMoveDraw() bool {
	return p.fifty >= 100
}

// Clone returns an independent copy that can be searched concurrently with
// p. Keys and the history table are shared read-only.
func (p *Position) Clone() *Position {
	c := *p
	c.history = make([]HistoryEntry, len(p.history))
	copy(c.history, p.history)
	c.gen = p.gen.clone()
	return &c
}

// State is a plain copy of every observable field of a Position.
type State struct {
	Pieces         [64]PieceKind
	Colors         [64]Color
	Side           Color
	XSide          Color
	Castling       CastleRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
	Hash           uint64
	Ply            int
	HistoryPly     int
}

func (p *Position) Snapshot() State {
	return State{
		Pieces:         p.piece,
		Colors:         p.color,
		Side:           p.side,
		XSide:          p.xside,
		Castling:       p.castle,
		EnPassant:      p.enPassant,
		HalfMoveClock:  p.fifty,
		FullMoveNumber: p.fullMove,
		Hash:           p.hash,
		Ply:            p.ply,
		HistoryPly:     p.hply,
	}
}

// Validate checks the occupancy invariant, the side fields and the stored
// hash against a full recomputation.
func (p *Position) Validate() Error {
	for sq := Square(0); sq < 64; sq++ {
		if (p.color[sq] == NoColor) != (p.piece[sq] == NoPiece) {
			return Errorf("occupancy mismatch on %v: piece %v color %v", sq, p.piece[sq], p.color[sq])
		}
	}
	if p.xside != p.side.Other() {
		return Errorf("side %v and xside %v disagree", p.side, p.xside)
	}
	if hash := p.ComputeHash(); hash != p.hash {
		return Errorf("stored hash %x, recomputed %x", p.hash, hash)
	}
	return NilError
}

func (p *Position) checkInvariants(op string) {
	if !p.checking {
		return
	}
	if err := p.Validate(); err.HasError() {
		p.logger.Printf("%v broke invariants at %v: %v\n", op, p.Fen(), err)
		panic(err)
	}
}

func (p *Position) String() string {
	result := strings.Builder{}
	for rank := Rank(0); rank < 8; rank++ {
		result.WriteString(rank.String() + " ")
		for file := File(0); file < 8; file++ {
			sq := SquareAt(file, rank)
			if p.color[sq] == NoColor {
				result.WriteString(" .")
			} else {
				result.WriteString(" " + Letter(p.color[sq], p.piece[sq]))
			}
		}
		result.WriteString("\n")
	}
	result.WriteString("\n   a b c d e f g h\n")
	return result.String()
}
