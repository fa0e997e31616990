package game

import (
	"errors"

	. "github.com/cricklet/chesscore/internal/geometry"
	. "github.com/cricklet/chesscore/internal/helpers"
)

// ErrIllegalMove is returned by Apply when a move would leave the mover's
// king attacked or castles through check. The position is unchanged.
var ErrIllegalMove = errors.New("illegal move")

// HistoryEntry is the state Apply overwrites, pushed once per applied ply.
type HistoryEntry struct {
	Move      Move
	Captured  PieceKind
	Castle    CastleRights
	EnPassant Square
	Fifty     int
	Hash      uint64
}

func (p *Position) place(sq Square, c Color, kind PieceKind) {
	p.piece[sq] = kind
	p.color[sq] = c
}

func (p *Position) clear(sq Square) {
	p.piece[sq] = NoPiece
	p.color[sq] = NoColor
}

func (p *Position) checkMove(m Move) {
	if !m.from.IsValid() || !m.to.IsValid() {
		Panicf("move %v has squares off the board", m.DebugString())
	}
	if p.color[m.from] != p.side {
		Panicf("move %v does not start on a %v piece in %v", m.DebugString(), p.side, p.Fen())
	}
}

// Apply plays a generated move. On ErrIllegalMove nothing has changed; on
// success the move is on the history stack and Unmake takes it back.
func (p *Position) Apply(m Move) error {
	p.checkMove(m)
	if p.hply >= len(p.history) {
		Panicf("history overflow after %v plies", p.hply)
	}

	side, xside := p.side, p.xside
	keys := p.keys

	captured := NoPiece
	capturedAt := m.to
	if m.IsEnPassant() {
		captured = Pawn
		capturedAt = Step(m.to, PawnPush(xside))
	} else if m.IsCapture() {
		captured = p.piece[m.to]
	}

	p.history[p.hply] = HistoryEntry{
		Move:      m,
		Captured:  captured,
		Castle:    p.castle,
		EnPassant: p.enPassant,
		Fifty:     p.fifty,
		Hash:      p.hash,
	}
	p.hply++

	hash := p.hash

	if m.IsCastle() {
		c := castlingFor(side, m.to)
		if !p.castlePiecesHome(c) || !p.castlePathEmpty(c) || p.InCheck(side) || !p.castlePathSafe(c) {
			p.hply--
			return ErrIllegalMove
		}
		hash ^= keys.PieceAt(side, Rook, c.rookFrom) ^ keys.PieceAt(side, Rook, c.rookTo)
		p.clear(c.rookFrom)
		p.place(c.rookTo, side, Rook)
	}

	p.castle &= castleMask[m.from] & castleMask[m.to]

	if p.enPassant != NoSquare {
		hash ^= keys.EnPassantAt(p.enPassant)
	}
	p.enPassant = NoSquare
	if m.IsDoublePush() {
		p.enPassant = Step(m.from, PawnPush(side))
		hash ^= keys.EnPassantAt(p.enPassant)
	}

	if captured != NoPiece || m.IsPawnMove() {
		p.fifty = 0
	} else {
		p.fifty++
	}

	moving := p.piece[m.from]
	placed := moving
	if m.IsPromotion() {
		placed = m.promotion
	}
	if captured != NoPiece {
		hash ^= keys.PieceAt(xside, captured, capturedAt)
		p.clear(capturedAt)
	}
	hash ^= keys.PieceAt(side, moving, m.from) ^ keys.PieceAt(side, placed, m.to)
	p.clear(m.from)
	p.place(m.to, side, placed)

	if side == Dark {
		p.fullMove++
	}
	p.side, p.xside = xside, side
	p.hash = hash ^ keys.Side
	p.ply++

	if p.InCheck(side) {
		p.Unmake()
		return ErrIllegalMove
	}

	if p.checking {
		p.checkInvariants("apply " + m.String())
	}
	return nil
}

// Unmake takes back the last applied move. Calling it with nothing on the
// history stack is a programming error.
func (p *Position) Unmake() {
	if p.hply == 0 {
		Panicf("unmake with an empty history")
	}
	p.hply--
	if p.ply > 0 {
		p.ply--
	}

	entry := &p.history[p.hply]
	m := entry.Move

	p.side, p.xside = p.xside, p.side
	side, xside := p.side, p.xside
	if side == Dark {
		p.fullMove--
	}

	p.castle = entry.Castle
	p.enPassant = entry.EnPassant
	p.fifty = entry.Fifty
	p.hash = entry.Hash

	moving := p.piece[m.to]
	if m.IsPromotion() {
		moving = Pawn
	}
	p.clear(m.to)
	p.place(m.from, side, moving)

	if entry.Captured != NoPiece {
		capturedAt := m.to
		if m.IsEnPassant() {
			capturedAt = Step(m.to, PawnPush(xside))
		}
		p.place(capturedAt, xside, entry.Captured)
	}

	if m.IsCastle() {
		c := castlingFor(side, m.to)
		p.clear(c.rookTo)
		p.place(c.rookFrom, side, Rook)
	}

	if p.checking {
		p.checkInvariants("unmake " + m.String())
	}
}

// LastMove is the most recent move on the history stack.
func (p *Position) LastMove() Optional[Move] {
	if p.hply == 0 {
		return Empty[Move]()
	}
	return Some(p.history[p.hply-1].Move)
}
