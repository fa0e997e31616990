package game

import (
	. "github.com/cricklet/chesscore/internal/geometry"
	. "github.com/cricklet/chesscore/internal/helpers"
)

// Generate fills the current ply's range of the generation buffer with
// every pseudo-legal move for the side to move. The returned slice stays
// valid until Generate runs again at this ply or a shallower one.
func (p *Position) Generate() []ScoredMove {
	return p.gen.fill(p.ply, p.generateInto)
}

// GeneratedMoves returns the moves of the last Generate call at the
// current ply.
func (p *Position) GeneratedMoves() []ScoredMove {
	return p.gen.at(p.ply)
}

func (p *Position) generateInto(moves []ScoredMove) []ScoredMove {
	side, xside := p.side, p.xside

	for sq := Square(0); sq < 64; sq++ {
		if p.color[sq] != side {
			continue
		}
		kind := p.piece[sq]

		if kind == Pawn {
			for _, offset := range PawnCaptures(side) {
				to := Step(sq, offset)
				if to != NoSquare && p.color[to] == xside {
					moves = p.addPawnMove(moves, sq, to, FlagCapture|FlagPawnMove)
				}
			}
			push := Step(sq, PawnPush(side))
			if push != NoSquare && p.color[push] == NoColor {
				moves = p.addPawnMove(moves, sq, push, FlagPawnMove)
				if sq.Rank() == PawnHomeRank(side) {
					double := Step(push, PawnPush(side))
					if p.color[double] == NoColor {
						moves = p.add(moves, sq, double, NoPiece, FlagPawnMove|FlagDoublePush)
					}
				}
			}
			continue
		}

		for _, offset := range kind.Offsets() {
			for to := Step(sq, offset); to != NoSquare; to = Step(to, offset) {
				if p.color[to] == xside {
					moves = p.add(moves, sq, to, NoPiece, FlagCapture)
					break
				}
				if p.color[to] == side {
					break
				}
				moves = p.add(moves, sq, to, NoPiece, 0)
				if !kind.Slides() {
					break
				}
			}
		}
	}

	for i := range castlings {
		c := &castlings[i]
		if c.side == side && p.castle.Has(c.right) && p.castlePiecesHome(c) && p.castlePathEmpty(c) {
			moves = p.add(moves, c.kingFrom, c.kingTo, NoPiece, FlagCastle)
		}
	}

	if p.enPassant != NoSquare {
		// Pawns that can capture onto the target sit where an enemy pawn
		// on the target would capture.
		for _, offset := range PawnCaptures(xside) {
			from := Step(p.enPassant, offset)
			if from != NoSquare && p.color[from] == side && p.piece[from] == Pawn {
				moves = p.add(moves, from, p.enPassant, NoPiece, FlagCapture|FlagEnPassant|FlagPawnMove)
			}
		}
	}

	return moves
}

func (p *Position) addPawnMove(moves []ScoredMove, from Square, to Square, flags MoveFlags) []ScoredMove {
	if to.Rank() != PromotionRank(p.side) {
		return p.add(moves, from, to, NoPiece, flags)
	}
	for _, kind := range PromotionKinds {
		moves = p.add(moves, from, to, kind, flags|FlagPromotion)
	}
	return moves
}

func (p *Position) add(moves []ScoredMove, from Square, to Square, promotion PieceKind, flags MoveFlags) []ScoredMove {
	m := Move{from, to, promotion, flags}
	return append(moves, ScoredMove{m, p.score(m)})
}

// score orders captures by most valuable victim, least valuable attacker,
// above every quiet move. Quiet moves take their history table score.
func (p *Position) score(m Move) int {
	score := 0
	if m.IsCapture() {
		victim := p.piece[m.to]
		if m.IsEnPassant() {
			victim = Pawn
		}
		score = CaptureScore + 10*Value[victim] - Value[p.piece[m.from]]
	} else if m.IsPromotion() {
		score = CaptureScore
	} else {
		score = p.table.Score(m)
	}
	if m.IsPromotion() {
		score += 10 * Value[m.promotion]
	}
	return score
}

// MoveFromString finds the generated move with the given coordinate
// notation. It does not touch the generation buffer.
func (p *Position) MoveFromString(s string) (Move, Error) {
	moves := p.generateInto(make([]ScoredMove, 0, MovesPerPly))
	for _, sm := range moves {
		if sm.Move.String() == s {
			return sm.Move, NilError
		}
	}
	return NoMove, Errorf("no move %v in %v", s, p.Fen())
}

// LegalMoves returns the generated moves that Apply accepts, in generation
// order.
func (p *Position) LegalMoves() []Move {
	moves := p.generateInto(make([]ScoredMove, 0, MovesPerPly))
	result := make([]Move, 0, len(moves))
	for _, sm := range moves {
		if p.Apply(sm.Move) == nil {
			p.Unmake()
			result = append(result, sm.Move)
		}
	}
	return result
}
