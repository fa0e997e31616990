package game

import (
	. "github.com/cricklet/chesscore/internal/geometry"
	. "github.com/cricklet/chesscore/internal/helpers"
)

type castling struct {
	right    CastleRights
	side     Color
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	// empty must be vacant; safe must not be attacked by the opponent.
	empty []Square
	safe  []Square
}

var castlings = [4]castling{
	{LightKingSide, Light, E1, G1, H1, F1, []Square{F1, G1}, []Square{F1, G1}},
	{LightQueenSide, Light, E1, C1, A1, D1, []Square{B1, C1, D1}, []Square{D1, C1}},
	{DarkKingSide, Dark, E8, G8, H8, F8, []Square{F8, G8}, []Square{F8, G8}},
	{DarkQueenSide, Dark, E8, C8, A8, D8, []Square{B8, C8, D8}, []Square{D8, C8}},
}

// castleMask clears the rights tied to a king or rook home square whenever
// a move starts or ends there.
var castleMask = func() [64]CastleRights {
	result := [64]CastleRights{}
	for sq := range result {
		result[sq] = AllCastleRights
	}
	for _, c := range castlings {
		result[c.kingFrom] &^= c.right
		result[c.rookFrom] &^= c.right
	}
	return result
}()

func castlingFor(side Color, kingTo Square) *castling {
	for i := range castlings {
		if castlings[i].side == side && castlings[i].kingTo == kingTo {
			return &castlings[i]
		}
	}
	Panicf("no castling for %v to %v", side, kingTo)
	return nil
}

func (p *Position) castlePiecesHome(c *castling) bool {
	return p.piece[c.kingFrom] == King && p.color[c.kingFrom] == c.side &&
		p.piece[c.rookFrom] == Rook && p.color[c.rookFrom] == c.side
}

func (p *Position) castlePathEmpty(c *castling) bool {
	for _, sq := range c.empty {
		if p.color[sq] != NoColor {
			return false
		}
	}
	return true
}

func (p *Position) castlePathSafe(c *castling) bool {
	for _, sq := range c.safe {
		if p.IsAttacked(sq, c.side.Other()) {
			return false
		}
	}
	return true
}
