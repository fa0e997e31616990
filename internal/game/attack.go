package game

import (
	. "github.com/cricklet/chesscore/internal/geometry"
	. "github.com/cricklet/chesscore/internal/helpers"
)

// IsAttacked reports whether any piece of color by attacks target.
func (p *Position) IsAttacked(target Square, by Color) bool {
	if !target.IsValid() {
		Panicf("attack query on invalid square %v", int(target))
	}
	for sq := Square(0); sq < 64; sq++ {
		if p.color[sq] != by {
			continue
		}
		kind := p.piece[sq]
		if kind == Pawn {
			for _, offset := range PawnCaptures(by) {
				if Step(sq, offset) == target {
					return true
				}
			}
			continue
		}
		for _, offset := range kind.Offsets() {
			for n := Step(sq, offset); n != NoSquare; n = Step(n, offset) {
				if n == target {
					return true
				}
				if p.color[n] != NoColor || !kind.Slides() {
					break
				}
			}
		}
	}
	return false
}

// KingSquare finds the king of color c.
func (p *Position) KingSquare(c Color) Optional[Square] {
	for sq := Square(0); sq < 64; sq++ {
		if p.piece[sq] == King && p.color[sq] == c {
			return Some(sq)
		}
	}
	return Empty[Square]()
}

// InCheck panics when c has no king: the position was corrupted by code
// that bypassed Apply.
func (p *Position) InCheck(c Color) bool {
	king := p.KingSquare(c)
	if king.IsEmpty() {
		Panicf("no %v king on the board", c)
	}
	return p.IsAttacked(king.Value(), c.Other())
}
