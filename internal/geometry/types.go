package geometry

import (
	. "github.com/cricklet/chesscore/internal/helpers"
)

// Square indexes the board from a8 (0) to h1 (63): rank = sq >> 3 counts
// down from the 8th rank, file = sq & 7.
type Square int

const NoSquare Square = -1

type File int
type Rank int

const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

const (
	A1 Square = 56 + iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

func (s Square) File() File {
	return File(s & 7)
}

// Rank is the row index counting from the 8th rank (0) down to the 1st (7).
func (s Square) Rank() Rank {
	return Rank(s >> 3)
}

func (s Square) IsValid() bool {
	return s >= 0 && s < 64
}

func SquareAt(f File, r Rank) Square {
	return Square(int(r)<<3 | int(f))
}

func (f File) String() string {
	return [8]string{
		"a", "b", "c", "d", "e", "f", "g", "h",
	}[f]
}

func (r Rank) String() string {
	return [8]string{
		"8", "7", "6", "5", "4", "3", "2", "1",
	}[r]
}

func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return s.File().String() + s.Rank().String()
}

func SquareFromString(s string) (Square, Error) {
	if len(s) != 2 {
		return NoSquare, Errorf("invalid square '%v'", s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if file < 0 || file >= 8 || rank < 0 || rank >= 8 {
		return NoSquare, Errorf("invalid square '%v'", s)
	}
	return SquareAt(File(file), Rank(7-rank)), NilError
}

// MustSquare is for literals in tests and tables.
func MustSquare(s string) Square {
	sq, err := SquareFromString(s)
	if !IsNil(err) {
		panic(err)
	}
	return sq
}

type Color int

const (
	Light Color = iota
	Dark
	NoColor
)

func (c Color) Other() Color {
	return 1 - c
}

func (c Color) String() string {
	return [3]string{
		"light", "dark", "none",
	}[c]
}

type PieceKind int

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPiece
)

var PromotionKinds = [4]PieceKind{Knight, Bishop, Rook, Queen}

// Value is the material value used for capture ordering. The king has no
// material value because it can never be captured.
var Value = [7]int{100, 300, 300, 500, 900, 0, 0}

func (k PieceKind) String() string {
	return [7]string{
		"p", "n", "b", "r", "q", "k", "?",
	}[k]
}

func PieceKindFromByte(c byte) PieceKind {
	switch c {
	case 'p', 'P':
		return Pawn
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	case 'k', 'K':
		return King
	}
	return NoPiece
}

// Letter is the FEN letter for a piece: upper case for light.
func Letter(c Color, k PieceKind) string {
	s := k.String()
	if c == Light {
		return string(s[0] - 'a' + 'A')
	}
	return s
}
