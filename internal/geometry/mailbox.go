package geometry

// The mailbox is a 10x12 grid around the board. Stepping off the 8x8 area
// lands on a -1 entry, so walks never need explicit edge checks.
var mailbox = [120]Square{
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, 0, 1, 2, 3, 4, 5, 6, 7, -1,
	-1, 8, 9, 10, 11, 12, 13, 14, 15, -1,
	-1, 16, 17, 18, 19, 20, 21, 22, 23, -1,
	-1, 24, 25, 26, 27, 28, 29, 30, 31, -1,
	-1, 32, 33, 34, 35, 36, 37, 38, 39, -1,
	-1, 40, 41, 42, 43, 44, 45, 46, 47, -1,
	-1, 48, 49, 50, 51, 52, 53, 54, 55, -1,
	-1, 56, 57, 58, 59, 60, 61, 62, 63, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
}

var mailbox64 = func() [64]int {
	result := [64]int{}
	for i, sq := range mailbox {
		if sq != NoSquare {
			result[sq] = i
		}
	}
	return result
}()

// Directional offsets on the padded grid.
const (
	OffsetN  = -10
	OffsetS  = 10
	OffsetE  = 1
	OffsetW  = -1
	OffsetNE = -9
	OffsetNW = -11
	OffsetSE = 11
	OffsetSW = 9
)

var offsets = [6][]int{
	Pawn:   {},
	Knight: {-21, -19, -12, -8, 8, 12, 19, 21},
	Bishop: {OffsetNW, OffsetNE, OffsetSW, OffsetSE},
	Rook:   {OffsetN, OffsetW, OffsetE, OffsetS},
	Queen:  {OffsetNW, OffsetN, OffsetNE, OffsetW, OffsetE, OffsetSW, OffsetS, OffsetSE},
	King:   {OffsetNW, OffsetN, OffsetNE, OffsetW, OffsetE, OffsetSW, OffsetS, OffsetSE},
}

var slides = [6]bool{
	Pawn:   false,
	Knight: false,
	Bishop: true,
	Rook:   true,
	Queen:  true,
	King:   false,
}

// Mailbox returns the padded-grid index of a board square.
func Mailbox(sq Square) int {
	return mailbox64[sq]
}

// FromMailbox maps a padded-grid index back to a square, or NoSquare when
// the index is off the board.
func FromMailbox(index int) Square {
	if index < 0 || index >= len(mailbox) {
		return NoSquare
	}
	return mailbox[index]
}

// Step moves one offset from sq, returning NoSquare when it leaves the board.
func Step(sq Square, offset int) Square {
	return mailbox[mailbox64[sq]+offset]
}

// Offsets lists the directions a non-pawn kind moves in. Pawns are handled
// by PawnPush and PawnCaptures.
func (k PieceKind) Offsets() []int {
	return offsets[k]
}

func (k PieceKind) Slides() bool {
	return slides[k]
}

// PawnPush is the single-step direction a pawn of color c advances in.
func PawnPush(c Color) int {
	if c == Light {
		return OffsetN
	}
	return OffsetS
}

var pawnCaptures = [2][2]int{
	Light: {OffsetNW, OffsetNE},
	Dark:  {OffsetSW, OffsetSE},
}

// PawnCaptures are the two diagonal capture directions for a pawn of c.
func PawnCaptures(c Color) [2]int {
	return pawnCaptures[c]
}

// PawnHomeRank is where a pawn of c may still push two squares.
func PawnHomeRank(c Color) Rank {
	if c == Light {
		return 6
	}
	return 1
}

// PromotionRank is the farthest rank for pawns of c.
func PromotionRank(c Color) Rank {
	if c == Light {
		return 0
	}
	return 7
}
