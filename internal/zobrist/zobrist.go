package zobrist

import (
	"math/rand"

	. "github.com/cricklet/chesscore/internal/geometry"
)

const DefaultSeed int64 = 32879419

// Keys holds one key per (color, kind, square), one for the dark side to
// move, and one per en-passant file. A seed always yields the same keys.
type Keys struct {
	Seed      int64
	Piece     [2][6][64]uint64
	Side      uint64
	EnPassant [8]uint64
}

func NewKeys(seed int64) *Keys {
	r := rand.New(rand.NewSource(seed))
	k := &Keys{Seed: seed}
	for color := Light; color <= Dark; color++ {
		for kind := Pawn; kind <= King; kind++ {
			for sq := 0; sq < 64; sq++ {
				k.Piece[color][kind][sq] = r.Uint64()
			}
		}
	}
	k.Side = r.Uint64()
	for file := 0; file < 8; file++ {
		k.EnPassant[file] = r.Uint64()
	}
	return k
}

var defaultKeys = NewKeys(DefaultSeed)

func DefaultKeys() *Keys {
	return defaultKeys
}

func (k *Keys) PieceAt(c Color, kind PieceKind, sq Square) uint64 {
	return k.Piece[c][kind][sq]
}

// EnPassantAt is keyed by the file of the target square only.
func (k *Keys) EnPassantAt(sq Square) uint64 {
	return k.EnPassant[sq.File()]
}

// Hash recomputes a position key from scratch.
func (k *Keys) Hash(
	pieces *[64]PieceKind,
	colors *[64]Color,
	side Color,
	enPassant Square,
) uint64 {
	hash := uint64(0)
	for sq := Square(0); sq < 64; sq++ {
		if colors[sq] == NoColor {
			continue
		}
		hash ^= k.Piece[colors[sq]][pieces[sq]][sq]
	}
	if side == Dark {
		hash ^= k.Side
	}
	if enPassant != NoSquare {
		hash ^= k.EnPassantAt(enPassant)
	}
	return hash
}
