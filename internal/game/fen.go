package game

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/cricklet/chesscore/internal/geometry"
	. "github.com/cricklet/chesscore/internal/helpers"
)

const StartFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type fenFields struct {
	piece     [64]PieceKind
	color     [64]Color
	side      Color
	castle    CastleRights
	enPassant Square
	fifty     int
	fullMove  int
}

func parseBoard(boardStr string, f *fenFields) Error {
	ranks := strings.Split(boardStr, "/")
	if len(ranks) != 8 {
		return Errorf("expected 8 ranks in '%v', found %v", boardStr, len(ranks))
	}
	for sq := range f.piece {
		f.piece[sq] = NoPiece
		f.color[sq] = NoColor
	}
	for rank, rankStr := range ranks {
		file := 0
		for i := 0; i < len(rankStr); i++ {
			c := rankStr[i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			kind := PieceKindFromByte(c)
			if kind == NoPiece {
				return Errorf("unknown piece '%c' in '%v'", c, boardStr)
			}
			if file >= 8 {
				return Errorf("rank %v is wider than 8 squares in '%v'", Rank(rank), boardStr)
			}
			color := Dark
			if c >= 'A' && c <= 'Z' {
				color = Light
			}
			sq := SquareAt(File(file), Rank(rank))
			f.piece[sq] = kind
			f.color[sq] = color
			file++
		}
		if file != 8 {
			return Errorf("rank %v has %v squares in '%v'", Rank(rank), file, boardStr)
		}
	}
	return NilError
}

func validateBoard(f *fenFields) Error {
	kings := [2]int{}
	for sq := Square(0); sq < 64; sq++ {
		if f.color[sq] == NoColor {
			continue
		}
		if f.piece[sq] == King {
			kings[f.color[sq]]++
		}
		if f.piece[sq] == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			return Errorf("pawn on back rank square %v", sq)
		}
	}
	if kings[Light] != 1 || kings[Dark] != 1 {
		return Errorf("expected one king per side, found %v light and %v dark", kings[Light], kings[Dark])
	}
	return NilError
}

func parseFen(s string) (fenFields, Error) {
	f := fenFields{enPassant: NoSquare, fullMove: 1}

	ss := strings.Fields(s)
	if len(ss) != 6 && len(ss) != 4 && len(ss) != 2 {
		return f, Errorf("wrong num %v of fields in '%v'", len(ss), s)
	}

	if err := parseBoard(ss[0], &f); err.HasError() {
		return f, err
	}
	if err := validateBoard(&f); err.HasError() {
		return f, Join(err, Errorf("invalid board in '%v'", s))
	}

	switch ss[1] {
	case "w":
		f.side = Light
	case "b":
		f.side = Dark
	default:
		return f, Errorf("invalid side '%v' in '%v'", ss[1], s)
	}
	// The side to move must not be able to capture a king.
	board := Position{piece: f.piece, color: f.color}
	if board.InCheck(f.side.Other()) {
		return f, Errorf("%v king can be captured with %v to move in '%v'", f.side.Other(), f.side, s)
	}

	castlingStr, enPassantStr := "-", "-"
	if len(ss) >= 4 {
		castlingStr, enPassantStr = ss[2], ss[3]
	}

	if castlingStr != "-" {
		for _, c := range castlingStr {
			switch c {
			case 'K':
				f.castle |= LightKingSide
			case 'Q':
				f.castle |= LightQueenSide
			case 'k':
				f.castle |= DarkKingSide
			case 'q':
				f.castle |= DarkQueenSide
			default:
				return f, Errorf("invalid castling rights '%v' in '%v'", castlingStr, s)
			}
		}
	}
	// Rights whose king or rook has left home can never be used.
	for i := range castlings {
		c := &castlings[i]
		home := f.piece[c.kingFrom] == King && f.color[c.kingFrom] == c.side &&
			f.piece[c.rookFrom] == Rook && f.color[c.rookFrom] == c.side
		if !home {
			f.castle &^= c.right
		}
	}

	if enPassantStr != "-" {
		sq, err := SquareFromString(enPassantStr)
		if err.HasError() {
			return f, Join(err, Errorf("invalid en-passant target in '%v'", s))
		}
		xside := f.side.Other()
		pawn := Step(sq, PawnPush(xside))
		skipped := Step(SquareAt(sq.File(), PawnHomeRank(xside)), PawnPush(xside))
		valid := sq == skipped &&
			f.color[sq] == NoColor &&
			f.piece[pawn] == Pawn && f.color[pawn] == xside
		if !valid {
			return f, Errorf("en-passant target %v does not follow a double push in '%v'", sq, s)
		}
		f.enPassant = sq
	}

	if len(ss) == 6 {
		fifty, err := strconv.Atoi(ss[4])
		if err != nil || fifty < 0 {
			return f, Errorf("invalid half move clock '%v' in '%v'", ss[4], s)
		}
		fullMove, err := strconv.Atoi(ss[5])
		if err != nil || fullMove < 1 {
			return f, Errorf("invalid full move number '%v' in '%v'", ss[5], s)
		}
		f.fifty, f.fullMove = fifty, fullMove
	}

	return f, NilError
}

// FromFen builds a position from a FEN string. Two and four field forms
// default the missing fields.
func FromFen(s string, opts ...Option) (*Position, Error) {
	f, err := parseFen(s)
	if err.HasError() {
		return nil, err
	}
	p := newPosition(opts)
	p.load(&f)
	return p, NilError
}

// LoadFen replaces the position and clears its history. A malformed string
// leaves the position untouched.
func (p *Position) LoadFen(s string) Error {
	f, err := parseFen(s)
	if err.HasError() {
		return err
	}
	p.load(&f)
	return NilError
}

func (p *Position) load(f *fenFields) {
	p.clearBoard()
	p.piece = f.piece
	p.color = f.color
	p.side = f.side
	p.xside = f.side.Other()
	p.castle = f.castle
	p.enPassant = f.enPassant
	p.fifty = f.fifty
	p.fullMove = f.fullMove
	p.hash = p.ComputeHash()
}

func (p *Position) boardFen() string {
	s := strings.Builder{}
	for rank := Rank(0); rank < 8; rank++ {
		numSpaces := 0
		for file := File(0); file < 8; file++ {
			sq := SquareAt(file, rank)
			if p.color[sq] == NoColor {
				numSpaces++
				continue
			}
			if numSpaces > 0 {
				s.WriteString(fmt.Sprint(numSpaces))
				numSpaces = 0
			}
			s.WriteString(Letter(p.color[sq], p.piece[sq]))
		}
		if numSpaces > 0 {
			s.WriteString(fmt.Sprint(numSpaces))
		}
		if rank != 7 {
			s.WriteString("/")
		}
	}
	return s.String()
}

func (p *Position) Fen() string {
	side := "w"
	if p.side == Dark {
		side = "b"
	}
	return fmt.Sprintf("%v %v %v %v %v %v",
		p.boardFen(),
		side,
		p.castle,
		p.enPassant,
		p.fifty,
		p.fullMove)
}
