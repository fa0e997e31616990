package game

import (
	"testing"

	. "github.com/cricklet/chesscore/internal/geometry"
	"github.com/cricklet/chesscore/internal/zobrist"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func pp(t any) string {
	return spew.Sdump(t)
}

func mustFen(t *testing.T, s string, opts ...Option) *Position {
	t.Helper()
	p, err := FromFen(s, opts...)
	if !assert.True(t, err.IsNil(), "%v: %v", s, err) {
		t.FailNow()
	}
	return p
}

func mustMove(t *testing.T, p *Position, s string) Move {
	t.Helper()
	m, err := p.MoveFromString(s)
	if !assert.True(t, err.IsNil(), "%v", err) {
		t.FailNow()
	}
	return m
}

func play(t *testing.T, p *Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		if !assert.NoError(t, p.Apply(mustMove(t, p, s)), "%v in %v", s, p.Fen()) {
			t.FailNow()
		}
	}
}

func assertConsistent(t *testing.T, p *Position) {
	t.Helper()
	assert.True(t, p.Validate().IsNil(), "%v\n%v", p.Validate(), p)
}

func TestInitialPosition(t *testing.T) {
	p := NewStandard()

	assert.Equal(t, StartFen, p.Fen())
	assert.Equal(t, Light, p.Side())
	assert.Equal(t, Dark, p.XSide())
	assert.Equal(t, AllCastleRights, p.Castling())
	assert.Equal(t, NoSquare, p.EnPassant())
	assert.Equal(t, 0, p.HalfMoveClock())
	assert.Equal(t, 1, p.FullMoveNumber())
	assert.Equal(t, 0, p.Ply())
	assert.Equal(t, 0, p.HistoryPly())

	assert.Equal(t, Rook, p.PieceAt(A8))
	assert.Equal(t, Dark, p.ColorAt(A8))
	assert.Equal(t, King, p.PieceAt(E1))
	assert.Equal(t, Light, p.ColorAt(E1))
	assert.Equal(t, Queen, p.PieceAt(D1))
	assert.True(t, p.IsEmpty(MustSquare("e4")))
	assert.Equal(t, NoPiece, p.PieceAt(MustSquare("e4")))

	assert.Equal(t, p.ComputeHash(), p.Hash())
	assertConsistent(t, p)
}

func TestInitialPositionMatchesFen(t *testing.T) {
	fromFen := mustFen(t, StartFen)
	assert.Empty(t, cmp.Diff(NewStandard().Snapshot(), fromFen.Snapshot()))
}

func TestSeedChangesHash(t *testing.T) {
	a := NewStandard()
	b := NewStandard(WithSeed(zobrist.DefaultSeed))
	c := NewStandard(WithSeed(99))

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.Equal(t, c.ComputeHash(), c.Hash())
}

func TestHashIdentifiesTranspositions(t *testing.T) {
	a := NewStandard()
	play(t, a, "g1f3", "g8f6", "b1c3")

	b := NewStandard()
	play(t, b, "b1c3", "g8f6", "g1f3")

	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, a.boardFen(), b.boardFen())

	// Same board, but one has an en-passant target.
	c := NewStandard()
	play(t, c, "e2e4")
	d := mustFen(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	assert.NotEqual(t, c.Hash(), d.Hash())
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewStandard()
	play(t, p, "e2e4")

	c := p.Clone()
	assert.Empty(t, cmp.Diff(p.Snapshot(), c.Snapshot()))

	play(t, c, "e7e5")
	assert.NotEqual(t, p.Hash(), c.Hash())
	assert.Equal(t, 1, p.HistoryPly())
	assert.Equal(t, 2, c.HistoryPly())

	c.Unmake()
	c.Unmake()
	assert.Equal(t, NewStandard().Snapshot(), c.Snapshot())
	assert.Equal(t, "e2e4", p.LastMove().Value().String())
}

func TestSetRootKeepsHistory(t *testing.T) {
	p := NewStandard()
	play(t, p, "e2e4", "e7e5")
	assert.Equal(t, 2, p.Ply())

	p.SetRoot()
	assert.Equal(t, 0, p.Ply())
	assert.Equal(t, 2, p.HistoryPly())
	assert.Equal(t, []string{"e2e4", "e7e5"}, movesToStrings(p.Line()))

	p.Unmake()
	assert.Equal(t, 0, p.Ply())
	assert.Equal(t, 1, p.HistoryPly())
	assert.Len(t, p.Generate(), 20)
}

func TestRepetitions(t *testing.T) {
	p := NewStandard()
	assert.Equal(t, 0, p.Repetitions())

	play(t, p, "g1f3", "g8f6", "f3g1", "f6g8")
	assert.Equal(t, 1, p.Repetitions())
	play(t, p, "g1f3", "g8f6", "f3g1", "f6g8")
	assert.Equal(t, 2, p.Repetitions())

	play(t, p, "e2e4")
	assert.Equal(t, 0, p.Repetitions())
}

func TestFiftyMoveDraw(t *testing.T) {
	p := mustFen(t, "8/8/4k3/8/8/4K3/8/7R w - - 99 80")
	assert.False(t, p.IsFiftyMoveDraw())
	play(t, p, "h1h2")
	assert.True(t, p.IsFiftyMoveDraw())
	assert.Equal(t, 80, p.FullMoveNumber())
	play(t, p, "e6e5")
	assert.Equal(t, 81, p.FullMoveNumber())
}

func TestString(t *testing.T) {
	s := NewStandard().String()
	assert.Contains(t, s, "8  r n b q k b n r")
	assert.Contains(t, s, "1  R N B Q K B N R")
	assert.Contains(t, s, "   a b c d e f g h")
}

func movesToStrings(moves []Move) []string {
	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = m.String()
	}
	return result
}
