package game

import (
	"errors"
	"testing"

	. "github.com/cricklet/chesscore/internal/geometry"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestApplyUnmakeRestoresEverything(t *testing.T) {
	for _, fen := range soundnessFens {
		p := mustFen(t, fen, WithInvariantChecks(true))
		before := p.Snapshot()

		for _, sm := range p.Generate() {
			err := p.Apply(sm.Move)
			if err != nil {
				assert.True(t, errors.Is(err, ErrIllegalMove))
				assert.Empty(t, cmp.Diff(before, p.Snapshot()), "%v rejected %v", fen, sm.Move.DebugString())
				continue
			}
			assert.Equal(t, p.ComputeHash(), p.Hash(), "%v after %v", fen, sm.Move.DebugString())
			assertConsistent(t, p)

			p.Unmake()
			if diff := cmp.Diff(before, p.Snapshot()); diff != "" {
				t.Errorf("%v unmake %v: (-want +got)\n%v", fen, sm.Move.DebugString(), diff)
			}
		}
	}
}

func TestHashConsistencyThroughGame(t *testing.T) {
	p := NewStandard(WithInvariantChecks(true))
	moves := []string{
		"e2e4", "d7d5", "e4d5", "g8f6", "f1b5", "c7c6", "d5c6", "d8a5",
		"c6b7", "a5b5", "b7a8q", "e7e5", "d2d3", "f8d6", "g1f3", "e8g8",
		"e1g1",
	}
	for _, s := range moves {
		play(t, p, s)
		assert.Equal(t, p.ComputeHash(), p.Hash(), "after %v", s)
	}
	assert.Equal(t, "Qnb2rk1/p4ppp/3b1n2/1q2p3/8/3P1N2/PPP2PPP/RNBQ1RK1 b - - 4 9", p.Fen())

	for range moves {
		p.Unmake()
		assert.Equal(t, p.ComputeHash(), p.Hash())
	}
	assert.Equal(t, NewStandard().Snapshot(), p.Snapshot())
}

func TestCastlingRightsArePermanent(t *testing.T) {
	p := mustFen(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	play(t, p, "e1f1")
	assert.False(t, p.Castling().Has(LightKingSide))
	assert.False(t, p.Castling().Has(LightQueenSide))
	assert.True(t, p.Castling().Has(DarkKingSide|DarkQueenSide))

	// The king returns home but the rights stay cleared.
	play(t, p, "a8b8", "f1e1", "b8a8")
	assert.Equal(t, King, p.PieceAt(E1))
	assert.Equal(t, DarkKingSide, p.Castling())
	for _, sm := range p.Generate() {
		assert.False(t, sm.Move.IsCastle())
	}
}

func TestCastlingRightsAfterCastle(t *testing.T) {
	p := mustFen(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	play(t, p, "e1c1")

	assert.False(t, p.Castling().Has(LightKingSide))
	assert.False(t, p.Castling().Has(LightQueenSide))
	assert.True(t, p.Castling().Has(DarkKingSide))
	assert.True(t, p.Castling().Has(DarkQueenSide))
	assert.Equal(t, King, p.PieceAt(C1))
	assert.Equal(t, Rook, p.PieceAt(D1))
	assert.True(t, p.IsEmpty(A1))
	assert.True(t, p.IsEmpty(E1))
	assert.Equal(t, 1, p.HalfMoveClock())

	p.Unmake()
	assert.Equal(t, King, p.PieceAt(E1))
	assert.Equal(t, Rook, p.PieceAt(A1))
	assert.True(t, p.IsEmpty(D1))
	assert.Equal(t, AllCastleRights, p.Castling())
}

func TestCapturingRookClearsRights(t *testing.T) {
	p := mustFen(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, p, "h1h8")
	assert.Equal(t, LightQueenSide|DarkQueenSide, p.Castling())
}

func TestEnPassantTarget(t *testing.T) {
	p := NewStandard()

	play(t, p, "e2e4")
	assert.Equal(t, MustSquare("e3"), p.EnPassant())

	play(t, p, "g8f6")
	assert.Equal(t, NoSquare, p.EnPassant())

	play(t, p, "e4e5", "d7d5")
	assert.Equal(t, MustSquare("d6"), p.EnPassant())

	m := mustMove(t, p, "e5d6")
	assert.True(t, m.IsEnPassant())
	play(t, p, "e5d6")
	assert.Equal(t, NoSquare, p.EnPassant())
	assert.True(t, p.IsEmpty(MustSquare("d5")))
	assert.Equal(t, Pawn, p.PieceAt(MustSquare("d6")))
	assert.Equal(t, Light, p.ColorAt(MustSquare("d6")))
	assert.Equal(t, 0, p.HalfMoveClock())

	p.Unmake()
	assert.Equal(t, MustSquare("d6"), p.EnPassant())
	assert.Equal(t, Pawn, p.PieceAt(MustSquare("d5")))
	assert.Equal(t, Dark, p.ColorAt(MustSquare("d5")))
	assert.True(t, p.IsEmpty(MustSquare("d6")))
	assert.Equal(t, p.ComputeHash(), p.Hash())
}

func TestHalfMoveClock(t *testing.T) {
	p := NewStandard()
	play(t, p, "g1f3", "b8c6")
	assert.Equal(t, 2, p.HalfMoveClock())
	play(t, p, "e2e3")
	assert.Equal(t, 0, p.HalfMoveClock())
	play(t, p, "c6d4", "f3e5")
	assert.Equal(t, 2, p.HalfMoveClock())
	play(t, p, "d4c2")
	assert.Equal(t, 0, p.HalfMoveClock())
}

func TestPromotionUnmake(t *testing.T) {
	p := mustFen(t, "1r5k/P7/8/8/8/8/8/K7 w - - 0 1")
	before := p.Snapshot()

	play(t, p, "a7b8n")
	assert.Equal(t, Knight, p.PieceAt(B8))
	assert.Equal(t, Light, p.ColorAt(B8))
	assert.True(t, p.IsEmpty(MustSquare("a7")))
	assert.Equal(t, p.ComputeHash(), p.Hash())

	p.Unmake()
	assert.Equal(t, Pawn, p.PieceAt(MustSquare("a7")))
	assert.Equal(t, Rook, p.PieceAt(B8))
	assert.Equal(t, Dark, p.ColorAt(B8))
	assert.Empty(t, cmp.Diff(before, p.Snapshot()))
}

func TestKingSafetyRejection(t *testing.T) {
	// The d2 knight is pinned by the bishop on b4.
	p := mustFen(t, "4k3/8/8/8/1b6/8/3N4/4K3 w - - 0 1")
	before := p.Snapshot()
	gen := append([]ScoredMove{}, p.Generate()...)

	err := p.Apply(mustMove(t, p, "d2f3"))
	assert.ErrorIs(t, err, ErrIllegalMove)
	assert.Empty(t, cmp.Diff(before, p.Snapshot()))
	assert.Equal(t, gen, p.GeneratedMoves())
	assert.True(t, p.LastMove().IsEmpty())

	// Stepping the king into check is rejected too.
	p = mustFen(t, "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1")
	before = p.Snapshot()
	assert.ErrorIs(t, p.Apply(mustMove(t, p, "e1e2")), ErrIllegalMove)
	assert.Empty(t, cmp.Diff(before, p.Snapshot()))
	assert.NoError(t, p.Apply(mustMove(t, p, "e1d2")))
}

func TestCastlingThroughCheckRejected(t *testing.T) {
	// f1 is attacked by the bishop on c4.
	p := mustFen(t, "r3k2r/8/8/8/2b5/8/8/R3K2R w KQkq - 0 1")
	before := p.Snapshot()
	assert.ErrorIs(t, p.Apply(mustMove(t, p, "e1g1")), ErrIllegalMove)
	assert.Empty(t, cmp.Diff(before, p.Snapshot()))
	assert.NoError(t, p.Apply(mustMove(t, p, "e1c1")))

	// Castling out of check.
	p = mustFen(t, "r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1")
	before = p.Snapshot()
	assert.ErrorIs(t, p.Apply(mustMove(t, p, "e1g1")), ErrIllegalMove)
	assert.ErrorIs(t, p.Apply(mustMove(t, p, "e1c1")), ErrIllegalMove)
	assert.Empty(t, cmp.Diff(before, p.Snapshot()))

	// b1 may be attacked on the queen side, c1 may not.
	p = mustFen(t, "r3k2r/8/8/8/8/8/8/Rn2K2R w KQkq - 0 1")
	assert.NotContains(t, generatedStrings(p.Generate()), "e1c1")
	p = mustFen(t, "r3k2r/8/8/8/8/8/b7/R3K2R w KQkq - 0 1")
	assert.NoError(t, p.Apply(mustMove(t, p, "e1c1")))
	p = mustFen(t, "r3k2r/8/8/8/8/8/8/Rr2K2R w KQkq - 0 1")
	assert.NotContains(t, generatedStrings(p.Generate()), "e1c1")
	p = mustFen(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	assert.NoError(t, p.Apply(mustMove(t, p, "e1c1")))
}

func TestInCheck(t *testing.T) {
	s := "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	p := mustFen(t, s)
	assert.True(t, p.InCheck(Light))
	assert.False(t, p.InCheck(Dark))
	assert.Len(t, p.LegalMoves(), 6)

	p = mustFen(t, "4k3/8/8/1B6/8/8/8/4K3 b - - 0 1")
	assert.True(t, p.InCheck(Dark))
	assert.True(t, p.IsAttacked(E8, Light))
	assert.False(t, p.IsAttacked(E8, Dark))
	assert.True(t, p.IsAttacked(MustSquare("a6"), Light))
	assert.False(t, p.IsAttacked(MustSquare("a5"), Light))
}

func TestMissingKingPanics(t *testing.T) {
	p := NewStandard()
	p.clear(E1)
	assert.Panics(t, func() {
		p.InCheck(Light)
	})
	assert.True(t, p.KingSquare(Light).IsEmpty())
	assert.Equal(t, E8, p.KingSquare(Dark).Value())
}

func TestPawnAttacks(t *testing.T) {
	p := mustFen(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	assert.True(t, p.IsAttacked(MustSquare("d5"), Light))
	assert.True(t, p.IsAttacked(MustSquare("f5"), Light))
	assert.False(t, p.IsAttacked(MustSquare("e5"), Light))
	assert.True(t, p.IsAttacked(MustSquare("e4"), Dark))
	assert.True(t, p.IsAttacked(MustSquare("c4"), Dark))
	assert.False(t, p.IsAttacked(MustSquare("d4"), Dark))
}

func TestUnmakeWithoutHistoryPanics(t *testing.T) {
	p := NewStandard()
	assert.Panics(t, func() {
		p.Unmake()
	})
}

func TestHistoryOverflowPanics(t *testing.T) {
	p := NewStandard(WithMaxHistory(2))
	play(t, p, "g1f3", "g8f6")
	m := mustMove(t, p, "f3g1")
	assert.Panics(t, func() {
		_ = p.Apply(m)
	})
}

func TestApplyForeignMovePanics(t *testing.T) {
	p := NewStandard()
	m := mustMove(t, p, "e2e4")
	play(t, p, "e2e4")
	assert.Panics(t, func() {
		_ = p.Apply(m)
	})
}
