package server

import (
	"fmt"
	"sort"

	"github.com/cricklet/chesscore/internal/game"
	. "github.com/cricklet/chesscore/internal/geometry"
	"github.com/cricklet/chesscore/internal/perft"
)

type UpdateToWeb struct {
	FenString     string   `json:"fenString"`
	LastMove      string   `json:"lastMove"`
	PossibleMoves []string `json:"possibleMoves"`
	Player        string   `json:"player"`
	InCheck       bool     `json:"inCheck"`
	Error         string   `json:"error,omitempty"`
}

func (u UpdateToWeb) String() string {
	return fmt.Sprint("UpdateToWeb: ", u.FenString, ", ", u.LastMove, ", ", u.PossibleMoves)
}

// MessageFromWeb carries exactly one request; the first non-nil field wins.
type MessageFromWeb struct {
	NewFen *string `json:"newFen"`
	Move   *string `json:"move"`
	Rewind *int    `json:"rewind"`
	Book   *bool   `json:"book"`
}

func (u MessageFromWeb) String() string {
	if u.NewFen != nil {
		return fmt.Sprint("MessageFromWeb NewFen: ", *u.NewFen)
	}
	if u.Move != nil {
		return fmt.Sprint("MessageFromWeb Move: ", *u.Move)
	}
	if u.Rewind != nil {
		return fmt.Sprint("MessageFromWeb Rewind: ", *u.Rewind)
	}
	if u.Book != nil {
		return fmt.Sprint("MessageFromWeb Book: ", *u.Book)
	}
	return "MessageFromWeb unknown"
}

func playerString(c Color) string {
	if c == Light {
		return "white"
	}
	return "black"
}

func updateFor(p *game.Position) UpdateToWeb {
	moves := make([]string, 0, 64)
	for _, m := range p.LegalMoves() {
		moves = append(moves, m.String())
	}
	sort.Strings(moves)

	update := UpdateToWeb{
		FenString:     p.Fen(),
		PossibleMoves: moves,
		Player:        playerString(p.Side()),
		InCheck:       p.InCheck(p.Side()),
	}
	if lastMove := p.LastMove(); lastMove.HasValue() {
		update.LastMove = lastMove.Value().String()
	}
	return update
}

type PerftMove struct {
	Move  string `json:"move"`
	Nodes int    `json:"nodes"`
}

type PerftResponse struct {
	FenString  string      `json:"fenString"`
	Depth      int         `json:"depth"`
	Nodes      int         `json:"nodes"`
	Captures   int         `json:"captures"`
	EnPassants int         `json:"enPassants"`
	Castles    int         `json:"castles"`
	Promotions int         `json:"promotions"`
	Moves      []PerftMove `json:"moves"`
}

func perftResponseFor(fen string, depth int, entries []perft.Entry) PerftResponse {
	total := perft.Total(entries)
	response := PerftResponse{
		FenString:  fen,
		Depth:      depth,
		Nodes:      total.Nodes,
		Captures:   total.Captures,
		EnPassants: total.EnPassants,
		Castles:    total.Castles,
		Promotions: total.Promotions,
		Moves:      make([]PerftMove, len(entries)),
	}
	for i, e := range entries {
		response.Moves[i] = PerftMove{e.Move, e.Result.Nodes}
	}
	return response
}

type ErrorResponse struct {
	Error string `json:"error"`
}
