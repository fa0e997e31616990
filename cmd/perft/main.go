package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/cricklet/chesscore/internal/game"
	. "github.com/cricklet/chesscore/internal/helpers"
	"github.com/cricklet/chesscore/internal/perft"
	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/schollz/progressbar/v3"
)

// usage: perft [profile] [depth] [fen]
//
// Prints the node count below each legal move, in the same shape as
// stockfish's "go perft", followed by the totals.
func main() {
	args := os.Args[1:]

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath("data/CmdPerftMain"))
		defer p.Stop()
	}
	args = FilterSlice(args, func(arg string) bool {
		return arg != "profile"
	})

	depth := 4
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid depth:", args[0])
			os.Exit(1)
		}
		depth = parsed
		args = args[1:]
	}

	fen := game.StartFen
	if len(args) > 0 {
		fen = strings.Join(args, " ")
	}

	p, err := game.FromFen(fen, game.WithMaxPly(Max(depth, 1)))
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bar := progressbar.Default(int64(len(p.LegalMoves())), fmt.Sprint("depth ", depth))
	start := time.Now()
	entries, divideErr := perft.DivideParallel(ctx, p, depth, runtime.NumCPU(), func(done, total int) {
		_ = bar.Set(done)
	})
	_ = bar.Finish()
	if divideErr != nil {
		fmt.Fprintln(os.Stderr, divideErr)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	for _, e := range entries {
		fmt.Printf("%v: %v\n", e.Move, e.Result.Nodes)
	}
	total := perft.Total(entries)
	fmt.Println()
	fmt.Println("Nodes searched:", total.Nodes)
	fmt.Println(total)
	fmt.Printf("%v in %v (%v nodes/s)\n",
		humanize.Comma(int64(total.Nodes)),
		elapsed.Round(time.Millisecond),
		humanize.Comma(int64(float64(total.Nodes)/Max(elapsed.Seconds(), 1e-9))))
}
