package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/cricklet/chesscore/internal/book"
	. "github.com/cricklet/chesscore/internal/helpers"
	"github.com/cricklet/chesscore/internal/server"
	"github.com/pkg/profile"
)

// usage: server [profile] [port] [book.txt]
func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, fmt.Sprint(r))
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
			os.Exit(1)
		}
	}()

	args := os.Args[1:]

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath("data/CmdServerMain"))
		defer p.Stop()
	}
	args = FilterSlice(args, func(arg string) bool {
		return arg != "profile"
	})

	port := 8002
	opts := []server.Option{server.WithLogger(&DefaultLogger)}

	for _, arg := range args {
		if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
			port = int(parsed)
			continue
		}
		b, err := book.Open(arg, book.WithLogger(&DefaultLogger))
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, err.Trace())
			os.Exit(1)
		}
		opts = append(opts, server.WithBook(b))
	}

	err := server.New(opts...).ListenAndServe(fmt.Sprintf(":%v", port))
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
