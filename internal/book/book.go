package book

import (
	"bufio"
	_ "embed"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/cricklet/chesscore/internal/game"
	. "github.com/cricklet/chesscore/internal/helpers"
)

//go:embed book.txt
var defaultBook string

// Book holds opening lines from the initial position. It is safe for
// concurrent use.
type Book struct {
	lines  [][]string
	logger Logger

	lock sync.Mutex
	rand *rand.Rand
}

type Options struct {
	Seed   int64
	Logger Logger
}

type Option func(*Options)

func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

func WithLogger(logger Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Continuation is a book move and the number of lines that play it.
type Continuation struct {
	Move  string
	Count int
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// Load reads one opening per line. Every move is replayed from the initial
// position, so an illegal or misspelled move fails the whole book.
func Load(r io.Reader, opts ...Option) (*Book, Error) {
	o := Options{Seed: 1, Logger: &SilentLogger}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Book{
		logger: o.Logger,
		rand:   rand.New(rand.NewSource(o.Seed)),
	}

	p := game.NewStandard()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		moves := strings.Fields(stripComment(scanner.Text()))
		if len(moves) == 0 {
			continue
		}
		if len(moves) >= game.DefaultMaxHistory {
			return nil, Errorf("line %v: %v moves is too long", lineNum, len(moves))
		}

		p.Reset()
		for _, s := range moves {
			m, err := p.MoveFromString(s)
			if err.HasError() {
				return nil, Join(err, Errorf("line %v: unknown move %v", lineNum, s))
			}
			if p.Apply(m) != nil {
				return nil, Errorf("line %v: illegal move %v in %v", lineNum, s, p.Fen())
			}
		}
		b.lines = append(b.lines, moves)
	}
	if err := scanner.Err(); err != nil {
		return nil, Wrap(err)
	}

	b.logger.Printf("loaded %v book lines\n", len(b.lines))
	return b, NilError
}

func Open(path string, opts ...Option) (*Book, Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Wrap(err)
	}
	defer f.Close()

	b, bookErr := Load(f, opts...)
	if bookErr.HasError() {
		return nil, Join(bookErr, Errorf("reading %v", path))
	}
	return b, NilError
}

// Default is the small book built into the binary.
func Default(opts ...Option) *Book {
	b, err := Load(strings.NewReader(defaultBook), opts...)
	if err.HasError() {
		Panicf("built-in book: %v", err)
	}
	return b
}

func (b *Book) NumLines() int {
	return len(b.lines)
}

func isPrefix(prefix []string, line []string) bool {
	if len(prefix) >= len(line) {
		return false
	}
	for i, s := range prefix {
		if line[i] != s {
			return false
		}
	}
	return true
}

// played is the position's line in coordinate notation, or false if the
// position was not reached from the initial position.
func played(p *game.Position) ([]string, bool) {
	line := MapSlice(p.Line(), game.Move.String)

	replay := game.NewStandard()
	for _, s := range line {
		m, err := replay.MoveFromString(s)
		if err.HasError() || replay.Apply(m) != nil {
			return nil, false
		}
	}
	return line, replay.Fen() == p.Fen()
}

// Continuations lists the book moves from p, most popular first.
func (b *Book) Continuations(p *game.Position) []Continuation {
	line, ok := played(p)
	if !ok {
		return []Continuation{}
	}

	counts := map[string]int{}
	for _, l := range b.lines {
		if isPrefix(line, l) {
			counts[l[len(line)]]++
		}
	}

	result := make([]Continuation, 0, len(counts))
	for move, count := range counts {
		result = append(result, Continuation{move, count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Move < result[j].Move
	})
	return result
}

// Next picks a book move weighted by how many lines play it. It is empty once
// the game has left the book.
func (b *Book) Next(p *game.Position) Optional[string] {
	continuations := b.Continuations(p)
	total := 0
	for _, c := range continuations {
		total += c.Count
	}
	if total == 0 {
		return Empty[string]()
	}

	b.lock.Lock()
	pick := b.rand.Intn(total)
	b.lock.Unlock()

	for _, c := range continuations {
		if pick < c.Count {
			b.logger.Println("book move", c.Move)
			return Some(c.Move)
		}
		pick -= c.Count
	}
	panic("unreachable")
}
