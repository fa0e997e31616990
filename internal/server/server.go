package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/cricklet/chesscore/internal/book"
	"github.com/cricklet/chesscore/internal/game"
	. "github.com/cricklet/chesscore/internal/helpers"
	"github.com/cricklet/chesscore/internal/perft"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	DefaultMaxPerftDepth = 5
)

type Options struct {
	Book          *book.Book
	Logger        Logger
	MaxPerftDepth int
	Workers       int
}

type Option func(*Options)

func WithBook(b *book.Book) Option {
	return func(o *Options) {
		o.Book = b
	}
}

func WithLogger(logger Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMaxPerftDepth bounds the depth a /perft request may ask for.
func WithMaxPerftDepth(depth int) Option {
	return func(o *Options) {
		o.MaxPerftDepth = depth
	}
}

func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// Server exposes move generation over HTTP and play over a websocket.
type Server struct {
	options  Options
	router   *mux.Router
	upgrader websocket.Upgrader

	getPosition     func() *game.Position
	releasePosition func(*game.Position)
	poolStats       func() PoolStats
}

func New(opts ...Option) *Server {
	o := Options{
		Logger:        &DefaultLogger,
		MaxPerftDepth: DefaultMaxPerftDepth,
		Workers:       runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Book == nil {
		o.Book = book.Default(book.WithLogger(o.Logger))
	}

	s := &Server{options: o}
	s.getPosition, s.releasePosition, s.poolStats = CreatePool(
		func() *game.Position {
			return game.NewStandard()
		},
		(*game.Position).Reset,
	)

	s.router = mux.NewRouter()
	s.router.Use(s.recoverPanics, s.logRequests)
	s.router.HandleFunc("/moves", s.handleMoves).Methods(http.MethodGet)
	s.router.HandleFunc("/perft", s.handlePerft).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWebsocket)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) PoolStats() PoolStats {
	return s.poolStats()
}

func (s *Server) ListenAndServe(addr string) Error {
	s.options.Logger.Println("serving at", addr)
	return Wrap(http.ListenAndServe(addr, s.router))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.options.Logger.Printf("%v %v (%v)\n", r.Method, r.URL, time.Since(start))
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.options.Logger.Println("panic serving", r.URL, rec)
				s.options.Logger.Println(string(debug.Stack()))
				s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{"internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.options.Logger.Println("json encode:", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.options.Logger.Println("request failed:", err)
	s.writeJSON(w, status, ErrorResponse{err.Error()})
}

// loadRequestFen sets up a pooled position from the fen query parameter,
// defaulting to the initial position.
func (s *Server) loadRequestFen(r *http.Request) (*game.Position, Error) {
	p := s.getPosition()
	fen := r.URL.Query().Get("fen")
	if fen == "" {
		return p, NilError
	}
	if err := p.LoadFen(fen); err.HasError() {
		s.releasePosition(p)
		return nil, err
	}
	return p, NilError
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadRequestFen(r)
	if err.HasError() {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	defer s.releasePosition(p)

	s.writeJSON(w, http.StatusOK, updateFor(p))
}

func (s *Server) handlePerft(w http.ResponseWriter, r *http.Request) {
	depth, parseErr := strconv.Atoi(r.URL.Query().Get("depth"))
	if parseErr != nil || depth < 1 || depth > s.options.MaxPerftDepth {
		s.writeError(w, http.StatusBadRequest,
			Errorf("depth must be between 1 and %v, got '%v'", s.options.MaxPerftDepth, r.URL.Query().Get("depth")))
		return
	}

	p, err := s.loadRequestFen(r)
	if err.HasError() {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	defer s.releasePosition(p)

	entries, divideErr := perft.DivideParallel(r.Context(), p, depth, s.options.Workers, nil)
	if divideErr != nil {
		s.writeError(w, http.StatusServiceUnavailable, divideErr)
		return
	}
	s.writeJSON(w, http.StatusOK, perftResponseFor(p.Fen(), depth, entries))
}
