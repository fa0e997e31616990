package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cricklet/chesscore/internal/game"
	. "github.com/cricklet/chesscore/internal/helpers"
	"github.com/gorilla/websocket"
)

// session is one websocket client playing through a single game.
type session struct {
	conn     *websocket.Conn
	position *game.Position
	book     bookSource
	logger   Logger
}

type bookSource interface {
	Next(p *game.Position) Optional[string]
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if !IsNil(err) {
		s.options.Logger.Println("websocket upgrade:", err)
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	sess := &session{
		conn:     conn,
		position: game.NewStandard(),
		book:     s.options.Book,
		logger: FuncLogger(func(message string) {
			s.options.Logger.Print(fmt.Sprintf("session %v: %v", remote, message))
		}),
	}
	sess.run()
}

func (sess *session) run() {
	if err := sess.send(updateFor(sess.position)); err.HasError() {
		return
	}
	for {
		_, bytes, err := sess.conn.ReadMessage()
		if !IsNil(err) {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.logger.Println("read:", err)
			}
			return
		}
		if sendErr := sess.send(sess.handle(bytes)); sendErr.HasError() {
			return
		}
	}
}

func (sess *session) send(update UpdateToWeb) Error {
	sess.logger.Println("sending", update)
	bytes, err := json.Marshal(update)
	if err != nil {
		sess.logger.Println("json marshal:", err)
		return Wrap(err)
	}
	if err := sess.conn.WriteMessage(websocket.TextMessage, bytes); err != nil {
		sess.logger.Println("write:", err)
		return Wrap(err)
	}
	return NilError
}

// handle applies one message and describes the resulting position. A
// request that fails leaves the game as it was and reports why.
func (sess *session) handle(bytes []byte) UpdateToWeb {
	var message MessageFromWeb
	if err := json.Unmarshal(bytes, &message); err != nil {
		return sess.failed(Wrap(err))
	}
	sess.logger.Println("received", message)

	p := sess.position
	switch {
	case message.NewFen != nil:
		if err := p.LoadFen(*message.NewFen); err.HasError() {
			return sess.failed(err)
		}
	case message.Move != nil:
		if err := sess.play(*message.Move); err.HasError() {
			return sess.failed(err)
		}
	case message.Rewind != nil:
		n := *message.Rewind
		if n < 0 || n > p.HistoryPly() {
			return sess.failed(Errorf("cannot rewind %v of %v moves", n, p.HistoryPly()))
		}
		for i := 0; i < n; i++ {
			p.Unmake()
		}
	case message.Book != nil && *message.Book:
		next := sess.book.Next(p)
		if next.IsEmpty() {
			return sess.failed(Errorf("out of book"))
		}
		if err := sess.play(next.Value()); err.HasError() {
			return sess.failed(err)
		}
	}
	p.SetRoot()
	return updateFor(p)
}

func (sess *session) play(s string) Error {
	p := sess.position
	if p.HistoryPly() >= game.DefaultMaxHistory {
		return Errorf("game is longer than %v plies", game.DefaultMaxHistory)
	}
	m, err := p.MoveFromString(s)
	if err.HasError() {
		return err
	}
	if p.Apply(m) != nil {
		return Errorf("%v leaves the king in check", s)
	}
	return NilError
}

func (sess *session) failed(err Error) UpdateToWeb {
	sess.logger.Println("request failed:", err)
	update := updateFor(sess.position)
	update.Error = err.Error()
	return update
}
