package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/config"
	"github.com/lgbarn/chess-platform-go/internal/engine"
	"github.com/lgbarn/chess-platform-go/internal/errors"
	"github.com/lgbarn/chess-platform-go/internal/session"
)

// Client message types.
const (
	MsgRegister     = "register"
	MsgSelectColour = "select_colour"
	MsgStartGame    = "start_game"
	MsgMove         = "move"
	MsgResign       = "resign"
	MsgLeave        = "leave"
)

const (
	sendBuffer   = 32
	writeTimeout = 5 * time.Second
)

// clientMessage is the union of every client to server message.
type clientMessage struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Colour      string `json:"colour,omitempty"`
	GameID      string `json:"gameId,omitempty"`
	TimeControl string `json:"timeControl,omitempty"`

	// Move is SAN or UCI text; From/To/Promotion is the alternative form.
	Move      string `json:"move,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
}

// wsClient is one WebSocket connection. It is the session.Subscriber for
// the player it registers.
type wsClient struct {
	hub  *session.Hub
	log  zerolog.Logger
	out  chan session.Event
	done chan struct{}

	mu       sync.Mutex
	playerID string
	closed   bool
}

// Send queues ev for the writer. A client that cannot keep up is dropped.
func (c *wsClient) Send(ev session.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.Wrap(errors.ErrClosed, "websocket client")
	}
	select {
	case c.out <- ev:
		return nil
	default:
		c.closed = true
		close(c.done)
		return errors.Wrap(errors.ErrClosed, "websocket send buffer full")
	}
}

func (c *wsClient) player() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

func (s *Server) websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.cfg.AllowedOrigins),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(s.cfg.MaxBodyBytes)

	c := &wsClient{
		hub:  s.hub,
		log:  s.log.With().Str("request_id", RequestIDFrom(r.Context())).Logger(),
		out:  make(chan session.Event, sendBuffer),
		done: make(chan struct{}),
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return c.writeLoop(ctx, conn) })
	g.Go(func() error { return c.readLoop(ctx, conn) })
	err = g.Wait()

	if id := c.player(); id != "" {
		if derr := s.hub.Disconnect(context.Background(), id); derr != nil {
			c.log.Debug().Err(derr).Str("player_id", id).Msg("disconnect")
		}
	}
	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		c.log.Debug().Msg("websocket closed")
	case errors.Is(err, context.Canceled):
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	case err != nil:
		c.log.Debug().Err(err).Msg("websocket ended")
		conn.Close(websocket.StatusPolicyViolation, "connection dropped")
	}
}

func (c *wsClient) writeLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case ev := <-c.out:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				return err
			}
		case <-c.done:
			return errors.Wrap(errors.ErrClosed, "websocket send buffer full")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *wsClient) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}
		if err := c.handle(ctx, msg); err != nil {
			c.log.Debug().Err(err).Str("type", msg.Type).Msg("message rejected")
			_ = c.Send(session.Event{Type: session.EventError, GameID: msg.GameID, Message: err.Error()})
		}
	}
}

// handle dispatches one client message to the hub.
func (c *wsClient) handle(ctx context.Context, msg clientMessage) error {
	if msg.Type == MsgRegister {
		c.mu.Lock()
		registered := c.playerID != ""
		c.mu.Unlock()
		if registered {
			return errors.Wrap(errors.ErrNotPermitted, "already registered")
		}
		info, err := c.hub.Register(msg.Name, c)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.playerID = info.ID
		c.mu.Unlock()
		c.log = c.log.With().Str("player_id", info.ID).Logger()
		return nil
	}

	playerID := c.player()
	if playerID == "" {
		return errors.Wrap(errors.ErrPlayerNotFound, "register first")
	}

	switch msg.Type {
	case MsgSelectColour:
		colour, ok := chess.ParseColour(msg.Colour)
		if !ok {
			return errors.Wrapf(errors.ErrNotPermitted, "unknown colour %q", msg.Colour)
		}
		return c.hub.SelectColour(playerID, colour)
	case MsgStartGame:
		initial, increment, err := config.ParseTimeControl(msg.TimeControl)
		if err != nil {
			return err
		}
		tc := session.TimeControl{Initial: initial, Increment: increment}
		return c.hub.StartGame(ctx, msg.GameID, playerID, tc)
	case MsgMove:
		candidate, err := moveCandidate(msg)
		if err != nil {
			return err
		}
		_, err = c.hub.Move(ctx, msg.GameID, playerID, candidate)
		return err
	case MsgResign:
		return c.hub.Resign(ctx, msg.GameID, playerID)
	case MsgLeave:
		return c.hub.Leave(ctx, playerID)
	}
	return errors.Wrapf(errors.ErrNotPermitted, "unknown message type %q", msg.Type)
}

// moveCandidate builds an engine candidate from either the move text or
// the from/to/promotion fields.
func moveCandidate(msg clientMessage) (engine.Candidate, error) {
	if msg.Move != "" {
		return engine.ParseCandidate(msg.Move), nil
	}
	from, fromOK := chess.ParseSquare(msg.From)
	to, toOK := chess.ParseSquare(msg.To)
	if !fromOK || !toOK {
		return engine.Candidate{}, &errors.IllegalMoveError{
			Err: errors.ErrIllegalMove, Move: msg.From + msg.To, Reason: "malformed move",
		}
	}
	promotion := chess.NoPiece
	if msg.Promotion != "" {
		promotion = chess.PieceFromLetter(msg.Promotion[0])
		if len(msg.Promotion) != 1 || promotion == chess.NoPiece {
			return engine.Candidate{}, &errors.IllegalMoveError{
				Err: errors.ErrIllegalMove, Move: msg.From + msg.To + msg.Promotion, Reason: "malformed move",
			}
		}
	}
	return engine.SquaresCandidate(from, to, promotion), nil
}

// originPatterns turns allowed origins into the host patterns the
// WebSocket handshake checks.
func originPatterns(origins []string) []string {
	var patterns []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(o, "/"))
	}
	return patterns
}
