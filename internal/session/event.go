package session

import (
	"strings"
	"time"

	"github.com/lgbarn/chess-platform-go/internal/chess"
)

// EventType names a server to client message.
type EventType string

const (
	EventRegistered  EventType = "registered"
	EventWaiting     EventType = "waiting"
	EventGameCreated EventType = "game_created"
	EventGameStarted EventType = "game_started"
	EventMoveMade    EventType = "move_made"
	EventGameOver    EventType = "game_over"
	EventError       EventType = "error"
)

// Reasons a game can end outside the rules of chess.
const (
	ReasonResignation  = "resignation"
	ReasonTimeout      = "timeout"
	ReasonDisconnected = "disconnection"
)

// Event is one message delivered to a Subscriber. Unused fields are empty
// and omitted on the wire.
type Event struct {
	Type    EventType   `json:"type"`
	GameID  string      `json:"gameId,omitempty"`
	Player  *PlayerInfo `json:"player,omitempty"`
	White   *PlayerInfo `json:"white,omitempty"`
	Black   *PlayerInfo `json:"black,omitempty"`
	Colour  string      `json:"colour,omitempty"`
	Move    *MoveInfo   `json:"move,omitempty"`
	Turn    string      `json:"turn,omitempty"`
	FEN     string      `json:"fen,omitempty"`
	Clock   *ClockInfo  `json:"clock,omitempty"`
	Winner  string      `json:"winner,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Result  string      `json:"result,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Subscriber receives events for a player. Send must not block for long:
// it is called while a game is locked.
type Subscriber interface {
	Send(Event) error
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(Event) error

// Send calls f(e).
func (f SubscriberFunc) Send(e Event) error {
	return f(e)
}

// PlayerInfo identifies a player on the wire.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MoveInfo describes an accepted move.
type MoveInfo struct {
	SAN       string `json:"san"`
	UCI       string `json:"uci"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
	By        string `json:"by"`
	Check     bool   `json:"check"`
	Ply       int    `json:"ply"`
}

// ClockInfo is a clock reading in milliseconds.
type ClockInfo struct {
	WhiteMs   int64 `json:"whiteMs"`
	BlackMs   int64 `json:"blackMs"`
	Increment int64 `json:"incrementMs"`
}

func clockInfo(c *Clock) *ClockInfo {
	if c == nil {
		return nil
	}
	return &ClockInfo{
		WhiteMs:   c.Remaining(chess.White).Milliseconds(),
		BlackMs:   c.Remaining(chess.Black).Milliseconds(),
		Increment: c.tc.Increment.Milliseconds(),
	}
}

// ColourName returns "white" or "black".
func ColourName(c chess.Colour) string {
	return strings.ToLower(c.String())
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
