package session

import (
	"sort"
	"sync"
	"time"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/engine"
	"github.com/lgbarn/chess-platform-go/internal/errors"
)

// GameStatus is the lifecycle stage of a game.
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
)

// game is the hub's record of one game. Player fields and id never change
// after creation; everything else is guarded by mu.
type game struct {
	mu     sync.Mutex
	id     string
	white  PlayerInfo
	black  PlayerInfo
	status GameStatus
	board  *engine.Game
	tc     TimeControl
	clock  *Clock
	ply    int

	createdAt  time.Time
	startedAt  time.Time
	lastMoveAt time.Time
	endedAt    time.Time

	winner string
	reason string
	result string
}

func (g *game) colourOf(playerID string) (chess.Colour, bool) {
	switch playerID {
	case g.white.ID:
		return chess.White, true
	case g.black.ID:
		return chess.Black, true
	}
	return chess.Black, false
}

func (g *game) err(err error) error {
	return &errors.GameError{GameID: g.id, PlyNum: g.ply, Err: err}
}

// GameSummary is the list view of a game.
type GameSummary struct {
	ID        string     `json:"id"`
	White     PlayerInfo `json:"white"`
	Black     PlayerInfo `json:"black"`
	Status    GameStatus `json:"status"`
	Turn      string     `json:"turn"`
	MoveCount int        `json:"moveCount"`
	CreatedAt time.Time  `json:"createdAt"`
	StartedAt *time.Time `json:"startTime,omitempty"`
}

// GameDetail is the full view of a game.
type GameDetail struct {
	GameSummary
	Moves       []string   `json:"moves"`
	FEN         string     `json:"fen"`
	TimeControl string     `json:"timeControl"`
	Clock       *ClockInfo `json:"clock,omitempty"`
	LastMoveAt  *time.Time `json:"lastMoveTime,omitempty"`
	EndedAt     *time.Time `json:"endTime,omitempty"`
	Winner      string     `json:"winner,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	Result      string     `json:"result"`
}

// Stats are hub-wide counters.
type Stats struct {
	ActiveGames int `json:"totalActiveGames"`
	TotalGames  int `json:"totalGames"`
	Players     int `json:"totalPlayers"`
	Waiting     int `json:"waitingPlayers"`
	WhiteWins   int `json:"whiteWins"`
	BlackWins   int `json:"blackWins"`
	Draws       int `json:"draws"`
}

// summaryLocked builds the list view. Caller holds g.mu.
func (g *game) summaryLocked() GameSummary {
	return GameSummary{
		ID:        g.id,
		White:     g.white,
		Black:     g.black,
		Status:    g.status,
		Turn:      ColourName(g.board.Turn()),
		MoveCount: g.ply,
		CreatedAt: g.createdAt,
		StartedAt: timePtr(g.startedAt),
	}
}

func (g *game) detail() GameDetail {
	g.mu.Lock()
	defer g.mu.Unlock()
	result := g.result
	if result == "" {
		result = "*"
	}
	return GameDetail{
		GameSummary: g.summaryLocked(),
		Moves:       g.board.Moves(),
		FEN:         g.board.FEN(),
		TimeControl: g.tc.String(),
		Clock:       clockInfo(g.clock),
		LastMoveAt:  timePtr(g.lastMoveAt),
		EndedAt:     timePtr(g.endedAt),
		Winner:      g.winner,
		Reason:      g.reason,
		Result:      result,
	}
}

func (h *Hub) snapshotGames() []*game {
	h.mu.RLock()
	defer h.mu.RUnlock()
	games := make([]*game, 0, len(h.games))
	for _, g := range h.games {
		games = append(games, g)
	}
	return games
}

// ActiveGames lists games in progress, oldest first.
func (h *Hub) ActiveGames() []GameSummary {
	var out []GameSummary
	for _, g := range h.snapshotGames() {
		g.mu.Lock()
		if g.status == StatusActive {
			out = append(out, g.summaryLocked())
		}
		g.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Game returns the detail view of any game the hub knows, finished or not.
func (h *Hub) Game(id string) (GameDetail, error) {
	g, err := h.lookup(id)
	if err != nil {
		return GameDetail{}, err
	}
	return g.detail(), nil
}

// Stats returns hub-wide counters.
func (h *Hub) Stats() Stats {
	games := h.snapshotGames()
	active := 0
	for _, g := range games {
		g.mu.Lock()
		if g.status == StatusActive {
			active++
		}
		g.mu.Unlock()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		ActiveGames: active,
		TotalGames:  len(games),
		Players:     len(h.players),
		Waiting:     len(h.waiting),
		WhiteWins:   h.whiteWins,
		BlackWins:   h.blackWins,
		Draws:       h.draws,
	}
}
