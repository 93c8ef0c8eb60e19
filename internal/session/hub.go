// Package session runs live games between registered players: colour
// based matchmaking, turn order, clocks and event delivery. Every action on
// a game runs on the worker that owns the game's ID, so actions on one game
// are applied one at a time in arrival order while different games proceed
// in parallel.
package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/config"
	"github.com/lgbarn/chess-platform-go/internal/engine"
	"github.com/lgbarn/chess-platform-go/internal/errors"
	"github.com/lgbarn/chess-platform-go/internal/worker"
)

// ReasonAbandoned ends a game whose player left it without disconnecting.
const ReasonAbandoned = "abandoned"

// Option configures a Hub.
type Option func(*Hub)

// WithTimeSource replaces time.Now for timestamps and clocks.
func WithTimeSource(now func() time.Time) Option {
	return func(h *Hub) {
		h.now = now
	}
}

// WithIDGenerator replaces the UUID generator for player and game IDs.
func WithIDGenerator(fn func() string) Option {
	return func(h *Hub) {
		h.newID = fn
	}
}

type player struct {
	info PlayerInfo
	sub  Subscriber
}

type waiter struct {
	id     string
	colour chess.Colour
}

// gameAction is the payload the hub submits to its worker pool.
type gameAction func() error

// Hub owns players, the waiting list and games.
type Hub struct {
	log       zerolog.Logger
	pool      *worker.Pool
	defaultTC TimeControl
	limits    config.SessionConfig
	maxName   int
	now       func() time.Time
	newID     func() string
	seq       int64

	mu        sync.RWMutex
	players   map[string]*player
	waiting   []waiter
	games     map[string]*game
	whiteWins int
	blackWins int
	draws     int
}

// NewHub creates a hub and starts its workers. Close releases them.
func NewHub(cfg config.SessionConfig, log zerolog.Logger, opts ...Option) (*Hub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	initial, increment, err := config.ParseTimeControl(cfg.TimeControl)
	if err != nil {
		return nil, err
	}

	h := &Hub{
		log:       log.With().Str("component", "session").Logger(),
		defaultTC: TimeControl{Initial: initial, Increment: increment},
		limits:    cfg,
		maxName:   cfg.MaxNameLength,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
		players:   make(map[string]*player),
		games:     make(map[string]*game),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.pool = worker.NewPoolWithOptions(h.process,
		worker.WithWorkers(cfg.Workers),
		worker.WithBufferSize(cfg.QueueSize),
		worker.WithResultHandler(h.logResult),
	)
	h.pool.Start()
	return h, nil
}

// Close waits for queued actions to finish and stops every clock.
func (h *Hub) Close() {
	h.pool.Close()
	for _, g := range h.snapshotGames() {
		if g.clock != nil {
			g.clock.Stop()
		}
	}
}

// DefaultTimeControl returns the control used when StartGame gets none.
func (h *Hub) DefaultTimeControl() TimeControl {
	return h.defaultTC
}

// Register adds a player. The name is trimmed and must be between 1 and the
// configured maximum number of characters with no control characters. sub
// may be nil.
func (h *Hub) Register(name string, sub Subscriber) (PlayerInfo, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > h.maxName {
		return PlayerInfo{}, fmt.Errorf("%d characters, want 1 to %d: %w", n, h.maxName, errors.ErrInvalidName)
	}
	if strings.ContainsFunc(name, unicode.IsControl) {
		return PlayerInfo{}, fmt.Errorf("name %q contains control characters: %w", name, errors.ErrInvalidName)
	}

	p := &player{info: PlayerInfo{ID: h.newID(), Name: name}, sub: sub}
	h.mu.Lock()
	h.players[p.info.ID] = p
	h.mu.Unlock()

	h.log.Info().Str("player_id", p.info.ID).Str("name", name).Msg("player registered")
	info := p.info
	h.send(sub, Event{Type: EventRegistered, Player: &info})
	return info, nil
}

// SelectColour queues the player for a game as colour. If someone is
// already waiting for the other colour a game is created and both players
// receive game_created; otherwise the player receives waiting. Selecting
// again while waiting changes the requested colour.
func (h *Hub) SelectColour(playerID string, colour chess.Colour) error {
	h.mu.Lock()
	p := h.players[playerID]
	if p == nil {
		h.mu.Unlock()
		return fmt.Errorf("player %s: %w", playerID, errors.ErrPlayerNotFound)
	}

	if i := h.waitingIndexLocked(playerID); i >= 0 {
		h.waiting[i].colour = colour
		h.mu.Unlock()
		h.sendWaiting(p, colour)
		return nil
	}

	var opponent *player
	for i, w := range h.waiting {
		if w.colour != colour {
			opponent = h.players[w.id]
			h.waiting = slices.Delete(h.waiting, i, i+1)
			break
		}
	}
	if opponent == nil {
		h.waiting = append(h.waiting, waiter{id: playerID, colour: colour})
		h.mu.Unlock()
		h.sendWaiting(p, colour)
		return nil
	}

	white, black := p, opponent
	if colour == chess.Black {
		white, black = opponent, p
	}
	g := &game{
		id:        h.newID(),
		white:     white.info,
		black:     black.info,
		status:    StatusWaiting,
		board:     engine.NewStandardGame(),
		createdAt: h.now(),
	}
	h.games[g.id] = g
	h.mu.Unlock()

	h.log.Info().
		Str("game_id", g.id).
		Str("white", white.info.Name).
		Str("black", black.info.Name).
		Msg("game created")

	for _, pc := range []struct {
		p      *player
		colour chess.Colour
	}{{white, chess.White}, {black, chess.Black}} {
		h.send(pc.p.sub, Event{
			Type:   EventGameCreated,
			GameID: g.id,
			White:  &g.white,
			Black:  &g.black,
			Colour: ColourName(pc.colour),
			FEN:    g.board.FEN(),
		})
	}
	return nil
}

func (h *Hub) sendWaiting(p *player, colour chess.Colour) {
	h.send(p.sub, Event{
		Type:    EventWaiting,
		Colour:  ColourName(colour),
		Message: "Waiting for an opponent",
	})
}

// waitingIndexLocked returns the player's index in the waiting list or -1.
func (h *Hub) waitingIndexLocked(playerID string) int {
	return slices.IndexFunc(h.waiting, func(w waiter) bool { return w.id == playerID })
}

// StartGame activates a created game. Only White may start it. A zero
// time control selects the hub default; a timed one must lie within the
// configured bounds.
func (h *Hub) StartGame(ctx context.Context, gameID, playerID string, tc TimeControl) error {
	g, err := h.lookup(gameID)
	if err != nil {
		return err
	}
	return h.run(ctx, gameID, func() error {
		g.mu.Lock()
		defer g.mu.Unlock()

		if _, ok := g.colourOf(playerID); !ok {
			return g.err(errors.ErrNotParticipant)
		}
		if playerID != g.white.ID {
			return g.err(errors.Wrap(errors.ErrNotPermitted, "only White may start the game"))
		}
		if g.status != StatusWaiting {
			return g.err(errors.Wrapf(errors.ErrNotPermitted, "game already %s", g.status))
		}

		if tc.IsTimed() {
			if err := h.limits.CheckTimeControl(tc.Initial, tc.Increment); err != nil {
				return g.err(err)
			}
		} else {
			tc = h.defaultTC
		}
		g.tc = tc
		g.status = StatusActive
		g.startedAt = h.now()
		if tc.IsTimed() {
			g.clock = NewClock(tc, func(side chess.Colour) { h.flagFell(g, side) }, WithNow(h.now))
			g.clock.Start(g.board.Turn())
		}

		h.log.Info().Str("game_id", g.id).Str("time_control", tc.String()).Msg("game started")
		h.broadcast(g, Event{
			Type:   EventGameStarted,
			GameID: g.id,
			White:  &g.white,
			Black:  &g.black,
			Turn:   ColourName(g.board.Turn()),
			FEN:    g.board.FEN(),
			Clock:  clockInfo(g.clock),
		})
		return nil
	})
}

// Move plays a candidate move for the player. Legality is decided by the
// engine; the clock is charged only for accepted moves. Both players receive
// move_made, followed by game_over when the move ends the game.
func (h *Hub) Move(ctx context.Context, gameID, playerID string, c engine.Candidate) (MoveInfo, error) {
	g, err := h.lookup(gameID)
	if err != nil {
		return MoveInfo{}, err
	}

	var info MoveInfo
	err = h.run(ctx, gameID, func() error {
		g.mu.Lock()
		defer g.mu.Unlock()

		colour, ok := g.colourOf(playerID)
		if !ok {
			return g.err(errors.ErrNotParticipant)
		}
		if g.status != StatusActive {
			return g.err(errors.ErrGameNotActive)
		}
		if g.board.Turn() != colour {
			return g.err(errors.ErrNotYourTurn)
		}
		if g.clock != nil && g.clock.Remaining(colour) <= 0 {
			h.forfeit(g, colour, ReasonTimeout)
			return g.err(errors.ErrGameNotActive)
		}

		ply := g.ply + 1
		res, err := g.board.Play(c)
		if err != nil {
			return &errors.GameError{GameID: g.id, PlyNum: ply, MoveText: c.String(), Err: err}
		}
		g.ply = ply
		g.lastMoveAt = h.now()

		flagged := false
		if g.clock != nil {
			_, ok := g.clock.Press(colour)
			flagged = !ok
		}

		info = MoveInfo{
			SAN:   res.SAN,
			UCI:   res.UCI,
			From:  res.Move.From.String(),
			To:    res.Move.To.String(),
			By:    ColourName(colour),
			Check: res.Check,
			Ply:   ply,
		}
		if res.Move.IsPromotion() {
			info.Promotion = strings.ToLower(string(res.Move.Promotion.Letter()))
		}

		h.log.Debug().Str("game_id", g.id).Int("ply", ply).Str("san", res.SAN).Msg("move played")
		moveInfo := info
		h.broadcast(g, Event{
			Type:   EventMoveMade,
			GameID: g.id,
			Move:   &moveInfo,
			Turn:   ColourName(g.board.Turn()),
			FEN:    res.FEN,
			Clock:  clockInfo(g.clock),
		})

		switch {
		case flagged:
			h.forfeit(g, colour, ReasonTimeout)
		case res.Terminal != nil:
			h.finishStatus(g, *res.Terminal)
		}
		return nil
	})
	return info, err
}

// Resign ends an active game in the opponent's favour.
func (h *Hub) Resign(ctx context.Context, gameID, playerID string) error {
	g, err := h.lookup(gameID)
	if err != nil {
		return err
	}
	return h.run(ctx, gameID, func() error {
		g.mu.Lock()
		defer g.mu.Unlock()

		colour, ok := g.colourOf(playerID)
		if !ok {
			return g.err(errors.ErrNotParticipant)
		}
		if g.status != StatusActive {
			return g.err(errors.ErrGameNotActive)
		}
		h.forfeit(g, colour, ReasonResignation)
		return nil
	})
}

// Leave takes the player off the waiting list and forfeits every game
// they have not finished. The registration stays.
func (h *Hub) Leave(ctx context.Context, playerID string) error {
	h.mu.RLock()
	_, ok := h.players[playerID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("player %s: %w", playerID, errors.ErrPlayerNotFound)
	}
	return h.abandon(ctx, playerID, ReasonAbandoned)
}

// Disconnect removes the player entirely, forfeiting unfinished games.
func (h *Hub) Disconnect(ctx context.Context, playerID string) error {
	h.mu.Lock()
	_, ok := h.players[playerID]
	delete(h.players, playerID)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("player %s: %w", playerID, errors.ErrPlayerNotFound)
	}
	h.log.Info().Str("player_id", playerID).Msg("player disconnected")
	return h.abandon(ctx, playerID, ReasonDisconnected)
}

func (h *Hub) abandon(ctx context.Context, playerID, reason string) error {
	h.mu.Lock()
	if i := h.waitingIndexLocked(playerID); i >= 0 {
		h.waiting = slices.Delete(h.waiting, i, i+1)
	}
	var mine []*game
	for _, g := range h.games {
		if g.white.ID == playerID || g.black.ID == playerID {
			mine = append(mine, g)
		}
	}
	h.mu.Unlock()

	var errs []error
	for _, g := range mine {
		g := g
		err := h.run(ctx, g.id, func() error {
			g.mu.Lock()
			defer g.mu.Unlock()
			if g.status == StatusFinished {
				return nil
			}
			colour, _ := g.colourOf(playerID)
			h.forfeit(g, colour, reason)
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// flagFell runs on the clock's timer goroutine.
func (h *Hub) flagFell(g *game, side chess.Colour) {
	h.submit(g.id, func() error {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.status != StatusActive {
			return nil
		}
		h.forfeit(g, side, ReasonTimeout)
		return nil
	})
}

// forfeit ends the game with loser losing. Caller holds g.mu.
func (h *Hub) forfeit(g *game, loser chess.Colour, reason string) {
	result := "1-0"
	if loser == chess.White {
		result = "0-1"
	}
	h.finish(g, ColourName(loser.Opposite()), reason, result)
}

// finishStatus ends the game on a rules outcome. Caller holds g.mu.
func (h *Hub) finishStatus(g *game, st engine.Status) {
	winner := ""
	if !st.IsDraw() {
		winner = ColourName(st.Winner)
	}
	h.finish(g, winner, st.Reason.String(), st.Result())
}

// finish records the outcome and tells both players. Caller holds g.mu.
func (h *Hub) finish(g *game, winner, reason, result string) {
	g.status = StatusFinished
	g.winner = winner
	g.reason = reason
	g.result = result
	g.endedAt = h.now()
	if g.clock != nil {
		g.clock.Stop()
	}

	h.mu.Lock()
	switch winner {
	case "white":
		h.whiteWins++
	case "black":
		h.blackWins++
	default:
		h.draws++
	}
	h.mu.Unlock()

	h.log.Info().
		Str("game_id", g.id).
		Str("result", result).
		Str("reason", reason).
		Int("plies", g.ply).
		Msg("game over")
	h.broadcast(g, Event{
		Type:   EventGameOver,
		GameID: g.id,
		Winner: winner,
		Reason: reason,
		Result: result,
		FEN:    g.board.FEN(),
		Clock:  clockInfo(g.clock),
	})
}

// broadcast sends ev to both players of g. Caller holds g.mu.
func (h *Hub) broadcast(g *game, ev Event) {
	h.mu.RLock()
	var subs []Subscriber
	for _, id := range []string{g.white.ID, g.black.ID} {
		if p := h.players[id]; p != nil && p.sub != nil {
			subs = append(subs, p.sub)
		}
	}
	h.mu.RUnlock()
	for _, sub := range subs {
		h.send(sub, ev)
	}
}

func (h *Hub) send(sub Subscriber, ev Event) {
	if sub == nil {
		return
	}
	if err := sub.Send(ev); err != nil {
		h.log.Warn().Err(err).Str("event", string(ev.Type)).Str("game_id", ev.GameID).Msg("event not delivered")
	}
}

func (h *Hub) lookup(gameID string) (*game, error) {
	h.mu.RLock()
	g := h.games[gameID]
	h.mu.RUnlock()
	if g == nil {
		return nil, &errors.GameError{GameID: gameID, Err: errors.ErrGameNotFound}
	}
	return g, nil
}

// run executes fn on the worker owning gameID and waits for its result.
func (h *Hub) run(ctx context.Context, gameID string, fn func() error) error {
	done := make(chan error, 1)
	action := func() error {
		err := fn()
		done <- err
		return err
	}
	if !h.submit(gameID, action) {
		return errors.Wrap(errors.ErrClosed, "session hub")
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) submit(gameID string, action gameAction) bool {
	return h.pool.Submit(worker.WorkItem{
		Key:     gameID,
		Index:   int(atomic.AddInt64(&h.seq, 1)),
		Payload: action,
	})
}

func (h *Hub) process(item worker.WorkItem) worker.ProcessResult {
	result := worker.ProcessResult{Key: item.Key, Index: item.Index}
	action, ok := item.Payload.(gameAction)
	if !ok {
		result.Error = fmt.Errorf("unexpected payload %T", item.Payload)
		return result
	}
	result.Error = action()
	return result
}

func (h *Hub) logResult(r worker.ProcessResult) {
	if r.Error != nil {
		h.log.Debug().Err(r.Error).Str("game_id", r.Key).Int("seq", r.Index).Msg("game action rejected")
	}
}
