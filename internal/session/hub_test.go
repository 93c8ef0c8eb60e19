package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/config"
	"github.com/lgbarn/chess-platform-go/internal/engine"
	"github.com/lgbarn/chess-platform-go/internal/errors"
)

// recorder is a Subscriber that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []EventType
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) last(typ EventType) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == typ {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// waitFor polls until an event of typ arrives.
func (r *recorder) waitFor(t *testing.T, typ EventType) Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e, ok := r.last(typ); ok {
			return e
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no %s event; got %v", typ, r.types())
	return Event{}
}

func sequentialIDs() func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("id-%d", atomic.AddInt64(&n, 1))
	}
}

func newTestHub(t *testing.T, opts ...Option) *Hub {
	t.Helper()
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	h, err := NewHub(*config.NewSessionConfig(), zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewHub() error: %v", err)
	}
	t.Cleanup(h.Close)
	return h
}

// table is a created game with both players' recorders.
type table struct {
	gameID       string
	white, black PlayerInfo
	wrec, brec   *recorder
}

// newTable registers two players and pairs them.
func newTable(t *testing.T, h *Hub) table {
	t.Helper()
	tb := table{wrec: &recorder{}, brec: &recorder{}}
	var err error
	if tb.white, err = h.Register("Alice", tb.wrec); err != nil {
		t.Fatalf("Register(Alice) error: %v", err)
	}
	if tb.black, err = h.Register("Bob", tb.brec); err != nil {
		t.Fatalf("Register(Bob) error: %v", err)
	}
	if err := h.SelectColour(tb.white.ID, chess.White); err != nil {
		t.Fatalf("SelectColour(white) error: %v", err)
	}
	if err := h.SelectColour(tb.black.ID, chess.Black); err != nil {
		t.Fatalf("SelectColour(black) error: %v", err)
	}
	created, ok := tb.wrec.last(EventGameCreated)
	if !ok {
		t.Fatalf("no game_created event; got %v", tb.wrec.types())
	}
	tb.gameID = created.GameID
	return tb
}

// startedTable is newTable plus StartGame.
func startedTable(t *testing.T, h *Hub, tc TimeControl) table {
	t.Helper()
	tb := newTable(t, h)
	if err := h.StartGame(context.Background(), tb.gameID, tb.white.ID, tc); err != nil {
		t.Fatalf("StartGame() error: %v", err)
	}
	return tb
}

func play(t *testing.T, h *Hub, tb table, sans ...string) {
	t.Helper()
	if err := playMoves(h, tb, sans...); err != nil {
		t.Fatal(err)
	}
}

// playMoves alternates moves between White and Black.
func playMoves(h *Hub, tb table, sans ...string) error {
	for i, san := range sans {
		id := tb.white.ID
		if i%2 == 1 {
			id = tb.black.ID
		}
		if _, err := h.Move(context.Background(), tb.gameID, id, engine.SANCandidate(san)); err != nil {
			return fmt.Errorf("Move(%s): %w", san, err)
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  bool
	}{
		{"plain", "Alice", "Alice", false},
		{"trimmed", "  Bob \t", "Bob", false},
		{"max length", strings.Repeat("x", 32), strings.Repeat("x", 32), false},
		{"multibyte counts runes", strings.Repeat("é", 32), strings.Repeat("é", 32), false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"too long", strings.Repeat("x", 33), "", true},
		{"embedded newline", "Ali\nce", "", true},
		{"tag breakout", "x\"]\n[Result \"1-0", "", true},
		{"escape character", "Bob\x1b[2J", "", true},
		{"brackets allowed", "[Bob]", "[Bob]", false},
	}

	h := newTestHub(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			info, err := h.Register(tt.input, rec)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidName) {
					t.Fatalf("Register(%q) error = %v, want ErrInvalidName", tt.input, err)
				}
				if len(rec.types()) != 0 {
					t.Errorf("rejected registration sent events %v", rec.types())
				}
				return
			}
			if err != nil {
				t.Fatalf("Register(%q) error: %v", tt.input, err)
			}
			if info.Name != tt.wantName || info.ID == "" {
				t.Errorf("Register(%q) = %+v", tt.input, info)
			}
			ev, ok := rec.last(EventRegistered)
			if !ok || ev.Player == nil || *ev.Player != info {
				t.Errorf("registered event = %+v, want player %+v", ev, info)
			}
		})
	}
}

func TestSelectColour_Matchmaking(t *testing.T) {
	h := newTestHub(t)
	a, b, c := &recorder{}, &recorder{}, &recorder{}
	alice, _ := h.Register("Alice", a)
	bob, _ := h.Register("Bob", b)
	carol, _ := h.Register("Carol", c)

	// Two players asking for the same colour both wait
	if err := h.SelectColour(alice.ID, chess.White); err != nil {
		t.Fatal(err)
	}
	if err := h.SelectColour(bob.ID, chess.White); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.last(EventWaiting); !ok {
		t.Errorf("alice events = %v, want waiting", a.types())
	}
	if got := h.Stats().Waiting; got != 2 {
		t.Errorf("Stats().Waiting = %d, want 2", got)
	}

	// Carol takes Black against the first waiting White
	if err := h.SelectColour(carol.ID, chess.Black); err != nil {
		t.Fatal(err)
	}
	created, ok := c.last(EventGameCreated)
	if !ok {
		t.Fatalf("carol events = %v, want game_created", c.types())
	}
	if created.White.ID != alice.ID || created.Black.ID != carol.ID || created.Colour != "black" {
		t.Errorf("game_created = %+v", created)
	}
	if created.FEN != engine.InitialFEN {
		t.Errorf("game_created FEN = %q", created.FEN)
	}
	aliceCreated, ok := a.last(EventGameCreated)
	if !ok || aliceCreated.GameID != created.GameID || aliceCreated.Colour != "white" {
		t.Errorf("alice game_created = %+v", aliceCreated)
	}
	if _, ok := b.last(EventGameCreated); ok {
		t.Error("bob should still be waiting")
	}
	if got := h.Stats().Waiting; got != 1 {
		t.Errorf("Stats().Waiting = %d, want 1", got)
	}

	detail, err := h.Game(created.GameID)
	if err != nil {
		t.Fatalf("Game() error: %v", err)
	}
	if detail.Status != StatusWaiting || detail.Result != "*" {
		t.Errorf("new game detail = %+v", detail)
	}
}

func TestSelectColour_ChangeWhileWaiting(t *testing.T) {
	h := newTestHub(t)
	a, b := &recorder{}, &recorder{}
	alice, _ := h.Register("Alice", a)
	bob, _ := h.Register("Bob", b)

	_ = h.SelectColour(alice.ID, chess.White)
	_ = h.SelectColour(alice.ID, chess.Black)
	if got := h.Stats().Waiting; got != 1 {
		t.Fatalf("Stats().Waiting = %d, want 1", got)
	}

	// Bob wants Black too, so no game yet
	_ = h.SelectColour(bob.ID, chess.Black)
	if _, ok := b.last(EventGameCreated); ok {
		t.Fatal("players wanting the same colour were paired")
	}
}

func TestSelectColour_UnknownPlayer(t *testing.T) {
	h := newTestHub(t)
	err := h.SelectColour("nobody", chess.White)
	if !errors.Is(err, errors.ErrPlayerNotFound) {
		t.Errorf("SelectColour() error = %v, want ErrPlayerNotFound", err)
	}
}

func TestStartGame(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)
	tb := newTable(t, h)

	if err := h.StartGame(ctx, "missing", tb.white.ID, TimeControl{}); !errors.Is(err, errors.ErrGameNotFound) {
		t.Errorf("StartGame(missing) error = %v, want ErrGameNotFound", err)
	}
	if err := h.StartGame(ctx, tb.gameID, tb.black.ID, TimeControl{}); !errors.Is(err, errors.ErrNotPermitted) {
		t.Errorf("StartGame(by black) error = %v, want ErrNotPermitted", err)
	}
	if err := h.StartGame(ctx, tb.gameID, "stranger", TimeControl{}); !errors.Is(err, errors.ErrNotParticipant) {
		t.Errorf("StartGame(by stranger) error = %v, want ErrNotParticipant", err)
	}

	tc := TimeControl{Initial: time.Hour, Increment: time.Second}
	if err := h.StartGame(ctx, tb.gameID, tb.white.ID, tc); err != nil {
		t.Fatalf("StartGame() error: %v", err)
	}
	started, ok := tb.brec.last(EventGameStarted)
	if !ok {
		t.Fatalf("black events = %v, want game_started", tb.brec.types())
	}
	if started.Turn != "white" || started.Clock == nil || started.Clock.BlackMs != time.Hour.Milliseconds() {
		t.Errorf("game_started = %+v", started)
	}

	if err := h.StartGame(ctx, tb.gameID, tb.white.ID, tc); !errors.Is(err, errors.ErrNotPermitted) {
		t.Errorf("second StartGame() error = %v, want ErrNotPermitted", err)
	}

	active := h.ActiveGames()
	if len(active) != 1 || active[0].ID != tb.gameID || active[0].StartedAt == nil {
		t.Errorf("ActiveGames() = %+v", active)
	}
}

func TestStartGame_TimeControlBounds(t *testing.T) {
	tests := []struct {
		name    string
		tc      TimeControl
		wantErr bool
	}{
		{"one nanosecond", TimeControl{Initial: time.Nanosecond}, true},
		{"over three hours", TimeControl{Initial: 181 * time.Minute}, true},
		{"increment too long", TimeControl{Initial: 5 * time.Minute, Increment: 61 * time.Second}, true},
		{"blitz", TimeControl{Initial: 3 * time.Minute, Increment: 2 * time.Second}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHub(t)
			tb := newTable(t, h)
			err := h.StartGame(context.Background(), tb.gameID, tb.white.ID, tt.tc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("StartGame(%v) error = %v, wantErr %v", tt.tc, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("StartGame(%v) error = %v, want ErrInvalidConfig", tt.tc, err)
			}
			detail, gerr := h.Game(tb.gameID)
			if gerr != nil {
				t.Fatal(gerr)
			}
			if detail.Status != StatusWaiting {
				t.Errorf("status = %s after rejected clock, want waiting", detail.Status)
			}
		})
	}
}

func TestStartGame_DefaultTimeControl(t *testing.T) {
	cfg := config.NewSessionConfig()
	cfg.TimeControl = "10m+5s"
	h, err := NewHub(*cfg, zerolog.Nop(), WithIDGenerator(sequentialIDs()))
	if err != nil {
		t.Fatalf("NewHub() error: %v", err)
	}
	t.Cleanup(h.Close)

	tb := startedTable(t, h, TimeControl{})
	detail, err := h.Game(tb.gameID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.TimeControl != "10m0s+5s" || detail.Clock == nil {
		t.Errorf("detail = %+v, want default 10m+5s clock", detail)
	}
}

func TestNewHub_InvalidConfig(t *testing.T) {
	cfg := config.NewSessionConfig()
	cfg.Workers = 0
	if _, err := NewHub(*cfg, zerolog.Nop()); !errors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("NewHub() error = %v, want ErrInvalidConfig", err)
	}
}

func TestMove_TurnOrderAndLegality(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)
	tb := newTable(t, h)

	if _, err := h.Move(ctx, tb.gameID, tb.white.ID, engine.SANCandidate("e4")); !errors.Is(err, errors.ErrGameNotActive) {
		t.Errorf("Move before start error = %v, want ErrGameNotActive", err)
	}
	if err := h.StartGame(ctx, tb.gameID, tb.white.ID, TimeControl{}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		player  string
		move    string
		wantErr error
	}{
		{"black first", tb.black.ID, "e5", errors.ErrNotYourTurn},
		{"stranger", "stranger", "e4", errors.ErrNotParticipant},
		{"illegal", tb.white.ID, "e5", errors.ErrIllegalMove},
		{"white plays", tb.white.ID, "e4", nil},
		{"white again", tb.white.ID, "d4", errors.ErrNotYourTurn},
		{"black uci", tb.black.ID, "e7e5", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Move(ctx, tb.gameID, tt.player, engine.ParseCandidate(tt.move))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Move(%s) error: %v", tt.move, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Move(%s) error = %v, want %v", tt.move, err, tt.wantErr)
			}
			var gameErr *errors.GameError
			if !errors.As(err, &gameErr) || gameErr.GameID != tb.gameID {
				t.Errorf("Move(%s) error %v lacks game context", tt.move, err)
			}
		})
	}

	detail, err := h.Game(tb.gameID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"e4", "e5"}, detail.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	if detail.MoveCount != 2 || detail.Turn != "white" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestMove_Broadcast(t *testing.T) {
	h := newTestHub(t)
	tb := startedTable(t, h, TimeControl{})

	info, err := h.Move(context.Background(), tb.gameID, tb.white.ID, engine.UCICandidate("g1f3"))
	if err != nil {
		t.Fatal(err)
	}
	want := MoveInfo{SAN: "Nf3", UCI: "g1f3", From: "g1", To: "f3", By: "white", Ply: 1}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("MoveInfo mismatch (-want +got):\n%s", diff)
	}

	for name, rec := range map[string]*recorder{"white": tb.wrec, "black": tb.brec} {
		ev, ok := rec.last(EventMoveMade)
		if !ok {
			t.Fatalf("%s got no move_made; events %v", name, rec.types())
		}
		if ev.Move == nil || *ev.Move != want || ev.Turn != "black" {
			t.Errorf("%s move_made = %+v", name, ev)
		}
		if ev.FEN != "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1" {
			t.Errorf("%s move_made FEN = %q", name, ev.FEN)
		}
	}
}

func TestMove_Checkmate(t *testing.T) {
	h := newTestHub(t)
	tb := startedTable(t, h, TimeControl{})

	play(t, h, tb, "f3", "e5", "g4", "Qh4#")

	over, ok := tb.wrec.last(EventGameOver)
	if !ok {
		t.Fatalf("white events = %v, want game_over", tb.wrec.types())
	}
	if over.Winner != "black" || over.Reason != "checkmate" || over.Result != "0-1" {
		t.Errorf("game_over = %+v", over)
	}
	moved, _ := tb.brec.last(EventMoveMade)
	if moved.Move == nil || moved.Move.SAN != "Qh4#" || !moved.Move.Check {
		t.Errorf("mating move_made = %+v", moved)
	}

	_, err := h.Move(context.Background(), tb.gameID, tb.white.ID, engine.SANCandidate("a3"))
	if !errors.Is(err, errors.ErrGameNotActive) {
		t.Errorf("Move after mate error = %v, want ErrGameNotActive", err)
	}

	stats := h.Stats()
	if stats.BlackWins != 1 || stats.ActiveGames != 0 || stats.TotalGames != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if len(h.ActiveGames()) != 0 {
		t.Error("finished game still listed as active")
	}
}

func TestMove_Repetition(t *testing.T) {
	h := newTestHub(t)
	tb := startedTable(t, h, TimeControl{})

	play(t, h, tb, "Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6", "Ng1", "Ng8")

	over, ok := tb.brec.last(EventGameOver)
	if !ok {
		t.Fatalf("black events = %v, want game_over", tb.brec.types())
	}
	if over.Winner != "" || over.Reason != "threefold_repetition" || over.Result != "1/2-1/2" {
		t.Errorf("game_over = %+v", over)
	}
	if got := h.Stats().Draws; got != 1 {
		t.Errorf("Stats().Draws = %d, want 1", got)
	}
}

func TestResign(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)
	tb := startedTable(t, h, TimeControl{})

	if err := h.Resign(ctx, tb.gameID, "stranger"); !errors.Is(err, errors.ErrNotParticipant) {
		t.Errorf("Resign(stranger) error = %v, want ErrNotParticipant", err)
	}
	if err := h.Resign(ctx, tb.gameID, tb.white.ID); err != nil {
		t.Fatalf("Resign() error: %v", err)
	}
	over, ok := tb.brec.last(EventGameOver)
	if !ok || over.Winner != "black" || over.Reason != ReasonResignation || over.Result != "0-1" {
		t.Errorf("game_over = %+v", over)
	}
	if err := h.Resign(ctx, tb.gameID, tb.black.ID); !errors.Is(err, errors.ErrGameNotActive) {
		t.Errorf("second Resign() error = %v, want ErrGameNotActive", err)
	}

	detail, _ := h.Game(tb.gameID)
	if detail.Status != StatusFinished || detail.EndedAt == nil || detail.Result != "0-1" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestDisconnect_ForfeitsGames(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)
	tb := startedTable(t, h, TimeControl{})

	if err := h.Disconnect(ctx, tb.black.ID); err != nil {
		t.Fatalf("Disconnect() error: %v", err)
	}
	over, ok := tb.wrec.last(EventGameOver)
	if !ok || over.Winner != "white" || over.Reason != ReasonDisconnected {
		t.Errorf("game_over = %+v", over)
	}
	if err := h.Disconnect(ctx, tb.black.ID); !errors.Is(err, errors.ErrPlayerNotFound) {
		t.Errorf("second Disconnect() error = %v, want ErrPlayerNotFound", err)
	}
	if got := h.Stats(); got.Players != 1 || got.WhiteWins != 1 {
		t.Errorf("Stats() = %+v", got)
	}
}

func TestDisconnect_LeavesWaitingList(t *testing.T) {
	h := newTestHub(t)
	alice, _ := h.Register("Alice", nil)
	_ = h.SelectColour(alice.ID, chess.White)

	if err := h.Disconnect(context.Background(), alice.ID); err != nil {
		t.Fatal(err)
	}
	if got := h.Stats().Waiting; got != 0 {
		t.Errorf("Stats().Waiting = %d, want 0", got)
	}

	bob, _ := h.Register("Bob", nil)
	_ = h.SelectColour(bob.ID, chess.Black)
	if got := h.Stats().TotalGames; got != 0 {
		t.Errorf("paired with a disconnected player: %d games", got)
	}
}

func TestLeave_ForfeitsCreatedGame(t *testing.T) {
	h := newTestHub(t)
	tb := newTable(t, h)

	if err := h.Leave(context.Background(), tb.white.ID); err != nil {
		t.Fatalf("Leave() error: %v", err)
	}
	over, ok := tb.brec.last(EventGameOver)
	if !ok || over.Winner != "black" || over.Reason != ReasonAbandoned {
		t.Errorf("game_over = %+v", over)
	}
	if got := h.Stats().Players; got != 2 {
		t.Errorf("Stats().Players = %d, want registration kept", got)
	}
}

func TestTimeout(t *testing.T) {
	cfg := config.NewSessionConfig()
	cfg.MinInitial = time.Millisecond
	h, err := NewHub(*cfg, zerolog.Nop(), WithIDGenerator(sequentialIDs()))
	if err != nil {
		t.Fatalf("NewHub() error: %v", err)
	}
	t.Cleanup(h.Close)
	tb := startedTable(t, h, TimeControl{Initial: 20 * time.Millisecond})

	over := tb.brec.waitFor(t, EventGameOver)
	if over.Winner != "black" || over.Reason != ReasonTimeout || over.Result != "0-1" {
		t.Errorf("game_over = %+v", over)
	}

	_, err = h.Move(context.Background(), tb.gameID, tb.white.ID, engine.SANCandidate("e4"))
	if !errors.Is(err, errors.ErrGameNotActive) {
		t.Errorf("Move after timeout error = %v, want ErrGameNotActive", err)
	}
}

func TestMove_CancelledContext(t *testing.T) {
	h := newTestHub(t)
	tb := startedTable(t, h, TimeControl{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Move(ctx, tb.gameID, tb.white.ID, engine.SANCandidate("e4"))
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Move() error = %v, want nil or context.Canceled", err)
	}
}

func TestHub_Closed(t *testing.T) {
	h, err := NewHub(*config.NewSessionConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	tb := newTable(t, h)
	h.Close()

	err = h.StartGame(context.Background(), tb.gameID, tb.white.ID, TimeControl{})
	if !errors.Is(err, errors.ErrClosed) {
		t.Errorf("StartGame() after Close error = %v, want ErrClosed", err)
	}
}

func TestGames_ParallelMoves(t *testing.T) {
	h := newTestHub(t)
	const tables = 6
	var tbs []table
	for i := 0; i < tables; i++ {
		tbs = append(tbs, startedTable(t, h, TimeControl{}))
	}

	var wg sync.WaitGroup
	for _, tb := range tbs {
		wg.Add(1)
		go func(tb table) {
			defer wg.Done()
			if err := playMoves(h, tb, "e4", "e5", "Nf3", "Nc6", "Bb5", "a6"); err != nil {
				t.Error(err)
			}
		}(tb)
	}
	wg.Wait()

	for _, tb := range tbs {
		detail, err := h.Game(tb.gameID)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6"}, detail.Moves); diff != "" {
			t.Errorf("game %s moves mismatch (-want +got):\n%s", tb.gameID, diff)
		}
	}
	if got := len(h.ActiveGames()); got != tables {
		t.Errorf("ActiveGames() = %d, want %d", got, tables)
	}
}
