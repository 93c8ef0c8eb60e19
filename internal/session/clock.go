package session

import (
	"sync"
	"time"

	"github.com/lgbarn/chess-platform-go/internal/chess"
)

// TimeControl is the starting time per side plus the increment added after
// each move. A zero Initial means the game is untimed.
type TimeControl struct {
	Initial   time.Duration
	Increment time.Duration
}

// IsTimed reports whether the control runs a clock.
func (tc TimeControl) IsTimed() bool {
	return tc.Initial > 0
}

// String returns the control in "5m0s+3s" form, or "none".
func (tc TimeControl) String() string {
	if !tc.IsTimed() {
		return "none"
	}
	return tc.Initial.String() + "+" + tc.Increment.String()
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithNow replaces the time source used to measure elapsed time.
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) {
		c.now = now
	}
}

// Clock is a two-sided chess clock. Only the side to move is charged.
// When that side runs out the flag callback fires exactly once, from its
// own goroutine.
type Clock struct {
	mu        sync.Mutex
	tc        TimeControl
	remaining [2]time.Duration
	turn      chess.Colour
	turnStart time.Time
	running   bool
	flagged   bool
	timer     *time.Timer
	gen       uint64 // invalidates timers from earlier turns
	now       func() time.Time
	onFlag    func(chess.Colour)
}

// NewClock creates a stopped clock with the full initial time on both sides.
func NewClock(tc TimeControl, onFlag func(chess.Colour), opts ...ClockOption) *Clock {
	c := &Clock{
		tc:     tc,
		now:    time.Now,
		onFlag: onFlag,
	}
	c.remaining[chess.White] = tc.Initial
	c.remaining[chess.Black] = tc.Initial
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start runs the clock for the given side.
func (c *Clock) Start(turn chess.Colour) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.flagged {
		return
	}
	c.running = true
	c.turn = turn
	c.turnStart = c.now()
	c.schedule()
}

// Press ends the turn of colour: the elapsed time is debited, the
// increment credited and the opponent's clock started. It returns the
// mover's remaining time, and false if the flag had already fallen or it
// was not colour's turn.
func (c *Clock) Press(colour chess.Colour) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || colour != c.turn {
		return c.remaining[colour], false
	}

	now := c.now()
	left := c.remaining[colour] - now.Sub(c.turnStart)
	if left <= 0 {
		c.remaining[colour] = 0
		return 0, false
	}
	left += c.tc.Increment
	c.remaining[colour] = left
	c.turn = colour.Opposite()
	c.turnStart = now
	c.schedule()
	return left, true
}

// Remaining returns the time left for colour, counting the running turn.
func (c *Clock) Remaining(colour chess.Colour) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked(colour)
}

func (c *Clock) remainingLocked(colour chess.Colour) time.Duration {
	left := c.remaining[colour]
	if c.running && colour == c.turn {
		left -= c.now().Sub(c.turnStart)
	}
	if left < 0 {
		return 0
	}
	return left
}

// Stop freezes both sides. A stopped clock never flags.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.remaining[c.turn] = c.remainingLocked(c.turn)
	c.running = false
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
	}
}

// Running reports whether the clock is counting down.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// schedule arms the flag timer for the side to move. Caller holds mu.
func (c *Clock) schedule() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.gen
	c.timer = time.AfterFunc(c.remaining[c.turn], func() { c.fire(gen) })
}

func (c *Clock) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.running || c.flagged {
		c.mu.Unlock()
		return
	}
	side := c.turn
	c.remaining[side] = 0
	c.running = false
	c.flagged = true
	c.mu.Unlock()

	if c.onFlag != nil {
		c.onFlag(side)
	}
}
