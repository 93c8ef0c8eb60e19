package session

import (
	"strconv"

	"github.com/lgbarn/chess-platform-go/internal/output"
)

// PGN tag values for hub games.
const (
	pgnEvent = "Casual game"
	pgnSite  = "chess-server"
)

// Record returns the PGN export of a game. Unfinished games have
// result "*".
func (h *Hub) Record(id string) (output.Record, error) {
	g, err := h.lookup(id)
	if err != nil {
		return output.Record{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	when := g.startedAt
	if when.IsZero() {
		when = g.createdAt
	}
	when = when.UTC()

	tags := map[string]string{
		output.TagEvent:       pgnEvent,
		output.TagSite:        pgnSite,
		output.TagDate:        when.Format("2006.01.02"),
		output.TagRound:       "-",
		output.TagWhite:       g.white.Name,
		output.TagBlack:       g.black.Name,
		output.TagUTCDate:     when.Format("2006.01.02"),
		output.TagUTCTime:     when.Format("15:04:05"),
		output.TagTimeControl: pgnTimeControl(g.tc),
		output.TagPlyCount:    strconv.Itoa(g.ply),
	}
	if g.status == StatusFinished {
		tags[output.TagTermination] = pgnTermination(g.reason)
	}

	result := g.result
	if result == "" {
		result = "*"
	}
	return output.Record{Tags: tags, Moves: g.board.Moves(), Result: result}, nil
}

// pgnTimeControl formats tc as "initial+increment" in seconds, or "-".
func pgnTimeControl(tc TimeControl) string {
	if !tc.IsTimed() {
		return "-"
	}
	s := strconv.FormatInt(int64(tc.Initial.Seconds()), 10)
	if tc.Increment > 0 {
		s += "+" + strconv.FormatInt(int64(tc.Increment.Seconds()), 10)
	}
	return s
}

func pgnTermination(reason string) string {
	switch reason {
	case ReasonTimeout:
		return "time forfeit"
	case ReasonDisconnected, ReasonAbandoned:
		return "abandoned"
	}
	return "normal"
}
