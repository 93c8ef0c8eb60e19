package session

import (
	"context"
	"testing"
	"time"

	"github.com/lgbarn/chess-platform-go/internal/errors"
	"github.com/lgbarn/chess-platform-go/internal/output"
	"github.com/lgbarn/chess-platform-go/internal/testutil"
)

func TestRecord(t *testing.T) {
	start := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	h := newTestHub(t, WithTimeSource(func() time.Time { return start }))
	tb := startedTable(t, h, TimeControl{Initial: 5 * time.Minute, Increment: 3 * time.Second})
	play(t, h, tb, "e4", "c5", "Nf3")

	rec, err := h.Record(tb.gameID)
	if err != nil {
		t.Fatal(err)
	}
	want := output.Record{
		Tags: map[string]string{
			output.TagEvent:       "Casual game",
			output.TagSite:        "chess-server",
			output.TagDate:        "2026.03.14",
			output.TagRound:       "-",
			output.TagWhite:       "Alice",
			output.TagBlack:       "Bob",
			output.TagUTCDate:     "2026.03.14",
			output.TagUTCTime:     "15:09:26",
			output.TagTimeControl: "300+3",
			output.TagPlyCount:    "3",
		},
		Moves:  []string{"e4", "c5", "Nf3"},
		Result: "*",
	}
	testutil.AssertEqual(t, rec, want)

	if err := h.Resign(context.Background(), tb.gameID, tb.black.ID); err != nil {
		t.Fatal(err)
	}
	rec, _ = h.Record(tb.gameID)
	if rec.Result != "1-0" || rec.Tags[output.TagTermination] != "normal" {
		t.Errorf("after resign: result %q, termination %q", rec.Result, rec.Tags[output.TagTermination])
	}

	_, err = h.Record("missing")
	testutil.AssertErrorIs(t, err, errors.ErrGameNotFound)
}

func TestPGNTags(t *testing.T) {
	tcs := []struct {
		tc   TimeControl
		want string
	}{
		{TimeControl{}, "-"},
		{TimeControl{Initial: 10 * time.Minute}, "600"},
		{TimeControl{Initial: 3 * time.Minute, Increment: 2 * time.Second}, "180+2"},
	}
	for _, tt := range tcs {
		if got := pgnTimeControl(tt.tc); got != tt.want {
			t.Errorf("pgnTimeControl(%v) = %q, want %q", tt.tc, got, tt.want)
		}
	}

	reasons := map[string]string{
		ReasonTimeout:      "time forfeit",
		ReasonDisconnected: "abandoned",
		ReasonAbandoned:    "abandoned",
		ReasonResignation:  "normal",
		"checkmate":        "normal",
	}
	for reason, want := range reasons {
		if got := pgnTermination(reason); got != want {
			t.Errorf("pgnTermination(%q) = %q, want %q", reason, got, want)
		}
	}
}
