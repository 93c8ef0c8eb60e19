package testutil

import (
	"testing"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/engine"
)

// Well-known test positions.
const (
	// Kiwipete exercises castling, en passant, promotion and pins at once.
	KiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	// CastlingFEN has every castling path clear.
	CastlingFEN = "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1"
)

// MustPosition decodes a FEN string, or the initial position when fen is
// empty. It calls t.Fatal if decoding fails.
func MustPosition(t testing.TB, fen string) *chess.Position {
	t.Helper()
	if fen == "" {
		return engine.NewGame()
	}
	pos, err := engine.LoadPosition(fen)
	if err != nil {
		t.Fatalf("LoadPosition(%q) error: %v", fen, err)
	}
	return pos
}

// PlayMoves applies SAN moves to the position in order and returns the
// results. It calls t.Fatal on the first rejected move.
func PlayMoves(t testing.TB, pos *chess.Position, sans ...string) []engine.MoveResult {
	t.Helper()
	results := make([]engine.MoveResult, 0, len(sans))
	for i, san := range sans {
		result, err := engine.TryMove(pos, engine.SANCandidate(san))
		if err != nil {
			t.Fatalf("move %d %q: %v", i+1, san, err)
		}
		results = append(results, result)
	}
	return results
}

// MustGame starts a standard game and plays the SAN moves. It calls
// t.Fatal on the first rejected move.
func MustGame(t testing.TB, sans ...string) *engine.Game {
	t.Helper()
	g := engine.NewStandardGame()
	for i, san := range sans {
		if _, err := g.Play(engine.SANCandidate(san)); err != nil {
			t.Fatalf("move %d %q: %v", i+1, san, err)
		}
	}
	return g
}

// UCIMoves renders moves in UCI form, in the order given.
func UCIMoves(moves []chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
