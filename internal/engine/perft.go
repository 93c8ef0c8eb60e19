package engine

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/chess-platform-go/internal/chess"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
// The position is restored before returning.
func Perft(pos *chess.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := LegalMoves(pos)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		snapshot := Apply(pos, m)
		nodes += Perft(pos, depth-1)
		Unmake(pos, snapshot)
	}
	return nodes
}

// DivideEntry is the node count below one root move.
type DivideEntry struct {
	Move  chess.Move
	Nodes uint64
}

// Divide runs perft below each root move in parallel. Every goroutine
// works on its own copy of the position; pos itself is not modified.
// Entries are sorted by the UCI text of the move.
func Divide(ctx context.Context, pos *chess.Position, depth int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, nil
	}
	moves := LegalMoves(pos.Copy())
	entries := make([]DivideEntry, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range moves {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			local := pos.Copy()
			Apply(local, m)
			entries[i] = DivideEntry{Move: m, Nodes: Perft(local, depth-1)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries, nil
}

// DivideTotal sums the node counts of a divide result.
func DivideTotal(entries []DivideEntry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	return total
}
