package main

import (
	"context"
	"fmt"
	"io"

	"github.com/lgbarn/chess-platform-go/internal/engine"
)

// runPerft counts nodes from fen to depth and writes the total to w. With
// divide set the count below each root move is written first.
func runPerft(ctx context.Context, w io.Writer, fen string, depth int, divide bool) (uint64, error) {
	pos, err := engine.NewPositionFromFEN(fen)
	if err != nil {
		return 0, err
	}

	entries, err := engine.Divide(ctx, pos, depth)
	if err != nil {
		return 0, err
	}
	if divide {
		for _, e := range entries {
			fmt.Fprintf(w, "%s: %d\n", e.Move, e.Nodes)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Moves: %d\n", len(entries))
	}
	total := engine.DivideTotal(entries)
	fmt.Fprintf(w, "Nodes searched: %d\n", total)
	return total, nil
}
