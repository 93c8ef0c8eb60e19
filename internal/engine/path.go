package engine

import "github.com/lgbarn/chess-platform-go/internal/chess"

// isPathEmpty checks that every listed square is unoccupied.
func isPathEmpty(pos *chess.Position, squares []chess.Square) bool {
	for _, sq := range squares {
		if pos.Squares[sq] != chess.Empty {
			return false
		}
	}
	return true
}

// isPathAttacked checks whether any listed square is attacked by byColour.
func isPathAttacked(pos *chess.Position, squares []chess.Square, byColour chess.Colour) bool {
	for _, sq := range squares {
		if IsAttacked(pos, sq, byColour) {
			return true
		}
	}
	return false
}
