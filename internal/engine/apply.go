package engine

import (
	"github.com/lgbarn/chess-platform-go/internal/chess"
)

// Apply applies a move to the position and updates all derived state.
// It returns the snapshot of the prior state, which is also pushed on the
// position's history; Unmake with that snapshot is an exact inverse.
// The move is assumed to come from the legal (or pseudo-legal) move list.
func Apply(pos *chess.Position, move chess.Move) chess.State {
	snapshot := pos.SaveState()
	colour := pos.ToMove

	moving := pos.Squares[move.From]
	captured := pos.Squares[move.To]
	move.Piece = moving.Piece()

	// Move the piece, substituting the promoted piece if any
	placed := moving
	if move.Promotion != chess.NoPiece {
		placed = chess.MakeColouredPiece(colour, move.Promotion)
	}
	pos.Set(move.From, chess.Empty)
	pos.Set(move.To, placed)

	switch move.Special {
	case chess.EnPassantCapture:
		// The captured pawn sits beside the destination, not on it
		pos.Set(enPassantVictim(move), chess.Empty)
	case chess.KingsideCastle, chess.QueensideCastle:
		applyCastleRook(pos, colour, move.Special)
	}

	updateCastlingRights(pos, move, colour)

	// Set en passant square only for a fresh double pawn push
	pos.EnPassant = chess.NoSquare
	if isDoublePush(move) {
		pos.EnPassant = (move.From + move.To) / 2
	}

	if move.Piece == chess.Pawn || captured != chess.Empty {
		pos.HalfmoveClock = 0
	} else {
		pos.HalfmoveClock++
	}
	if colour == chess.Black {
		pos.MoveNumber++
	}
	pos.ToMove = colour.Opposite()

	pos.PushHistory(snapshot)
	return snapshot
}

// Unmake restores the position to the snapshot returned by the matching
// Apply and drops that snapshot from the history. It is a full-state
// restore, not a move reversal, so make/unmake pairs nest safely.
func Unmake(pos *chess.Position, snapshot chess.State) {
	pos.RestoreState(snapshot)
	pos.PopHistory()
}

// Undo takes back the most recently applied move.
// Returns false if there is nothing to undo.
func Undo(pos *chess.Position) bool {
	snapshot, ok := pos.PopHistory()
	if !ok {
		return false
	}
	pos.RestoreState(snapshot)
	return true
}
