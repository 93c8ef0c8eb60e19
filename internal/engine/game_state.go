package engine

import "github.com/lgbarn/chess-platform-go/internal/chess"

// IsCheckmate returns true if the position is checkmate for the side to move.
func IsCheckmate(pos *chess.Position) bool {
	return IsInCheck(pos, pos.ToMove) && !HasLegalMoves(pos)
}

// IsStalemate returns true if the position is stalemate for the side to move.
func IsStalemate(pos *chess.Position) bool {
	return !IsInCheck(pos, pos.ToMove) && !HasLegalMoves(pos)
}

// checkStatus reports whether the side to move is in check or mated.
func checkStatus(pos *chess.Position) chess.CheckStatus {
	if !IsInCheck(pos, pos.ToMove) {
		return chess.NoCheck
	}
	if HasLegalMoves(pos) {
		return chess.Check
	}
	return chess.Checkmate
}
