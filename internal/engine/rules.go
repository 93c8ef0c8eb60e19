// Package engine provides chess move generation, validation and board
// manipulation.
package engine

import (
	"github.com/lgbarn/chess-platform-go/internal/chess"
)

// GameEndReason classifies a terminal position.
type GameEndReason int

const (
	Ongoing GameEndReason = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	FiftyMoveRule
	ThreefoldRepetition
)

// FiftyMoveLimit is the halfmove clock value at which the game is drawn.
const FiftyMoveLimit = 100

// String returns the wire name of the reason.
func (r GameEndReason) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient_material"
	case FiftyMoveRule:
		return "fifty_move_rule"
	case ThreefoldRepetition:
		return "threefold_repetition"
	}
	return "ongoing"
}

// Status is the outcome of evaluating a position.
type Status struct {
	Reason GameEndReason

	// Winner is only meaningful for checkmate.
	Winner chess.Colour
}

// IsOver reports whether the game has ended.
func (s Status) IsOver() bool {
	return s.Reason != Ongoing
}

// IsDraw reports whether the game ended without a winner.
func (s Status) IsDraw() bool {
	return s.IsOver() && s.Reason != Checkmate
}

// Result returns the PGN result string: "1-0", "0-1", "1/2-1/2" or "*".
func (s Status) Result() string {
	switch {
	case !s.IsOver():
		return "*"
	case s.IsDraw():
		return "1/2-1/2"
	case s.Winner == chess.White:
		return "1-0"
	default:
		return "0-1"
	}
}

// Evaluate classifies the position for the side to move, in order:
// checkmate or stalemate when there are no legal moves, then insufficient
// material, then the fifty-move rule. Repetition needs the game history and
// is handled by Game.Status.
func Evaluate(pos *chess.Position) Status {
	side := pos.ToMove
	if !HasLegalMoves(pos) {
		if IsInCheck(pos, side) {
			return Status{Reason: Checkmate, Winner: side.Opposite()}
		}
		return Status{Reason: Stalemate}
	}
	if HasInsufficientMaterial(pos) {
		return Status{Reason: InsufficientMaterial}
	}
	if pos.HalfmoveClock >= FiftyMoveLimit {
		return Status{Reason: FiftyMoveRule}
	}
	return Status{Reason: Ongoing}
}

// HasInsufficientMaterial returns true if the position has insufficient
// mating material for either side.
// Insufficient material includes:
// - K vs K
// - K+B vs K
// - K+N vs K
// - K+B vs K+B (same color bishops)
func HasInsufficientMaterial(pos *chess.Position) bool {
	var whitePieces, blackPieces []chess.Piece
	var whiteBishopOnLight, blackBishopOnLight bool
	sufficient := false

	// Count pieces for each side
	pos.Pieces(func(sq chess.Square, piece chess.ColouredPiece) {
		pieceType := piece.Piece()

		// Kings don't count for material
		if pieceType == chess.King {
			return
		}

		// Any pawn, rook, or queen means sufficient material
		if pieceType == chess.Pawn || pieceType == chess.Rook || pieceType == chess.Queen {
			sufficient = true
			return
		}

		if piece.Colour() == chess.White {
			whitePieces = append(whitePieces, pieceType)
			if pieceType == chess.Bishop {
				whiteBishopOnLight = sq.IsLight()
			}
		} else {
			blackPieces = append(blackPieces, pieceType)
			if pieceType == chess.Bishop {
				blackBishopOnLight = sq.IsLight()
			}
		}
	})
	if sufficient {
		return false
	}

	// K vs K
	if len(whitePieces) == 0 && len(blackPieces) == 0 {
		return true
	}

	// K+B vs K or K+N vs K
	if len(whitePieces) == 0 && len(blackPieces) == 1 {
		return true
	}
	if len(blackPieces) == 0 && len(whitePieces) == 1 {
		return true
	}

	// K+B vs K+B (same color bishops)
	if len(whitePieces) == 1 && len(blackPieces) == 1 &&
		whitePieces[0] == chess.Bishop && blackPieces[0] == chess.Bishop {
		return whiteBishopOnLight == blackBishopOnLight
	}

	return false
}
