package engine

import "github.com/lgbarn/chess-platform-go/internal/chess"

// startRank returns the 0-based rank pawns of the colour start on.
func startRank(colour chess.Colour) int {
	if colour == chess.White {
		return 1
	}
	return 6
}

// promotionRank returns the 0-based rank on which pawns of the colour promote.
func promotionRank(colour chess.Colour) int {
	if colour == chess.White {
		return 7
	}
	return 0
}

// generatePawnMoves appends the pseudo-legal moves of the pawn on from:
// pushes, double pushes from the start rank, captures, en passant, and
// four promotion moves for every move that reaches the last rank.
func generatePawnMoves(pos *chess.Position, from chess.Square, colour chess.Colour, moves []chess.Move) []chess.Move {
	forward := chess.Square(16 * chess.ColourOffset(colour))

	// Forward move
	one := from + forward
	if one.OnBoard() && pos.Squares[one] == chess.Empty {
		moves = appendPawnMove(moves, chess.Move{From: from, To: one, Piece: chess.Pawn}, colour)

		// Double push from starting rank through two empty squares
		two := one + forward
		if from.Rank() == startRank(colour) && pos.Squares[two] == chess.Empty {
			moves = append(moves, chess.Move{From: from, To: two, Piece: chess.Pawn})
		}
	}

	// Captures
	for _, offset := range pawnAttackOffsets(colour) {
		to := from + offset
		if !to.OnBoard() {
			continue
		}
		target := pos.Squares[to]
		if target != chess.Empty && target.Colour() != colour {
			moves = appendPawnMove(moves, chess.Move{
				From:     from,
				To:       to,
				Piece:    chess.Pawn,
				Captured: target.Piece(),
			}, colour)
			continue
		}
		// En passant
		if to == pos.EnPassant && target == chess.Empty {
			moves = append(moves, chess.Move{
				From:     from,
				To:       to,
				Piece:    chess.Pawn,
				Captured: chess.Pawn,
				Special:  chess.EnPassantCapture,
			})
		}
	}
	return moves
}

// appendPawnMove appends m, expanded into the four promotion choices when
// it lands on the last rank. There is never a "no promotion" variant.
func appendPawnMove(moves []chess.Move, m chess.Move, colour chess.Colour) []chess.Move {
	if m.To.Rank() != promotionRank(colour) {
		return append(moves, m)
	}
	for _, promo := range chess.PromotionPieces {
		m.Promotion = promo
		moves = append(moves, m)
	}
	return moves
}

// enPassantVictim returns the square of the pawn removed by an en-passant
// capture: the origin rank on the destination file.
func enPassantVictim(m chess.Move) chess.Square {
	return chess.NewSquare(m.To.File(), m.From.Rank())
}

// isDoublePush reports whether a pawn move advances two squares.
func isDoublePush(m chess.Move) bool {
	diff := m.To - m.From
	return m.Piece == chess.Pawn && (diff == 32 || diff == -32)
}
