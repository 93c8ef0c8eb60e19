package engine

import "github.com/lgbarn/chess-platform-go/internal/chess"

// generateStepMoves appends knight or king moves from fixed offset tables.
// Destinations must be on the board and empty or hold an enemy piece.
func generateStepMoves(pos *chess.Position, from chess.Square, colour chess.Colour, piece chess.Piece, offsets []chess.Square, moves []chess.Move) []chess.Move {
	for _, offset := range offsets {
		to := from + offset
		if !to.OnBoard() {
			continue
		}
		target := pos.Squares[to]
		if target == chess.Empty {
			moves = append(moves, chess.Move{From: from, To: to, Piece: piece})
		} else if target.Colour() != colour {
			moves = append(moves, chess.Move{From: from, To: to, Piece: piece, Captured: target.Piece()})
		}
	}
	return moves
}

// generateSlidingMoves appends bishop, rook or queen moves by ray casting
// until the board edge, an own piece, or an enemy piece (included).
func generateSlidingMoves(pos *chess.Position, from chess.Square, colour chess.Colour, piece chess.Piece, offsets []chess.Square, moves []chess.Move) []chess.Move {
	for _, offset := range offsets {
		for to := from + offset; to.OnBoard(); to += offset {
			target := pos.Squares[to]
			if target == chess.Empty {
				moves = append(moves, chess.Move{From: from, To: to, Piece: piece})
				continue
			}
			if target.Colour() != colour {
				moves = append(moves, chess.Move{From: from, To: to, Piece: piece, Captured: target.Piece()})
			}
			break // Blocked
		}
	}
	return moves
}

// queenOffsets is the union of the diagonal and straight directions.
var queenOffsets = append(append([]chess.Square{}, diagonalOffsets[:]...), straightOffsets[:]...)

// generatePieceMoves dispatches generation for a non-pawn piece.
func generatePieceMoves(pos *chess.Position, from chess.Square, colour chess.Colour, piece chess.Piece, moves []chess.Move) []chess.Move {
	switch piece {
	case chess.Knight:
		return generateStepMoves(pos, from, colour, piece, knightOffsets[:], moves)
	case chess.King:
		moves = generateStepMoves(pos, from, colour, piece, kingOffsets[:], moves)
		return generateCastlingMoves(pos, from, colour, moves)
	case chess.Bishop:
		return generateSlidingMoves(pos, from, colour, piece, diagonalOffsets[:], moves)
	case chess.Rook:
		return generateSlidingMoves(pos, from, colour, piece, straightOffsets[:], moves)
	case chess.Queen:
		return generateSlidingMoves(pos, from, colour, piece, queenOffsets, moves)
	}
	return moves
}
