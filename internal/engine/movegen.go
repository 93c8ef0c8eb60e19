package engine

import "github.com/lgbarn/chess-platform-go/internal/chess"

// PseudoMoves returns every geometrically valid move for the side to move,
// ignoring whether it leaves the mover's own king in check. An empty
// result is valid.
func PseudoMoves(pos *chess.Position) []chess.Move {
	return appendPseudoMoves(pos, make([]chess.Move, 0, 48))
}

// appendPseudoMoves appends the pseudo-legal moves of the side to move.
func appendPseudoMoves(pos *chess.Position, moves []chess.Move) []chess.Move {
	colour := pos.ToMove
	for sq := chess.Square(0); sq < chess.NumSlots; sq++ {
		if sq&0x88 != 0 {
			sq += 7
			continue
		}
		piece := pos.Squares[sq]
		if piece == chess.Empty || piece.Colour() != colour {
			continue
		}
		if piece.Piece() == chess.Pawn {
			moves = generatePawnMoves(pos, sq, colour, moves)
		} else {
			moves = generatePieceMoves(pos, sq, colour, piece.Piece(), moves)
		}
	}
	return moves
}
