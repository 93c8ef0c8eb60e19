package engine

import "github.com/lgbarn/chess-platform-go/internal/chess"

// Direction and offset tables on the 0x88 board.
var (
	knightOffsets   = [8]chess.Square{33, 31, 18, 14, -14, -18, -31, -33}
	kingOffsets     = [8]chess.Square{16, -16, 1, -1, 17, 15, -15, -17}
	diagonalOffsets = [4]chess.Square{17, 15, -15, -17}
	straightOffsets = [4]chess.Square{16, -16, 1, -1}
)

// pawnAttackOffsets returns the two offsets a pawn of the given colour
// attacks along.
func pawnAttackOffsets(colour chess.Colour) [2]chess.Square {
	if colour == chess.White {
		return [2]chess.Square{15, 17}
	}
	return [2]chess.Square{-15, -17}
}

// IsInCheck returns true if the given colour's king is in check.
// A position without that king is a programming error and panics.
func IsInCheck(pos *chess.Position, colour chess.Colour) bool {
	king := pos.KingSquare(colour)
	if !king.OnBoard() {
		panic("engine: no " + colour.String() + " king on the board")
	}
	return IsAttacked(pos, king, colour.Opposite())
}

// IsKingAttacked is IsInCheck under the name used by the game-end and
// castling rules.
func IsKingAttacked(pos *chess.Position, colour chess.Colour) bool {
	return IsInCheck(pos, colour)
}

// IsAttacked returns true if the square is attacked by the given colour.
// Occupancy of the square itself does not matter: a pawn attacks the
// diagonal squares in front of it whether or not they hold a piece.
func IsAttacked(pos *chess.Position, sq chess.Square, byColour chess.Colour) bool {
	// Check pawn attacks by looking back along the attacker's capture offsets
	pawn := chess.MakeColouredPiece(byColour, chess.Pawn)
	for _, offset := range pawnAttackOffsets(byColour) {
		from := sq - offset
		if from.OnBoard() && pos.Squares[from] == pawn {
			return true
		}
	}

	// Check knight attacks
	knight := chess.MakeColouredPiece(byColour, chess.Knight)
	for _, offset := range knightOffsets {
		from := sq + offset
		if from.OnBoard() && pos.Squares[from] == knight {
			return true
		}
	}

	// Check king attacks
	king := chess.MakeColouredPiece(byColour, chess.King)
	for _, offset := range kingOffsets {
		from := sq + offset
		if from.OnBoard() && pos.Squares[from] == king {
			return true
		}
	}

	// Check sliding pieces (bishop, queen) along diagonals
	bishop := chess.MakeColouredPiece(byColour, chess.Bishop)
	queen := chess.MakeColouredPiece(byColour, chess.Queen)
	for _, offset := range diagonalOffsets {
		if piece := firstPieceAlong(pos, sq, offset); piece == bishop || piece == queen {
			return true
		}
	}

	// Check sliding pieces (rook, queen) along straight lines
	rook := chess.MakeColouredPiece(byColour, chess.Rook)
	for _, offset := range straightOffsets {
		if piece := firstPieceAlong(pos, sq, offset); piece == rook || piece == queen {
			return true
		}
	}

	return false
}

// firstPieceAlong returns the first piece met walking from sq in the given
// direction, or Empty if the ray leaves the board first.
func firstPieceAlong(pos *chess.Position, sq, offset chess.Square) chess.ColouredPiece {
	for to := sq + offset; to.OnBoard(); to += offset {
		if piece := pos.Squares[to]; piece != chess.Empty {
			return piece
		}
	}
	return chess.Empty
}

// Attackers returns the squares holding pieces of byColour that attack sq.
// Used for diagnostics in the API; the move generator relies on IsAttacked.
func Attackers(pos *chess.Position, sq chess.Square, byColour chess.Colour) []chess.Square {
	var out []chess.Square
	pos.Pieces(func(from chess.Square, piece chess.ColouredPiece) {
		if piece.Colour() == byColour && attacksSquare(pos, from, piece, sq) {
			out = append(out, from)
		}
	})
	return out
}

// attacksSquare reports whether the piece on from attacks target.
func attacksSquare(pos *chess.Position, from chess.Square, piece chess.ColouredPiece, target chess.Square) bool {
	switch piece.Piece() {
	case chess.Pawn:
		for _, offset := range pawnAttackOffsets(piece.Colour()) {
			if from+offset == target {
				return true
			}
		}
	case chess.Knight:
		for _, offset := range knightOffsets {
			if from+offset == target {
				return true
			}
		}
	case chess.King:
		for _, offset := range kingOffsets {
			if from+offset == target {
				return true
			}
		}
	case chess.Bishop:
		return slidesTo(pos, from, target, diagonalOffsets[:])
	case chess.Rook:
		return slidesTo(pos, from, target, straightOffsets[:])
	case chess.Queen:
		return slidesTo(pos, from, target, diagonalOffsets[:]) ||
			slidesTo(pos, from, target, straightOffsets[:])
	}
	return false
}

// slidesTo reports whether a slider on from reaches target along one of
// offsets, stopping at the first occupied square.
func slidesTo(pos *chess.Position, from, target chess.Square, offsets []chess.Square) bool {
	for _, offset := range offsets {
		for to := from + offset; to.OnBoard(); to += offset {
			if to == target {
				return true
			}
			if pos.Squares[to] != chess.Empty {
				break
			}
		}
	}
	return false
}
