package engine

import "github.com/lgbarn/chess-platform-go/internal/chess"

// castleGeometry describes one castling option for one colour.
type castleGeometry struct {
	right    chess.CastlingRights
	special  chess.Special
	kingFrom chess.Square
	kingTo   chess.Square
	rookFrom chess.Square
	rookTo   chess.Square
	// Squares that must be empty, and squares the king crosses or lands on
	// that must not be attacked.
	empty   []chess.Square
	transit []chess.Square
}

var castles = [2][2]castleGeometry{
	chess.White: {
		{
			right: chess.WhiteKingside, special: chess.KingsideCastle,
			kingFrom: chess.E1, kingTo: chess.G1, rookFrom: chess.H1, rookTo: chess.F1,
			empty:   []chess.Square{chess.F1, chess.G1},
			transit: []chess.Square{chess.F1, chess.G1},
		},
		{
			right: chess.WhiteQueenside, special: chess.QueensideCastle,
			kingFrom: chess.E1, kingTo: chess.C1, rookFrom: chess.A1, rookTo: chess.D1,
			empty:   []chess.Square{chess.D1, chess.C1, chess.B1},
			transit: []chess.Square{chess.D1, chess.C1},
		},
	},
	chess.Black: {
		{
			right: chess.BlackKingside, special: chess.KingsideCastle,
			kingFrom: chess.E8, kingTo: chess.G8, rookFrom: chess.H8, rookTo: chess.F8,
			empty:   []chess.Square{chess.F8, chess.G8},
			transit: []chess.Square{chess.F8, chess.G8},
		},
		{
			right: chess.BlackQueenside, special: chess.QueensideCastle,
			kingFrom: chess.E8, kingTo: chess.C8, rookFrom: chess.A8, rookTo: chess.D8,
			empty:   []chess.Square{chess.D8, chess.C8, chess.B8},
			transit: []chess.Square{chess.D8, chess.C8},
		},
	},
}

// generateCastlingMoves appends the castling moves available to the king
// on from. Castling out of, through, or into check is never generated.
func generateCastlingMoves(pos *chess.Position, from chess.Square, colour chess.Colour, moves []chess.Move) []chess.Move {
	if pos.Castling&chess.BothRights(colour) == 0 {
		return moves
	}
	opponent := colour.Opposite()
	if IsAttacked(pos, from, opponent) {
		return moves
	}

	for _, c := range castles[colour] {
		if !pos.Castling.Has(c.right) || from != c.kingFrom {
			continue
		}
		if pos.Squares[c.rookFrom] != chess.MakeColouredPiece(colour, chess.Rook) {
			continue
		}
		if !isPathEmpty(pos, c.empty) || isPathAttacked(pos, c.transit, opponent) {
			continue
		}
		moves = append(moves, chess.Move{
			From:    c.kingFrom,
			To:      c.kingTo,
			Piece:   chess.King,
			Special: c.special,
		})
	}
	return moves
}

// castleFor returns the geometry of a castling move made by colour.
func castleFor(colour chess.Colour, special chess.Special) castleGeometry {
	options := castles[colour]
	if special == chess.KingsideCastle {
		return options[0]
	}
	return options[1]
}

// applyCastleRook relocates the rook for a castling move. The king itself
// is moved by the caller like any other piece.
func applyCastleRook(pos *chess.Position, colour chess.Colour, special chess.Special) {
	c := castleFor(colour, special)
	rook := pos.Squares[c.rookFrom]
	pos.Set(c.rookFrom, chess.Empty)
	pos.Set(c.rookTo, rook)
}

// rookHomeRights maps rook home squares to the right lost when that
// square is vacated or captured on.
var rookHomeRights = map[chess.Square]chess.CastlingRights{
	chess.H1: chess.WhiteKingside,
	chess.A1: chess.WhiteQueenside,
	chess.H8: chess.BlackKingside,
	chess.A8: chess.BlackQueenside,
}

// updateCastlingRights revokes rights when a king leaves its home square,
// or a rook leaves or is captured on its home square. Rights are never
// restored.
func updateCastlingRights(pos *chess.Position, m chess.Move, colour chess.Colour) {
	if pos.Castling == chess.NoCastling {
		return
	}
	if m.Piece == chess.King {
		pos.Castling &^= chess.BothRights(colour)
	}
	if right, ok := rookHomeRights[m.From]; ok {
		pos.Castling &^= right
	}
	if right, ok := rookHomeRights[m.To]; ok {
		pos.Castling &^= right
	}
}
