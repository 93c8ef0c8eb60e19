package engine

import "github.com/lgbarn/chess-platform-go/internal/chess"

// LegalMoves returns the legal moves for the side to move. Each
// pseudo-legal move is applied, the mover's king is tested, and the move
// is unmade; moves that leave the king attacked are dropped. This also
// covers pins and discovered checks, so there is no separate pin table.
func LegalMoves(pos *chess.Position) []chess.Move {
	colour := pos.ToMove
	pseudo := PseudoMoves(pos)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if tryMove(pos, m, colour) {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func HasLegalMoves(pos *chess.Position) bool {
	colour := pos.ToMove
	for _, m := range PseudoMoves(pos) {
		if tryMove(pos, m, colour) {
			return true
		}
	}
	return false
}

// IsLegal reports whether m, matched by origin, destination and promotion,
// is a legal move in the position. It returns the fully described legal
// move on success.
func IsLegal(pos *chess.Position, m chess.Move) (chess.Move, bool) {
	for _, legal := range LegalMoves(pos) {
		if legal.From == m.From && legal.To == m.To && legal.Promotion == m.Promotion {
			return legal, true
		}
	}
	return chess.Move{}, false
}

// tryMove makes a move and checks if it leaves the king in check, then
// restores the position.
func tryMove(pos *chess.Position, m chess.Move, colour chess.Colour) bool {
	snapshot := Apply(pos, m)
	safe := !IsInCheck(pos, colour)
	Unmake(pos, snapshot)
	return safe
}
