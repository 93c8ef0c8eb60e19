package chess

// Special distinguishes the moves whose side effects go beyond moving one
// piece. Promotion is carried separately in Move.Promotion.
type Special int

const (
	NoSpecial Special = iota
	KingsideCastle
	QueensideCastle
	EnPassantCapture
)

// String returns the string representation of a special move class.
func (s Special) String() string {
	switch s {
	case KingsideCastle:
		return "KingsideCastle"
	case QueensideCastle:
		return "QueensideCastle"
	case EnPassantCapture:
		return "EnPassantCapture"
	}
	return "None"
}

// Move is a request or record of a single move. It is not board state:
// the same move is identical whether generated, parsed or replayed.
type Move struct {
	From Square
	To   Square

	// The piece being moved.
	Piece Piece

	// The piece captured (NoPiece if none). For en passant this is Pawn.
	Captured Piece

	// The piece promoted to (NoPiece if not a promotion).
	Promotion Piece

	Special Special
}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsCastle reports whether the move is either castling move.
func (m Move) IsCastle() bool {
	return m.Special == KingsideCastle || m.Special == QueensideCastle
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPiece
}

// String returns the move in UCI long algebraic form, e.g. "e7e8q".
func (m Move) String() string {
	buf := make([]byte, 0, 5)
	buf = append(buf, m.From.String()...)
	buf = append(buf, m.To.String()...)
	if m.Promotion != NoPiece {
		buf = append(buf, m.Promotion.Letter()+('a'-'A'))
	}
	return string(buf)
}
