// Package chess provides core chess types and operations.
package chess

import "strings"

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// ParseColour accepts "white", "w", "black" or "b" in any case.
func ParseColour(s string) (Colour, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	}
	return Black, false
}

// Piece represents a chess piece type.
type Piece int

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	NumPieceValues
)

// String returns the string representation of a piece.
func (p Piece) String() string {
	names := []string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// Letter returns the single letter representation of a piece (uppercase).
// Pawns are 'P' here; SAN omits the letter altogether.
func (p Piece) Letter() byte {
	letters := []byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if p >= 0 && int(p) < len(letters) {
		return letters[p]
	}
	return '?'
}

// PieceFromLetter converts a piece letter of either case to a piece type.
func PieceFromLetter(c byte) Piece {
	switch c {
	case 'K', 'k':
		return King
	case 'Q', 'q':
		return Queen
	case 'R', 'r':
		return Rook
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'P', 'p':
		return Pawn
	default:
		return NoPiece
	}
}

// PromotionPieces lists the pieces a pawn may promote to, strongest first.
var PromotionPieces = [4]Piece{Queen, Rook, Bishop, Knight}

// ColouredPiece packs a piece type and its colour into one value.
// The zero value is an empty square.
type ColouredPiece uint8

// Empty is the content of an unoccupied square.
const Empty ColouredPiece = 0

// PieceShift is used for encoding coloured pieces.
const PieceShift = 3

// MakeColouredPiece creates a coloured piece value.
func MakeColouredPiece(colour Colour, piece Piece) ColouredPiece {
	return ColouredPiece(int(piece)<<PieceShift | int(colour))
}

// W creates a white piece.
func W(piece Piece) ColouredPiece {
	return MakeColouredPiece(White, piece)
}

// B creates a black piece.
func B(piece Piece) ColouredPiece {
	return MakeColouredPiece(Black, piece)
}

// Colour extracts the colour from a coloured piece.
func (cp ColouredPiece) Colour() Colour {
	return Colour(cp & 0x01)
}

// Piece extracts the piece type from a coloured piece.
func (cp ColouredPiece) Piece() Piece {
	return Piece(cp >> PieceShift)
}

// IsEmpty reports whether the value denotes an empty square.
func (cp ColouredPiece) IsEmpty() bool {
	return cp == Empty
}

// FENLetter returns the FEN letter: uppercase for White, lowercase for Black.
func (cp ColouredPiece) FENLetter() byte {
	letter := cp.Piece().Letter()
	if cp.Colour() == Black {
		letter += 'a' - 'A'
	}
	return letter
}

// String returns e.g. "White Knight", or "Empty".
func (cp ColouredPiece) String() string {
	if cp.IsEmpty() {
		return "Empty"
	}
	return cp.Colour().String() + " " + cp.Piece().String()
}

// CastlingRights is a bit set of the four castling options.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Has reports whether every right in r is held.
func (c CastlingRights) Has(r CastlingRights) bool {
	return c&r == r && r != 0
}

// KingsideRight returns the kingside castling flag for a colour.
func KingsideRight(colour Colour) CastlingRights {
	if colour == White {
		return WhiteKingside
	}
	return BlackKingside
}

// QueensideRight returns the queenside castling flag for a colour.
func QueensideRight(colour Colour) CastlingRights {
	if colour == White {
		return WhiteQueenside
	}
	return BlackQueenside
}

// BothRights returns both castling flags for a colour.
func BothRights(colour Colour) CastlingRights {
	return KingsideRight(colour) | QueensideRight(colour)
}

// String renders the rights in FEN order, or "-" when none are held.
func (c CastlingRights) String() string {
	var buf []byte
	if c&WhiteKingside != 0 {
		buf = append(buf, 'K')
	}
	if c&WhiteQueenside != 0 {
		buf = append(buf, 'Q')
	}
	if c&BlackKingside != 0 {
		buf = append(buf, 'k')
	}
	if c&BlackQueenside != 0 {
		buf = append(buf, 'q')
	}
	if len(buf) == 0 {
		return "-"
	}
	return string(buf)
}

// ColourOffset returns +1 for White, -1 for Black (for pawn direction).
func ColourOffset(colour Colour) int {
	if colour == White {
		return 1
	}
	return -1
}

// CheckStatus indicates whether a move gives check or checkmate.
type CheckStatus int

const (
	NoCheck CheckStatus = iota
	Check
	Checkmate
)

// Suffix returns the SAN suffix for the status.
func (s CheckStatus) Suffix() string {
	switch s {
	case Check:
		return "+"
	case Checkmate:
		return "#"
	}
	return ""
}
