package chess

// Square is an index on the 0x88 board: rank*16 + file, with a1 = 0 and
// h8 = 0x77. Any index with a bit of 0x88 set lies off the board.
type Square int

// NoSquare marks an absent square (no en-passant target, no king).
const NoSquare Square = -1

// Constants for board dimensions and coordinates.
const (
	BoardSize = 8
	NumSlots  = 128

	FirstRank = '1'
	LastRank  = FirstRank + BoardSize - 1
	FirstCol  = 'a'
	LastCol   = FirstCol + BoardSize - 1
)

// Named squares used by castling and tests.
const (
	A1 Square = 0x00
	B1 Square = 0x01
	C1 Square = 0x02
	D1 Square = 0x03
	E1 Square = 0x04
	F1 Square = 0x05
	G1 Square = 0x06
	H1 Square = 0x07
	A8 Square = 0x70
	B8 Square = 0x71
	C8 Square = 0x72
	D8 Square = 0x73
	E8 Square = 0x74
	F8 Square = 0x75
	G8 Square = 0x76
	H8 Square = 0x77
)

// NewSquare builds a square from 0-based file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank<<4 | file)
}

// OnBoard reports whether the square is one of the 64 playable cells.
func (s Square) OnBoard() bool {
	return s >= 0 && s < NumSlots && s&0x88 == 0
}

// File returns the 0-based file (0 = a).
func (s Square) File() int {
	return int(s) & 7
}

// Rank returns the 0-based rank (0 = rank 1).
func (s Square) Rank() int {
	return int(s) >> 4
}

// IsLight reports whether the square is a light square (h1 is light).
func (s Square) IsLight() bool {
	return (s.File()+s.Rank())%2 == 1
}

// String returns algebraic notation such as "e4", or "-" for NoSquare.
func (s Square) String() string {
	if !s.OnBoard() {
		return "-"
	}
	return string([]byte{byte(FirstCol + s.File()), byte(FirstRank + s.Rank())})
}

// ParseSquare converts algebraic notation ("e4") to a square.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return NoSquare, false
	}
	col, rank := s[0], s[1]
	if col < FirstCol || col > LastCol || rank < FirstRank || rank > LastRank {
		return NoSquare, false
	}
	return NewSquare(int(col-FirstCol), int(rank-FirstRank)), true
}

// Squares returns the 64 on-board squares from a1 to h8, rank by rank.
func Squares() []Square {
	out := make([]Square, 0, BoardSize*BoardSize)
	for rank := 0; rank < BoardSize; rank++ {
		for file := 0; file < BoardSize; file++ {
			out = append(out, NewSquare(file, rank))
		}
	}
	return out
}
