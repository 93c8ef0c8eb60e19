package engine

import (
	"math/rand"

	"github.com/lgbarn/chess-platform-go/internal/chess"
)

// Zobrist keys for pieces, castling, en passant and side to move.
var (
	zobristPiece     [2][chess.NumPieceValues][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	// Fixed seed so keys are identical across runs
	rnd := rand.New(rand.NewSource(0x0088C0DE))

	for c := range zobristPiece {
		for p := range zobristPiece[c] {
			for sq := range zobristPiece[c][p] {
				zobristPiece[c][p][sq] = rnd.Uint64()
			}
		}
	}
	for cr := range zobristCastle {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// Hash returns the Zobrist key of the position: placement, side to move,
// castling rights, and the en-passant file when a capture onto it is
// actually available. Two positions that are the same for repetition
// purposes hash equal. Clocks and history are ignored.
func Hash(pos *chess.Position) uint64 {
	var key uint64

	pos.Pieces(func(sq chess.Square, piece chess.ColouredPiece) {
		key ^= zobristPiece[piece.Colour()][piece.Piece()][sq.Rank()*8+sq.File()]
	})

	if pos.ToMove == chess.Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[pos.Castling&chess.AllCastling]

	if pos.EnPassant != chess.NoSquare && canCaptureEnPassant(pos) {
		key ^= zobristEnPassant[pos.EnPassant.File()]
	}
	return key
}

// canCaptureEnPassant reports whether a pawn of the side to move stands
// beside the pawn that just advanced two squares.
func canCaptureEnPassant(pos *chess.Position) bool {
	colour := pos.ToMove
	own := chess.MakeColouredPiece(colour, chess.Pawn)
	for _, offset := range pawnAttackOffsets(colour) {
		// The capturing pawn sits one diagonal step behind the target
		from := pos.EnPassant - offset
		if from.OnBoard() && pos.Squares[from] == own {
			return true
		}
	}
	return false
}
