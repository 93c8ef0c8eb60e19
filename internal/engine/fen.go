package engine

import (
	"strconv"
	"strings"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN field names used in decode errors.
const (
	fieldFEN       = "fen"
	fieldPlacement = "placement"
	fieldSide      = "side"
	fieldCastling  = "castling"
	fieldEnPassant = "en passant"
	fieldHalfmove  = "halfmove clock"
	fieldFullmove  = "fullmove number"
)

// castlingOrder is the canonical order of castling letters.
var castlingOrder = []struct {
	letter byte
	right  chess.CastlingRights
	king   chess.Square
	rook   chess.Square
	colour chess.Colour
}{
	{'K', chess.WhiteKingside, chess.E1, chess.H1, chess.White},
	{'Q', chess.WhiteQueenside, chess.E1, chess.A1, chess.White},
	{'k', chess.BlackKingside, chess.E8, chess.H8, chess.Black},
	{'q', chess.BlackQueenside, chess.E8, chess.A8, chess.Black},
}

func decodeError(field, value string) error {
	return &errors.DecodeError{Err: errors.ErrInvalidFEN, Field: field, Value: value}
}

// NewPositionFromFEN decodes a FEN string. The input must have exactly six
// fields and describe a position that could arise in play: one king per
// colour, consistent castling rights and en-passant target, and the side
// not to move out of check. Any failure returns a *errors.DecodeError and
// no position.
func NewPositionFromFEN(fen string) (*chess.Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, decodeError(fieldFEN, fen)
	}

	pos := chess.NewPosition()
	if err := parsePlacement(pos, parts[0]); err != nil {
		return nil, err
	}
	if err := parseSideToMove(pos, parts[1]); err != nil {
		return nil, err
	}
	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}
	if err := parseEnPassant(pos, parts[3]); err != nil {
		return nil, err
	}
	if err := parseClocks(pos, parts[4], parts[5]); err != nil {
		return nil, err
	}

	if IsInCheck(pos, pos.ToMove.Opposite()) {
		return nil, decodeError(fieldSide, parts[1])
	}
	return pos, nil
}

// parsePlacement parses the piece placement field, rank 8 first.
func parsePlacement(pos *chess.Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != chess.BoardSize {
		return decodeError(fieldPlacement, placement)
	}

	var kings [2]int
	for i, row := range ranks {
		rank := chess.BoardSize - 1 - i
		file := 0
		prevDigit := false
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				// Two adjacent digits would be a non-canonical empty run
				if prevDigit {
					return decodeError(fieldPlacement, row)
				}
				file += int(c - '0')
				prevDigit = true
				continue
			}
			prevDigit = false
			piece := chess.PieceFromLetter(c)
			if piece == chess.NoPiece || file >= chess.BoardSize {
				return decodeError(fieldPlacement, row)
			}
			colour := chess.White
			if c >= 'a' && c <= 'z' {
				colour = chess.Black
			}
			if piece == chess.Pawn && (rank == 0 || rank == chess.BoardSize-1) {
				return decodeError(fieldPlacement, row)
			}
			if piece == chess.King {
				kings[colour]++
			}
			pos.Set(chess.NewSquare(file, rank), chess.MakeColouredPiece(colour, piece))
			file++
		}
		if file != chess.BoardSize {
			return decodeError(fieldPlacement, row)
		}
	}

	if kings[chess.White] != 1 || kings[chess.Black] != 1 {
		return decodeError(fieldPlacement, placement)
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(pos *chess.Position, side string) error {
	switch side {
	case "w":
		pos.ToMove = chess.White
	case "b":
		pos.ToMove = chess.Black
	default:
		return decodeError(fieldSide, side)
	}
	return nil
}

// parseCastlingRights parses the castling availability field. Letters must
// appear in KQkq order without repeats, and each right needs its king and
// rook on their home squares.
func parseCastlingRights(pos *chess.Position, castling string) error {
	pos.Castling = chess.NoCastling
	if castling == "-" {
		return nil
	}
	if castling == "" {
		return decodeError(fieldCastling, castling)
	}

	next := 0
	for i := 0; i < len(castling); i++ {
		found := false
		for next < len(castlingOrder) {
			entry := castlingOrder[next]
			next++
			if entry.letter != castling[i] {
				continue
			}
			if pos.Squares[entry.king] != chess.MakeColouredPiece(entry.colour, chess.King) ||
				pos.Squares[entry.rook] != chess.MakeColouredPiece(entry.colour, chess.Rook) {
				return decodeError(fieldCastling, castling)
			}
			pos.Castling |= entry.right
			found = true
			break
		}
		if !found {
			return decodeError(fieldCastling, castling)
		}
	}
	return nil
}

// parseEnPassant parses the en passant target square field. The target
// must sit behind a pawn of the side that just moved, on rank 6 with White
// to move or rank 3 with Black to move.
func parseEnPassant(pos *chess.Position, ep string) error {
	pos.EnPassant = chess.NoSquare
	if ep == "-" {
		return nil
	}

	sq, ok := chess.ParseSquare(ep)
	if !ok {
		return decodeError(fieldEnPassant, ep)
	}

	mover := pos.ToMove.Opposite()
	wantRank := 2
	if pos.ToMove == chess.White {
		wantRank = 5
	}
	pushed := sq - chess.Square(16*chess.ColourOffset(pos.ToMove))
	if sq.Rank() != wantRank ||
		pos.Squares[sq] != chess.Empty ||
		pos.Squares[pushed] != chess.MakeColouredPiece(mover, chess.Pawn) {
		return decodeError(fieldEnPassant, ep)
	}

	pos.EnPassant = sq
	return nil
}

// parseClocks parses the halfmove clock and fullmove number fields.
func parseClocks(pos *chess.Position, halfmove, fullmove string) error {
	half, err := strconv.ParseUint(halfmove, 10, 32)
	if err != nil {
		return decodeError(fieldHalfmove, halfmove)
	}
	full, err := strconv.ParseUint(fullmove, 10, 32)
	if err != nil || full < 1 {
		return decodeError(fieldFullmove, fullmove)
	}
	pos.HalfmoveClock = uint(half)
	pos.MoveNumber = uint(full)
	return nil
}

// PositionToFEN encodes a position as FEN. It is the exact inverse of
// NewPositionFromFEN for every position that decoder accepts.
func PositionToFEN(pos *chess.Position) string {
	var sb strings.Builder

	writePlacement(&sb, pos)
	sb.WriteByte(' ')
	if pos.ToMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(pos.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(pos.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatUint(uint64(pos.HalfmoveClock), 10))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatUint(uint64(pos.MoveNumber), 10))

	return sb.String()
}

// writePlacement writes the piece placement field to the builder.
func writePlacement(sb *strings.Builder, pos *chess.Position) {
	for rank := chess.BoardSize - 1; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < chess.BoardSize; file++ {
			piece := pos.Squares[chess.NewSquare(file, rank)]
			if piece == chess.Empty {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(piece.FENLetter())
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
}

// NewInitialPosition creates a position with the standard starting layout.
func NewInitialPosition() *chess.Position {
	pos := chess.NewPosition()
	pos.SetupInitialPosition()
	return pos
}
