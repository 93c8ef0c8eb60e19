package engine

import (
	"strings"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/errors"
)

// Castling notation.
const (
	sanKingside  = "O-O"
	sanQueenside = "O-O-O"
)

// MoveToSAN renders a legal move in Standard Algebraic Notation, including
// the check or mate suffix. The move must come from LegalMoves(pos).
func MoveToSAN(pos *chess.Position, m chess.Move) string {
	return moveToSAN(pos, m, LegalMoves(pos))
}

// MoveToSANFrom renders m like MoveToSAN but reuses a legal move list
// already generated for pos.
func MoveToSANFrom(pos *chess.Position, m chess.Move, legal []chess.Move) string {
	return moveToSAN(pos, m, legal)
}

// moveToSAN renders m using an already generated legal move list for
// disambiguation.
func moveToSAN(pos *chess.Position, m chess.Move, legal []chess.Move) string {
	var sb strings.Builder

	switch m.Special {
	case chess.KingsideCastle:
		sb.WriteString(sanKingside)
	case chess.QueensideCastle:
		sb.WriteString(sanQueenside)
	default:
		if m.Piece == chess.Pawn {
			if m.IsCapture() {
				sb.WriteByte(byte(chess.FirstCol + m.From.File()))
			}
		} else {
			sb.WriteByte(m.Piece.Letter())
			sb.WriteString(disambiguation(m, legal))
		}
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion.Letter())
		}
	}

	snapshot := Apply(pos, m)
	sb.WriteString(checkStatus(pos).Suffix())
	Unmake(pos, snapshot)

	return sb.String()
}

// disambiguation returns the shortest origin qualifier that separates m
// from other legal moves of the same piece kind to the same square: the
// file if that is unique, else the rank, else the full square.
func disambiguation(m chess.Move, legal []chess.Move) string {
	ambiguities, sameRank, sameFile := 0, 0, 0
	for _, other := range legal {
		if other.Piece != m.Piece || other.To != m.To || other.From == m.From {
			continue
		}
		ambiguities++
		if other.From.Rank() == m.From.Rank() {
			sameRank++
		}
		if other.From.File() == m.From.File() {
			sameFile++
		}
	}

	switch {
	case ambiguities == 0:
		return ""
	case sameRank > 0 && sameFile > 0:
		return m.From.String()
	case sameFile > 0:
		return string(rune(chess.FirstRank + m.From.Rank()))
	default:
		return string(rune(chess.FirstCol + m.From.File()))
	}
}

// SANToMove resolves SAN text against the legal moves of the position.
// It returns false unless exactly one legal move matches.
func SANToMove(pos *chess.Position, san string) (chess.Move, bool) {
	m, err := ParseSAN(pos, san)
	return m, err == nil
}

// ParseSAN resolves SAN text against the legal moves of the position.
// Trailing check, mate and annotation marks are ignored and castling may be
// written with zeros. Over-qualified origins such as "Ngf3" are accepted.
// The error is a *errors.ParseError wrapping ErrNoMatch or ErrAmbiguousMove.
func ParseSAN(pos *chess.Position, san string) (chess.Move, error) {
	text := stripSANSuffix(san)
	legal := LegalMoves(pos)

	// Exact match against the canonical rendering first
	for _, m := range legal {
		if stripSANSuffix(moveToSAN(pos, m, legal)) == text {
			return m, nil
		}
	}

	pattern, ok := decodeSAN(text)
	if !ok {
		return chess.Move{}, &errors.ParseError{Err: errors.ErrNoMatch, Input: san}
	}

	var found chess.Move
	matches := 0
	for _, m := range legal {
		if pattern.matches(m) {
			found = m
			matches++
		}
	}
	switch matches {
	case 0:
		return chess.Move{}, &errors.ParseError{Err: errors.ErrNoMatch, Input: san}
	case 1:
		return found, nil
	default:
		return chess.Move{}, &errors.ParseError{Err: errors.ErrAmbiguousMove, Input: san}
	}
}

// stripSANSuffix removes check, mate and annotation marks and normalises
// zero-spelled castling.
func stripSANSuffix(san string) string {
	text := strings.TrimRight(strings.TrimSpace(san), "+#!?")
	switch text {
	case "0-0":
		return sanKingside
	case "0-0-0":
		return sanQueenside
	}
	return text
}

// sanPattern is the decoded content of a SAN token. Unset origin parts
// are -1.
type sanPattern struct {
	special   chess.Special
	piece     chess.Piece
	fromFile  int
	fromRank  int
	capture   bool
	to        chess.Square
	promotion chess.Piece
}

// matches reports whether a legal move fits the pattern.
func (p sanPattern) matches(m chess.Move) bool {
	if p.special == chess.KingsideCastle || p.special == chess.QueensideCastle {
		return m.Special == p.special
	}
	if m.IsCastle() || m.Piece != p.piece || m.To != p.to || m.Promotion != p.promotion {
		return false
	}
	if p.fromFile >= 0 && m.From.File() != p.fromFile {
		return false
	}
	if p.fromRank >= 0 && m.From.Rank() != p.fromRank {
		return false
	}
	// A pawn without an origin file may only push straight ahead
	if p.piece == chess.Pawn && p.fromFile < 0 && m.From.File() != p.to.File() {
		return false
	}
	return p.capture == m.IsCapture()
}

// isFile returns true if c is a valid file character.
func isFile(c byte) bool {
	return c >= chess.FirstCol && c <= chess.LastCol
}

// isRank returns true if c is a valid rank character.
func isRank(c byte) bool {
	return c >= chess.FirstRank && c <= chess.LastRank
}

// isPieceLetter returns the piece for an uppercase SAN piece letter.
func isPieceLetter(c byte) chess.Piece {
	switch c {
	case 'N', 'B', 'R', 'Q', 'K':
		return chess.PieceFromLetter(c)
	}
	return chess.NoPiece
}

// decodeSAN splits a suffix-free SAN token into its parts.
func decodeSAN(text string) (sanPattern, bool) {
	p := sanPattern{piece: chess.Pawn, fromFile: -1, fromRank: -1, to: chess.NoSquare}
	switch text {
	case sanKingside:
		p.special = chess.KingsideCastle
		return p, true
	case sanQueenside:
		p.special = chess.QueensideCastle
		return p, true
	}
	if len(text) < 2 {
		return p, false
	}

	if piece := isPieceLetter(text[0]); piece != chess.NoPiece {
		p.piece = piece
		text = text[1:]
	}

	// Promotion: "=Q" or a bare trailing piece letter
	if n := len(text); n > 0 {
		if piece := isPieceLetter(text[n-1]); piece != chess.NoPiece {
			if p.piece != chess.Pawn || piece == chess.King {
				return p, false
			}
			p.promotion = piece
			text = strings.TrimSuffix(text[:n-1], "=")
		}
	}

	if len(text) < 2 {
		return p, false
	}
	to, ok := chess.ParseSquare(text[len(text)-2:])
	if !ok {
		return p, false
	}
	p.to = to

	for i := 0; i < len(text)-2; i++ {
		c := text[i]
		switch {
		case c == 'x':
			p.capture = true
		case isFile(c) && p.fromFile < 0:
			p.fromFile = int(c - chess.FirstCol)
		case isRank(c) && p.fromRank < 0:
			p.fromRank = int(c - chess.FirstRank)
		default:
			return p, false
		}
	}
	return p, true
}
