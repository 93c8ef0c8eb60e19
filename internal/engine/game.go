package engine

import (
	"fmt"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/errors"
)

// RepetitionLimit is the number of occurrences of one position that draws
// the game.
const RepetitionLimit = 3

// NewGame returns a position with the standard starting layout.
func NewGame() *chess.Position {
	return NewInitialPosition()
}

// LoadPosition decodes a FEN string. Errors are *errors.DecodeError.
func LoadPosition(fen string) (*chess.Position, error) {
	return NewPositionFromFEN(fen)
}

// ExportPosition encodes the position as FEN.
func ExportPosition(pos *chess.Position) string {
	return PositionToFEN(pos)
}

// CandidateKind says how a Candidate move was written.
type CandidateKind int

const (
	CandidateSAN CandidateKind = iota
	CandidateUCI
	CandidateSquares
)

// Candidate is a move as submitted by a caller. It is only a request:
// legality is always re-derived from the position.
type Candidate struct {
	Kind CandidateKind

	// Text holds the SAN or UCI string.
	Text string

	// From, To and Promotion are used by CandidateSquares.
	From      chess.Square
	To        chess.Square
	Promotion chess.Piece
}

// SANCandidate wraps SAN text such as "Nf3" or "exd6".
func SANCandidate(san string) Candidate {
	return Candidate{Kind: CandidateSAN, Text: san}
}

// UCICandidate wraps long algebraic text such as "e2e4" or "e7e8q".
func UCICandidate(uci string) Candidate {
	return Candidate{Kind: CandidateUCI, Text: uci}
}

// SquaresCandidate builds a candidate from origin, destination and an
// optional promotion piece.
func SquaresCandidate(from, to chess.Square, promotion chess.Piece) Candidate {
	return Candidate{Kind: CandidateSquares, From: from, To: to, Promotion: promotion}
}

// ParseCandidate classifies free text: anything shaped like UCI is a UCI
// candidate, everything else is treated as SAN.
func ParseCandidate(text string) Candidate {
	if _, _, _, ok := parseUCI(text); ok {
		return UCICandidate(text)
	}
	return SANCandidate(text)
}

// String returns the candidate as it was submitted.
func (c Candidate) String() string {
	if c.Kind == CandidateSquares {
		return chess.Move{From: c.From, To: c.To, Promotion: c.Promotion}.String()
	}
	return c.Text
}

// parseUCI splits "e7e8q" into squares and promotion piece.
func parseUCI(text string) (from, to chess.Square, promotion chess.Piece, ok bool) {
	if len(text) != 4 && len(text) != 5 {
		return chess.NoSquare, chess.NoSquare, chess.NoPiece, false
	}
	if from, ok = chess.ParseSquare(text[0:2]); !ok {
		return chess.NoSquare, chess.NoSquare, chess.NoPiece, false
	}
	if to, ok = chess.ParseSquare(text[2:4]); !ok {
		return chess.NoSquare, chess.NoSquare, chess.NoPiece, false
	}
	if len(text) == 5 {
		switch text[4] {
		case 'q', 'r', 'b', 'n':
			promotion = chess.PieceFromLetter(text[4])
		default:
			return chess.NoSquare, chess.NoSquare, chess.NoPiece, false
		}
	}
	return from, to, promotion, true
}

// MoveResult describes a move accepted by TryMove.
type MoveResult struct {
	Move chess.Move
	SAN  string
	UCI  string

	// Check is true when the side now to move is in check (or mated).
	Check bool

	// Terminal is set when the move ended the game.
	Terminal *Status

	// FEN of the position after the move.
	FEN string
}

// TryMove resolves a candidate against the legal moves of the position
// and applies it. On failure the error is a *errors.IllegalMoveError and
// the position is unchanged. A move by the side not to move is illegal.
func TryMove(pos *chess.Position, c Candidate) (MoveResult, error) {
	legal := LegalMoves(pos)
	m, err := resolveCandidate(pos, c, legal)
	if err != nil {
		return MoveResult{}, err
	}

	san := moveToSAN(pos, m, legal)
	Apply(pos, m)

	result := MoveResult{
		Move:  m,
		SAN:   san,
		UCI:   m.String(),
		Check: IsInCheck(pos, pos.ToMove),
		FEN:   PositionToFEN(pos),
	}
	if status := Evaluate(pos); status.IsOver() {
		result.Terminal = &status
	}
	return result, nil
}

// resolveCandidate finds the legal move a candidate denotes.
func resolveCandidate(pos *chess.Position, c Candidate, legal []chess.Move) (chess.Move, error) {
	var from, to chess.Square
	var promotion chess.Piece

	switch c.Kind {
	case CandidateSAN:
		m, err := ParseSAN(pos, c.Text)
		if err != nil {
			return chess.Move{}, &errors.IllegalMoveError{
				Err: errors.ErrIllegalMove, Move: c.Text, Reason: sanReason(err),
			}
		}
		return m, nil
	case CandidateUCI:
		var ok bool
		if from, to, promotion, ok = parseUCI(c.Text); !ok {
			return chess.Move{}, &errors.IllegalMoveError{
				Err: errors.ErrIllegalMove, Move: c.Text, Reason: "malformed move",
			}
		}
	case CandidateSquares:
		from, to, promotion = c.From, c.To, c.Promotion
		if !from.OnBoard() || !to.OnBoard() {
			return chess.Move{}, &errors.IllegalMoveError{
				Err: errors.ErrIllegalMove, Move: c.String(), Reason: "square off the board",
			}
		}
	default:
		return chess.Move{}, &errors.IllegalMoveError{
			Err: errors.ErrIllegalMove, Move: c.String(), Reason: "unknown move format",
		}
	}

	for _, m := range legal {
		if m.From == from && m.To == to && m.Promotion == promotion {
			return m, nil
		}
	}
	return chess.Move{}, &errors.IllegalMoveError{
		Err: errors.ErrIllegalMove, Move: c.String(), Reason: squaresReason(pos, from, promotion),
	}
}

// sanReason turns a SAN resolution error into a short reason.
func sanReason(err error) string {
	if errors.Is(err, errors.ErrAmbiguousMove) {
		return "ambiguous"
	}
	return "no legal move matches"
}

// squaresReason explains why an origin/destination pair is not legal.
func squaresReason(pos *chess.Position, from chess.Square, promotion chess.Piece) string {
	piece := pos.Squares[from]
	switch {
	case piece == chess.Empty:
		return fmt.Sprintf("no piece on %s", from)
	case piece.Colour() != pos.ToMove:
		return fmt.Sprintf("%s to move", pos.ToMove)
	case promotion != chess.NoPiece && piece.Piece() != chess.Pawn:
		return "only pawns promote"
	}
	return fmt.Sprintf("%s cannot make that move", piece.Piece())
}

// Game is a position plus the record needed to run a full game: the SAN
// move list and the position counts for repetition. A Game is not safe
// for concurrent use.
type Game struct {
	pos         *chess.Position
	moves       []string
	repetitions map[uint64]int
	status      Status
}

// NewStandardGame starts a game from the standard starting position.
func NewStandardGame() *Game {
	return newGame(NewInitialPosition())
}

// NewGameFromFEN starts a game from a FEN position.
func NewGameFromFEN(fen string) (*Game, error) {
	pos, err := NewPositionFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGame(pos), nil
}

func newGame(pos *chess.Position) *Game {
	g := &Game{
		pos:         pos,
		repetitions: make(map[uint64]int),
	}
	g.repetitions[Hash(pos)]++
	g.status = Evaluate(pos)
	return g
}

// Play resolves and applies a candidate move. Once the game is over every
// move is rejected with ErrGameNotActive.
func (g *Game) Play(c Candidate) (MoveResult, error) {
	if g.status.IsOver() {
		return MoveResult{}, &errors.IllegalMoveError{
			Err: errors.ErrGameNotActive, Move: c.String(), Reason: g.status.Reason.String(),
		}
	}

	result, err := TryMove(g.pos, c)
	if err != nil {
		return MoveResult{}, err
	}
	g.moves = append(g.moves, result.SAN)

	// Positions before an irreversible move can never recur
	if g.pos.HalfmoveClock == 0 {
		clear(g.repetitions)
	}
	key := Hash(g.pos)
	g.repetitions[key]++

	status := Evaluate(g.pos)
	if !status.IsOver() && g.repetitions[key] >= RepetitionLimit {
		status = Status{Reason: ThreefoldRepetition}
	}
	g.status = status
	result.Terminal = nil
	if status.IsOver() {
		result.Terminal = &status
	}
	return result, nil
}

// Status returns the game status, repetition included.
func (g *Game) Status() Status {
	return g.status
}

// FEN returns the current position as FEN.
func (g *Game) FEN() string {
	return PositionToFEN(g.pos)
}

// Moves returns the SAN of every move played so far.
func (g *Game) Moves() []string {
	return append([]string(nil), g.moves...)
}

// Turn returns the side to move.
func (g *Game) Turn() chess.Colour {
	return g.pos.ToMove
}

// LegalMoves returns the legal moves in the current position.
func (g *Game) LegalMoves() []chess.Move {
	if g.status.IsOver() {
		return nil
	}
	return LegalMoves(g.pos)
}

// Position returns a copy of the current position.
func (g *Game) Position() *chess.Position {
	return g.pos.Copy()
}
