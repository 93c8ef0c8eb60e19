package chess

// State captures all mutable position state. It doubles as the snapshot
// pushed on every applied move: restoring a State is an exact undo.
type State struct {
	// The 0x88 board; only indices with (i & 0x88) == 0 are used.
	Squares [NumSlots]ColouredPiece

	// Who has the next move.
	ToMove Colour

	// Remaining castling options for both sides.
	Castling CastlingRights

	// The square skipped by a two-square pawn advance on the previous ply,
	// or NoSquare.
	EnPassant Square

	// The half-move clock since the last pawn move or capture.
	HalfmoveClock uint

	// The current move number; incremented after Black moves.
	MoveNumber uint

	// Keep track of where the two kings are for check detection,
	// indexed by Colour.
	Kings [2]Square
}

// Position is a board plus the snapshot stack needed to undo the moves
// applied to it. A Position must not be mutated by two goroutines at once.
type Position struct {
	State

	// History holds one snapshot per applied move, oldest first.
	History []State
}

// NewPosition creates a new empty position with White to move.
func NewPosition() *Position {
	return &Position{
		State: State{
			ToMove:     White,
			MoveNumber: 1,
			EnPassant:  NoSquare,
			Kings:      [2]Square{NoSquare, NoSquare},
		},
	}
}

// SetupInitialPosition sets up the standard chess starting position.
func (p *Position) SetupInitialPosition() {
	p.Squares = [NumSlots]ColouredPiece{}

	backRank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < BoardSize; file++ {
		p.Squares[NewSquare(file, 0)] = W(backRank[file])
		p.Squares[NewSquare(file, 1)] = W(Pawn)
		p.Squares[NewSquare(file, 6)] = B(Pawn)
		p.Squares[NewSquare(file, 7)] = B(backRank[file])
	}

	p.Kings[White] = E1
	p.Kings[Black] = E8
	p.Castling = AllCastling
	p.ToMove = White
	p.MoveNumber = 1
	p.EnPassant = NoSquare
	p.HalfmoveClock = 0
	p.History = nil
}

// Get returns the piece on a square, or Empty for empty and off-board squares.
func (p *Position) Get(sq Square) ColouredPiece {
	if !sq.OnBoard() {
		return Empty
	}
	return p.Squares[sq]
}

// Set places a piece on a square, keeping the king cache in sync.
// Off-board squares are ignored.
func (p *Position) Set(sq Square, piece ColouredPiece) {
	if !sq.OnBoard() {
		return
	}
	if old := p.Squares[sq]; old.Piece() == King && p.Kings[old.Colour()] == sq {
		p.Kings[old.Colour()] = NoSquare
	}
	p.Squares[sq] = piece
	if piece.Piece() == King {
		p.Kings[piece.Colour()] = sq
	}
}

// KingSquare returns the cached king square for a colour.
func (p *Position) KingSquare(colour Colour) Square {
	return p.Kings[colour]
}

// Copy creates a deep copy of the position, history included.
func (p *Position) Copy() *Position {
	newPos := &Position{State: p.State}
	if len(p.History) > 0 {
		newPos.History = append([]State(nil), p.History...)
	}
	return newPos
}

// SaveState captures the current state for later restoration.
func (p *Position) SaveState() State {
	return p.State
}

// RestoreState restores the position to a previously saved state.
// The history stack is left untouched.
func (p *Position) RestoreState(s State) {
	p.State = s
}

// PushHistory records a snapshot on the history stack.
func (p *Position) PushHistory(s State) {
	p.History = append(p.History, s)
}

// PopHistory removes and returns the latest snapshot.
func (p *Position) PopHistory() (State, bool) {
	n := len(p.History)
	if n == 0 {
		return State{}, false
	}
	s := p.History[n-1]
	p.History = p.History[:n-1]
	return s, true
}

// Pieces calls fn for every occupied square, a1 to h8.
func (p *Position) Pieces(fn func(sq Square, piece ColouredPiece)) {
	for sq := Square(0); sq < NumSlots; sq++ {
		if sq&0x88 != 0 {
			sq += 7
			continue
		}
		if piece := p.Squares[sq]; piece != Empty {
			fn(sq, piece)
		}
	}
}
