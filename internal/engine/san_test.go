package engine

import (
	"testing"

	"github.com/lgbarn/chess-platform-go/internal/errors"
)

func TestMoveToSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
		want string
	}{
		{"pawn push", InitialFEN, "e2e4", "e4"},
		{"knight", InitialFEN, "g1f3", "Nf3"},
		{"disambiguate by file", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "b1d2", "Nbd2"},
		{"disambiguate by rank", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a5a3", "R5a3"},
		{"full square", "4k3/8/8/8/8/Q7/8/Q1Q1K3 w - - 0 1", "a1b2", "Qa1b2"},
		{"queen rank only", "4k3/8/8/8/8/Q7/8/Q1Q1K3 w - - 0 1", "a3b2", "Q3b2"},
		{"queen file only", "4k3/8/8/8/8/Q7/8/Q1Q1K3 w - - 0 1", "c1b2", "Qcb2"},
		{"pawn capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", "e4d5", "exd5"},
		{"en passant", "rnbqkbnr/1pp1pppp/p7/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3", "e5d6", "exd6"},
		{"promotion with check", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7e8q", "e8=Q+"},
		{"under promotion", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7e8n", "e8=N"},
		{"kingside castle", "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"queenside castle", "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"mate", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq g3 0 2", "d8h4", "Qh4#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			m := findMove(t, pos, tt.uci)
			if got := MoveToSAN(pos, m); got != tt.want {
				t.Errorf("MoveToSAN(%s) = %q, want %q", tt.uci, got, tt.want)
			}
			if got := PositionToFEN(pos); got != tt.fen {
				t.Errorf("MoveToSAN changed the position to %q", got)
			}
		})
	}
}

func TestParseSAN(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		san     string
		wantUCI string
		wantErr error
	}{
		{"pawn push", InitialFEN, "e4", "e2e4", nil},
		{"check mark ignored", InitialFEN, "Nf3+", "g1f3", nil},
		{"annotation ignored", InitialFEN, "e4!?", "e2e4", nil},
		{"over qualified", InitialFEN, "Ngf3", "g1f3", nil},
		{"zero castling", "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1", "0-0-0", "e1c1", nil},
		{"bare promotion letter", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1", "e8Q", "e7e8q", nil},
		{"rank qualifier", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "R1a3", "a1a3", nil},
		{"ambiguous knight", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "Nd2", "", errors.ErrAmbiguousMove},
		{"promotion piece missing", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1", "e8", "", errors.ErrNoMatch},
		{"illegal pawn push", InitialFEN, "e5", "", errors.ErrNoMatch},
		{"wrong side", InitialFEN, "Nf6", "", errors.ErrNoMatch},
		{"garbage", InitialFEN, "Qxx9", "", errors.ErrNoMatch},
		{"empty", InitialFEN, "", "", errors.ErrNoMatch},
		{"castling unavailable", InitialFEN, "O-O", "", errors.ErrNoMatch},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "exd5", "e4d5", nil},
		{"pawn capture without file", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "d5", "", errors.ErrNoMatch},
		{"pawn capture marker only", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "xd5", "", errors.ErrNoMatch},
		{"knight capture", "4k3/8/8/8/8/5p2/8/4K1N1 w - - 0 1", "Nxf3", "g1f3", nil},
		{"knight capture without marker", "4k3/8/8/8/8/5p2/8/4K1N1 w - - 0 1", "Nf3", "", errors.ErrNoMatch},
		{"capture marker on quiet move", InitialFEN, "Nxf3", "", errors.ErrNoMatch},
		{"promotion capture without marker", "3rk3/4P3/8/8/8/8/8/4K3 w - - 0 1", "ed8=Q", "", errors.ErrNoMatch},
		{"promotion capture", "3rk3/4P3/8/8/8/8/8/4K3 w - - 0 1", "exd8=Q", "e7d8q", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			m, err := ParseSAN(pos, tt.san)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseSAN(%q) error = %v, want %v", tt.san, err, tt.wantErr)
				}
				var parseErr *errors.ParseError
				if !errors.As(err, &parseErr) || parseErr.Input != tt.san {
					t.Errorf("ParseSAN(%q) error %v is not a ParseError for the input", tt.san, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSAN(%q) error: %v", tt.san, err)
			}
			if m.String() != tt.wantUCI {
				t.Errorf("ParseSAN(%q) = %s, want %s", tt.san, m, tt.wantUCI)
			}
		})
	}
}

func TestMoveToSANFrom(t *testing.T) {
	fens := []string{
		InitialFEN,
		"4k3/8/8/8/8/Q7/8/Q1Q1K3 w - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			legal := LegalMoves(pos)
			for _, m := range legal {
				want := MoveToSAN(pos, m)
				if got := MoveToSANFrom(pos, m, legal); got != want {
					t.Errorf("MoveToSANFrom(%s) = %q, want %q", m, got, want)
				}
			}
			if got := PositionToFEN(pos); got != fen {
				t.Errorf("rendering changed the position to %q", got)
			}
		})
	}
}

func TestSANRoundTrip(t *testing.T) {
	fens := []string{
		InitialFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"4k3/8/8/8/8/Q7/8/Q1Q1K3 w - - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			for _, m := range LegalMoves(pos) {
				san := MoveToSAN(pos, m)
				got, ok := SANToMove(pos, san)
				if !ok {
					t.Errorf("SANToMove(%q) failed for %s", san, m)
					continue
				}
				if got != m {
					t.Errorf("SANToMove(%q) = %+v, want %+v", san, got, m)
				}
			}
		})
	}
}
