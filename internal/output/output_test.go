package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	notnil "github.com/notnil/chess"

	"github.com/lgbarn/chess-platform-go/internal/testutil"
)

func TestWritePGN(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "unfinished game with defaults",
			rec:  Record{Moves: []string{"e4", "e5", "Nf3"}},
			want: `[Event "?"]
[Site "?"]
[Date "?"]
[Round "?"]
[White "?"]
[Black "?"]
[Result "*"]

1. e4 e5 2. Nf3 *
`,
		},
		{
			name: "extra tags sorted after roster",
			rec: Record{
				Tags: map[string]string{
					TagWhite:       "Alice",
					TagBlack:       `Bob "the rook"`,
					TagTimeControl: "300+2",
					TagPlyCount:    "4",
				},
				Moves:  []string{"f3", "e5", "g4", "Qh4#"},
				Result: "0-1",
			},
			want: `[Event "?"]
[Site "?"]
[Date "?"]
[Round "?"]
[White "Alice"]
[Black "Bob \"the rook\""]
[Result "0-1"]
[PlyCount "4"]
[TimeControl "300+2"]

1. f3 e5 2. g4 Qh4# 0-1
`,
		},
		{
			name: "black to move from setup position",
			rec: Record{
				StartFEN: "4k3/8/8/8/8/8/4P3/4K3 b - - 0 12",
				Moves:    []string{"Kd7", "e4"},
				Result:   "*",
			},
			want: `[Event "?"]
[Site "?"]
[Date "?"]
[Round "?"]
[White "?"]
[Black "?"]
[Result "*"]
[FEN "4k3/8/8/8/8/8/4P3/4K3 b - - 0 12"]
[SetUp "1"]

12... Kd7 13. e4 *
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePGN(&buf, tt.rec, 0); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("PGN mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWritePGN_Wraps(t *testing.T) {
	moves := make([]string, 0, 40)
	for i := 0; i < 20; i++ {
		moves = append(moves, "Nf3", "Nf6", "Ng1", "Ng8")
	}
	var buf bytes.Buffer
	if err := WritePGN(&buf, Record{Moves: moves}, 40); err != nil {
		t.Fatal(err)
	}
	movetext := strings.SplitN(buf.String(), "\n\n", 2)[1]
	for _, line := range strings.Split(strings.TrimSpace(movetext), "\n") {
		if len(line) > 40 {
			t.Errorf("line longer than 40: %q", line)
		}
		if strings.HasPrefix(line, " ") || strings.HasSuffix(line, " ") {
			t.Errorf("line has stray spaces: %q", line)
		}
	}
	if got := strings.Join(strings.Fields(movetext), " "); !strings.HasSuffix(got, "40. Ng1 Ng8 *") {
		t.Errorf("movetext = %q", got)
	}
}

func TestWritePGN_PlayedGame(t *testing.T) {
	g := testutil.MustGame(t, "e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4", "Nf6", "O-O")
	var buf bytes.Buffer
	testutil.AssertNoError(t, WritePGN(&buf, Record{Moves: g.Moves()}, 0))
	testutil.AssertContains(t, buf.String(), "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O *\n")
}

// TestWritePGN_Readable checks exports against an independent PGN reader.
func TestWritePGN_Readable(t *testing.T) {
	tests := []struct {
		name    string
		moves   []string
		result  string
		outcome notnil.Outcome
	}{
		{"fools mate", []string{"f3", "e5", "g4", "Qh4#"}, "0-1", notnil.BlackWon},
		{"scholars mate", []string{"e4", "e5", "Qh5", "Nc6", "Bc4", "Nf6", "Qxf7#"}, "1-0", notnil.WhiteWon},
		{"unfinished", []string{"d4", "d5", "c4", "e6", "Nc3", "Nf6", "Bg5", "Be7", "e3", "O-O"}, "*", notnil.NoOutcome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{
				Tags:   map[string]string{TagWhite: "Alice", TagBlack: "Bob"},
				Moves:  tt.moves,
				Result: tt.result,
			}
			var buf bytes.Buffer
			testutil.AssertNoError(t, WritePGN(&buf, rec, 0))

			opt, err := notnil.PGN(strings.NewReader(buf.String()))
			if err != nil {
				t.Fatalf("PGN() error: %v\n%s", err, buf.String())
			}
			game := notnil.NewGame(opt)
			if got := len(game.Moves()); got != len(tt.moves) {
				t.Errorf("parsed %d moves, want %d", got, len(tt.moves))
			}
			if game.Outcome() != tt.outcome {
				t.Errorf("Outcome() = %s, want %s", game.Outcome(), tt.outcome)
			}
			if got := game.GetTagPair(TagWhite); got == nil || got.Value != "Alice" {
				t.Errorf("White tag = %+v", got)
			}
		})
	}
}

func TestWritePGN_BadFEN(t *testing.T) {
	if err := WritePGN(&bytes.Buffer{}, Record{StartFEN: "bogus"}, 0); err == nil {
		t.Error("WritePGN accepted an invalid start FEN")
	}
}

type failingWriter struct{}

var errWrite = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestWritePGN_WriteError(t *testing.T) {
	err := WritePGN(failingWriter{}, Record{Moves: []string{"e4"}}, 0)
	if !errors.Is(err, errWrite) {
		t.Errorf("WritePGN() error = %v, want %v", err, errWrite)
	}
}

func TestEscapeTagValue(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{`a "b"`, `a \"b\"`},
		{`c:\d`, `c:\\d`},
		{"Ali\nce", "Ali ce"},
		{"tab\there\r", "tab here "},
		{"x\"]\n[Result \"1-0", `x\"] [Result \"1-0`},
	}
	for _, tt := range tests {
		if got := escapeTagValue(tt.in); got != tt.want {
			t.Errorf("escapeTagValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
