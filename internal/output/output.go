// Package output renders games as PGN text.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/lgbarn/chess-platform-go/internal/chess"
	"github.com/lgbarn/chess-platform-go/internal/engine"
)

// DefaultLineLength is the PGN export line limit.
const DefaultLineLength = 80

// Record is everything needed to export one game.
type Record struct {
	Tags map[string]string

	// StartFEN is empty for games from the standard starting position.
	StartFEN string

	// Moves in SAN.
	Moves []string

	// Result is "1-0", "0-1", "1/2-1/2" or "*".
	Result string
}

// OutputWriter handles formatted output with line length control. The
// first write error is kept and later writes are dropped.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
	err           error
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = DefaultLineLength
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a token, preceded by a space or a line break.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > o.maxLineLength {
			o.print("\n")
			o.lineLength = 0
		} else {
			o.print(" ")
			o.lineLength++
		}
	}
	o.print(s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	o.print("\n")
	o.lineLength = 0
	o.needsSpace = false
}

// Err returns the first write error.
func (o *OutputWriter) Err() error {
	return o.err
}

func (o *OutputWriter) print(s string) {
	if o.err != nil {
		return
	}
	_, o.err = io.WriteString(o.w, s)
}

// WritePGN writes rec as a PGN game: the seven tag roster, any other tags
// in name order, a blank line, and the wrapped movetext.
func WritePGN(w io.Writer, rec Record, maxLineLength int) error {
	result := rec.Result
	if result == "" {
		result = "*"
	}

	moveNum, whiteToMove := uint(1), true
	if rec.StartFEN != "" {
		pos, err := engine.NewPositionFromFEN(rec.StartFEN)
		if err != nil {
			return err
		}
		moveNum, whiteToMove = pos.MoveNumber, pos.ToMove == chess.White
	}

	ow := NewOutputWriter(w, maxLineLength)
	for _, line := range tagLines(rec, result) {
		ow.print(line)
		ow.print("\n")
	}
	ow.NewLine()

	for i, san := range rec.Moves {
		if whiteToMove {
			ow.Write(fmt.Sprintf("%d.", moveNum))
		} else if i == 0 {
			ow.Write(fmt.Sprintf("%d...", moveNum))
		}
		ow.Write(san)
		if !whiteToMove {
			moveNum++
		}
		whiteToMove = !whiteToMove
	}
	ow.Write(result)
	ow.NewLine()
	return ow.Err()
}

// tagLines formats the tag section.
func tagLines(rec Record, result string) []string {
	tags := make(map[string]string, len(rec.Tags)+3)
	for k, v := range rec.Tags {
		tags[k] = v
	}
	tags[TagResult] = result
	if rec.StartFEN != "" {
		tags[TagSetUp] = "1"
		tags[TagFEN] = rec.StartFEN
	}

	lines := make([]string, 0, len(tags)+len(SevenTagRoster))
	for _, tag := range SevenTagRoster {
		value := tags[tag]
		if value == "" {
			value = "?"
		}
		lines = append(lines, formatTag(tag, value))
	}

	var extra []string
	for tag := range tags {
		if !IsSevenTagRosterTag(tag) {
			extra = append(extra, tag)
		}
	}
	sort.Strings(extra)
	for _, tag := range extra {
		lines = append(lines, formatTag(tag, tags[tag]))
	}
	return lines
}

func formatTag(name, value string) string {
	return fmt.Sprintf("[%s \"%s\"]", name, escapeTagValue(value))
}

// escapeTagValue escapes quotes and backslashes in tag values and turns
// control characters into spaces so a value stays on its tag line.
func escapeTagValue(s string) string {
	if !strings.ContainsFunc(s, needsTagEscape) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	for _, r := range s {
		switch {
		case r == '\\' || r == '"':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case unicode.IsControl(r):
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func needsTagEscape(r rune) bool {
	return r == '\\' || r == '"' || unicode.IsControl(r)
}
