package ast

import (
	"go/token"
	"sort"
	"strings"
	"unicode/utf8"
)

// Position is a 0-based line and a column counted in UTF-16 code units, as
// editors send them
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Source is the text a File was parsed from. token.Pos values in the AST are
// byte offsets into Text plus one, so that token.NoPos stays invalid.
type Source struct {
	Name  string
	Text  string
	lines []int
}

func NewSource(name, text string) *Source {
	s := &Source{Name: name, Text: text}
	s.lines = []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			s.lines = append(s.lines, i+1)
		}
	}
	return s
}

// PosOfOffset converts a byte offset into a token.Pos
func PosOfOffset(offset int) token.Pos {
	return token.Pos(offset + 1)
}

// Offset converts a token.Pos back into a byte offset into Text
func (s *Source) Offset(p token.Pos) int {
	off := int(p) - 1
	if off < 0 {
		return 0
	}
	return min(off, len(s.Text))
}

// LineCount is the number of lines in Text, counting a trailing empty line
func (s *Source) LineCount() int {
	return len(s.lines)
}

// Line returns the text of the 0-based line i without its line terminator
func (s *Source) Line(i int) string {
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	end := len(s.Text)
	if i+1 < len(s.lines) {
		end = s.lines[i+1] - 1
	}
	return strings.TrimSuffix(s.Text[s.lines[i]:end], "\r")
}

// PositionOf returns the editor position of p
func (s *Source) PositionOf(p token.Pos) Position {
	off := s.Offset(p)
	line := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > off }) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line, Character: u16Len(s.Text[s.lines[line]:off])}
}

// PosAt converts an editor position into a token.Pos. Columns past the end of
// the line clamp to the end of the line.
func (s *Source) PosAt(p Position) token.Pos {
	return PosOfOffset(s.OffsetAt(p))
}

// OffsetAt is like PosAt but returns a byte offset
func (s *Source) OffsetAt(p Position) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(s.lines) {
		return len(s.Text)
	}
	i := s.lines[p.Line]
	need := p.Character
	for i < len(s.Text) && need > 0 {
		r, sz := utf8.DecodeRuneInString(s.Text[i:])
		if r == '\n' {
			break
		}
		if r != '\r' {
			need -= u16Width(r)
		}
		i += sz
	}
	return i
}

// Slice returns the source text covered by n
func (s *Source) Slice(n Positioner) string {
	return s.Text[s.Offset(n.Pos()):s.Offset(n.End())]
}

func u16Width(r rune) int {
	if r < 0x10000 {
		return 1
	}
	return 2
}

func u16Len(s string) int {
	n := 0
	for _, r := range s {
		if r != '\r' {
			n += u16Width(r)
		}
	}
	return n
}

// Span is an editor range between two positions
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SpanOf returns the editor range covered by n
func (s *Source) SpanOf(n Positioner) Span {
	return Span{Start: s.PositionOf(n.Pos()), End: s.PositionOf(n.End())}
}
