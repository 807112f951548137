package lineseq

import (
	"strings"
)

// Line is one line of pane content.
//
// Content never includes the line terminator; the terminator style is a property of the owning LineSequence. Number is the 1-based line number the line had when its
// pane was loaded; lines introduced by later edits have Number == 0.
type Line struct {
	Content  string
	Number   int
	Modified bool
}

// LineSequence is the ordered content of one pane.
//
// Invariants:
//   - EOL is one of "\n", "\r\n", "\r".
//   - String() reconstructs the exact text the sequence was built from (including the presence or absence of a terminator on the final line).
type LineSequence struct {
	Lines []Line

	// EOL is the dominant line terminator of the source text.
	EOL string

	// TrailingEOL records whether the final line ended with a terminator.
	TrailingEOL bool
}

// FromString splits text into a LineSequence, detecting the terminator style.
//
// Detection prefers "\r\n" over "\n" over "\r", based on the first terminator encountered. Text with no terminator at all yields EOL "\n".
func FromString(text string) LineSequence {
	eol := detectEOL(text)
	seq := LineSequence{EOL: eol}
	if text == "" {
		return seq
	}

	// Normalize all terminator forms to \n for splitting; mixed-EOL files are
	// rare and the per-line terminator form is not round-tripped.
	norm := text
	if eol != "\n" {
		norm = strings.ReplaceAll(norm, "\r\n", "\n")
		norm = strings.ReplaceAll(norm, "\r", "\n")
	}

	seq.TrailingEOL = strings.HasSuffix(norm, "\n")
	if seq.TrailingEOL {
		norm = norm[:len(norm)-1]
	}
	parts := strings.Split(norm, "\n")
	seq.Lines = make([]Line, len(parts))
	for i, p := range parts {
		seq.Lines[i] = Line{Content: p, Number: i + 1}
	}
	return seq
}

// FromLines builds a LineSequence from raw line contents (no terminators), with "\n" EOL and a trailing terminator.
func FromLines(lines []string) LineSequence {
	seq := LineSequence{EOL: "\n", TrailingEOL: true}
	seq.Lines = make([]Line, len(lines))
	for i, l := range lines {
		seq.Lines[i] = Line{Content: l, Number: i + 1}
	}
	return seq
}

// Contents returns the raw line contents without terminators.
func (s LineSequence) Contents() []string {
	out := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		out[i] = l.Content
	}
	return out
}

// Len returns the number of lines.
func (s LineSequence) Len() int { return len(s.Lines) }

// String reassembles the sequence's text using its terminator style.
func (s LineSequence) String() string {
	if len(s.Lines) == 0 {
		return ""
	}
	var b strings.Builder
	for i, l := range s.Lines {
		b.WriteString(l.Content)
		if i < len(s.Lines)-1 || s.TrailingEOL {
			b.WriteString(s.EOL)
		}
	}
	return b.String()
}

// Clone returns a deep copy of the sequence.
func (s LineSequence) Clone() LineSequence {
	out := s
	out.Lines = make([]Line, len(s.Lines))
	copy(out.Lines, s.Lines)
	return out
}

func detectEOL(text string) string {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			return "\n"
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				return "\r\n"
			}
			return "\r"
		}
	}
	return "\n"
}
