package model

import (
	"strings"
)

// Token represents a token / morpheme produced by the analyzer. Start and End are byte
// offsets of Surface in the analyzed text; both are zero when the analyzer does not
// report positions.
type Token struct {
	Surface  string   `json:"surface"`
	Features []string `json:"features,omitempty"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// Span reports the byte range of t within text when the analyzer recorded one that
// still points at Surface.
func (t Token) Span(text string) (start, end int, ok bool) {
	if t.End <= t.Start || t.Start < 0 || t.End > len(text) || text[t.Start:t.End] != t.Surface {
		return 0, 0, false
	}
	return t.Start, t.End, true
}

// Feature returns the comma-delimited feature record, the way MeCab prints it.
func (t Token) Feature() string {
	return strings.Join(t.Features, ",")
}

// Reading returns the feature at index field when it is present and not the "*"
// placeholder analyzers use for unknown values.
func (t Token) Reading(field int) (string, bool) {
	if field < 0 || len(t.Features) <= field {
		return "", false
	}
	r := t.Features[field]
	if r == "" || r == "*" {
		return "", false
	}
	return r, true
}

// Segment is one piece of annotated text. Reading is nil for plain text.
type Segment struct {
	Text    string  `json:"text"`
	Reading *string `json:"reading,omitempty"`
}

// Plain returns a segment without reading.
func Plain(text string) Segment {
	return Segment{Text: text}
}

// Annotated returns a segment carrying reading.
func Annotated(text, reading string) Segment {
	return Segment{Text: text, Reading: &reading}
}

func (s Segment) HasReading() bool {
	return s.Reading != nil
}

func (s Segment) ReadingOrEmpty() string {
	if s.Reading == nil {
		return ""
	}
	return *s.Reading
}

func (s Segment) String() string {
	if s.Reading == nil {
		return s.Text
	}
	return s.Text + "[" + *s.Reading + "]"
}

// Segments is an ordered annotation of one text.
type Segments []Segment

// Text concatenates the segment texts; for a well-formed annotation it equals the input.
func (ss Segments) Text() string {
	var b strings.Builder
	for _, s := range ss {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Readings concatenates the readings of annotated segments.
func (ss Segments) Readings() string {
	var b strings.Builder
	for _, s := range ss {
		b.WriteString(s.ReadingOrEmpty())
	}
	return b.String()
}

// Clone returns a copy of ss that shares no readings with it.
func (ss Segments) Clone() Segments {
	if ss == nil {
		return nil
	}
	out := make(Segments, len(ss))
	for i, s := range ss {
		if s.Reading != nil {
			s = Annotated(s.Text, *s.Reading)
		}
		out[i] = s
	}
	return out
}
