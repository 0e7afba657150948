// Package okurigana aligns the reading of a word with its surface form, splitting the
// surface into kanji runs (which receive a slice of the reading) and the kana or
// punctuation around them.
package okurigana

import (
	"log/slog"
	"unicode/utf8"

	"furigana/kana"
	"furigana/model"
)

// Aligner splits surface strings against their readings. The zero value is not usable,
// use New. An Aligner holds no mutable state and may be shared between goroutines.
type Aligner struct {
	conv   kana.Converter
	logger *slog.Logger
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithConverter sets the converter used to compare reading and surface kana.
func WithConverter(conv kana.Converter) Option {
	return func(a *Aligner) {
		if conv != nil {
			a.conv = conv
		}
	}
}

// WithLogger sets the logger receiving the alignment trace.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aligner) {
		a.logger = logger
	}
}

func New(opts ...Option) *Aligner {
	a := &Aligner{conv: kana.Default}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var std = New()

// Split aligns text with reading using the default converter.
func Split(text, reading string) model.Segments {
	return std.Split(text, reading)
}

func (a *Aligner) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.Default()
}

func (a *Aligner) equal(r, ch rune) bool {
	return kana.Equal(a.conv, r, ch)
}

// Split aligns text with its hiragana reading.
//
// Plain segments cover kana and punctuation, annotated segments cover a run of kanji or
// digits and carry the part of reading pronounced for it. Kana in text must appear in
// reading at the same place; when they do not, the rest of the text is returned as a
// single segment holding the rest of the reading. A run whose reading would be shorter
// than the run itself (or empty) is returned without reading.
//
// Segments slice text and reading by byte offset, so bytes that are not valid UTF-8 are
// carried through unchanged and treated like punctuation.
func (a *Aligner) Split(text, reading string) model.Segments {
	if text == "" {
		return nil
	}
	logger := a.log()
	logger.Debug("split okurigana", "text", text, "reading", reading)

	var out model.Segments

	i := 0 // byte offset in text
	j := 0 // byte offset in reading
	for i < len(text) {
		startI, startJ := i, j

		if c, _ := utf8.DecodeRuneInString(text[i:]); !kana.IsKanjiOrNumeral(c) {
			for i < len(text) {
				c, n := utf8.DecodeRuneInString(text[i:])
				if kana.IsKanjiOrNumeral(c) {
					break
				}
				// punctuation has no sound and is absent from the reading
				if kana.IsKana(c) {
					h, m := utf8.DecodeRuneInString(reading[j:])
					if m == 0 || !a.equal(h, c) {
						logger.Debug("kana does not match reading, falling back",
							"text", text, "reading", reading, "char", string(c), "pos", i)
						return append(out, annotate(text[startI:], reading[startJ:]))
					}
					j += m
				}
				i += n
			}
			logger.Debug("plain run", "text", text[startI:i], "i", i, "j", j)
			out = append(out, model.Plain(text[startI:i]))
			if i >= len(text) {
				break
			}
			startI, startJ = i, j
		}

		// the kanji run ends at the next kana, where okurigana begins
		runLen := 0
		for i < len(text) {
			c, n := utf8.DecodeRuneInString(text[i:])
			if kana.IsKana(c) {
				break
			}
			i += n
			runLen++
		}
		if i >= len(text) {
			logger.Debug("only kanji left", "text", text[startI:], "reading", reading[startJ:])
			return append(out, annotate(text[startI:], reading[startJ:]))
		}

		if !hasKanjiOrNumeral(text[i:]) {
			if end, ok := a.matchTail(text[i:], reading[startJ:]); ok {
				runReading := reading[startJ : startJ+end]
				if utf8.RuneCountInString(runReading) < runLen {
					logger.Debug("reading too short for kanji run", "text", text, "reading", reading)
					return append(out, model.Plain(text[startI:]))
				}
				logger.Debug("matched okurigana from the end", "run", text[startI:i], "reading", runReading)
				return append(out,
					annotate(text[startI:i], runReading),
					model.Plain(text[i:]))
			}
		}

		// every character of the run is pronounced with at least one sound
		okuri, _ := utf8.DecodeRuneInString(text[i:])
		taken := 0
		for j < len(reading) {
			h, m := utf8.DecodeRuneInString(reading[j:])
			if taken >= runLen && a.equal(h, okuri) {
				break
			}
			j += m
			taken++
		}
		if taken < runLen {
			logger.Debug("reading too short for kanji run", "text", text, "reading", reading)
			return append(out, model.Plain(text[startI:]))
		}
		logger.Debug("kanji run", "run", text[startI:i], "reading", reading[startJ:j])
		out = append(out, annotate(text[startI:i], reading[startJ:j]))
	}
	return out
}

// matchTail matches the kana of tail against the end of reading and returns the byte
// length of reading left before the tail.
func (a *Aligner) matchTail(tail, reading string) (int, bool) {
	k := len(reading)
	for p := len(tail); p > 0; {
		c, n := utf8.DecodeLastRuneInString(tail[:p])
		p -= n
		if !kana.IsKana(c) {
			continue
		}
		h, m := utf8.DecodeLastRuneInString(reading[:k])
		if m == 0 || !a.equal(h, c) {
			return 0, false
		}
		k -= m
	}
	return k, true
}

// annotate builds a reading-bearing segment; an empty reading annotates nothing.
func annotate(text, reading string) model.Segment {
	if reading == "" {
		return model.Plain(text)
	}
	return model.Annotated(text, reading)
}

func hasKanjiOrNumeral(s string) bool {
	for _, r := range s {
		if kana.IsKanjiOrNumeral(r) {
			return true
		}
	}
	return false
}
