package kana

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnknownConverter is returned by ConverterByName for names it does not know.
var ErrUnknownConverter = errors.New("unknown kana converter")

// Converter converts between the hiragana and katakana scripts.
type Converter interface {
	ToHiragana(s string) string
	ToKatakana(s string) string
}

// distance between a katakana letter and its hiragana counterpart
const scriptOffset = 'ア' - 'あ'

// Table converts by code point offset. Letters without a counterpart in the other
// script (ヷ, ヺ, half-width forms, ...) are left untouched.
type Table struct{}

func (Table) ToHiragana(s string) string {
	return strings.Map(katakanaToHiragana, s)
}

func (Table) ToKatakana(s string) string {
	return strings.Map(hiraganaToKatakana, s)
}

func katakanaToHiragana(r rune) rune {
	if (r >= 'ァ' && r <= 'ヶ') || r == 'ヽ' || r == 'ヾ' {
		return r - scriptOffset
	}
	return r
}

func hiraganaToKatakana(r rune) rune {
	if (r >= 'ぁ' && r <= 'ゖ') || r == 'ゝ' || r == 'ゞ' {
		return r + scriptOffset
	}
	return r
}

// NFKC folds compatibility forms (half-width katakana, circled and squared letters)
// before converting with Table, so ｶﾀｶﾅ becomes かたかな.
type NFKC struct{}

func (NFKC) ToHiragana(s string) string {
	return Table{}.ToHiragana(norm.NFKC.String(s))
}

func (NFKC) ToKatakana(s string) string {
	return Table{}.ToKatakana(norm.NFKC.String(s))
}

// Default is the converter used when none is configured.
var Default Converter = Table{}

// ConverterByName returns the converter registered under name ("table" or "nfkc").
func ConverterByName(name string) (Converter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return Table{}, nil
	case "nfkc":
		return NFKC{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownConverter, name)
}

// small ke/ka stand for a voiced or unvoiced k-sound depending on the word (一ヶ月, 青木ヶ原)
var smallKe = map[rune]bool{'ヶ': true, 'ヵ': true, 'ゖ': true, 'ゕ': true}

var smallKeSounds = map[rune]bool{
	'か': true, 'が': true, 'け': true, 'げ': true, 'こ': true,
	'カ': true, 'ガ': true, 'ケ': true, 'ゲ': true, 'コ': true,
}

// Equal reports whether reading character a and surface character b denote the same
// sound, allowing either script on each side.
func Equal(conv Converter, a, b rune) bool {
	if a == b {
		return true
	}
	if conv == nil {
		conv = Default
	}
	if conv.ToHiragana(string(a)) == conv.ToHiragana(string(b)) {
		return true
	}
	if smallKe[b] && smallKeSounds[a] {
		return true
	}
	return smallKe[a] && smallKeSounds[b]
}
