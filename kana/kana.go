package kana

import "unicode"

const (
	interpunct          = '・'
	halfwidthInterpunct = '･'
)

// IsKanji reports whether r is a CJK ideograph. The iteration mark 々 counts as kanji.
func IsKanji(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// IsKanjiOrNumeral reports whether r is kanji or an ASCII / full-width decimal digit.
func IsKanjiOrNumeral(r rune) bool {
	return IsKanji(r) || (r >= '0' && r <= '9') || (r >= '０' && r <= '９')
}

// IsHiragana reports whether r belongs to the hiragana block. The marks shared by both
// scripts (ー, ゛, ゜) count as hiragana as well as katakana.
func IsHiragana(r rune) bool {
	if isSharedMark(r) {
		return true
	}
	return unicode.Is(unicode.Hiragana, r)
}

// IsKatakana reports whether r belongs to one of the katakana blocks, half-width forms
// included. The interpunct is a separator and is not katakana.
func IsKatakana(r rune) bool {
	if r == interpunct || r == halfwidthInterpunct {
		return false
	}
	if isSharedMark(r) || r == '゠' || r == 'ｰ' || r == 'ﾞ' || r == 'ﾟ' {
		return true
	}
	return unicode.Is(unicode.Katakana, r)
}

// IsKana reports whether r is hiragana or katakana.
func IsKana(r rune) bool {
	return IsHiragana(r) || IsKatakana(r)
}

// ContainsKanji reports whether s has at least one kanji.
func ContainsKanji(s string) bool {
	for _, r := range s {
		if IsKanji(r) {
			return true
		}
	}
	return false
}

func isSharedMark(r rune) bool {
	switch r {
	case 'ー', '゛', '゜', '゙', '゚':
		return true
	}
	return false
}
