package tokenize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"furigana/model"
)

// Token represents a token / morpheme produced by the tokenizer.
type Token = model.Token

// ErrUnknownDict is returned for dictionary names other than "ipa" and "uni".
var ErrUnknownDict = errors.New("unknown dictionary")

// Reading fields of the bundled dictionaries. IPA stores the katakana reading at index 7;
// UniDic stores the surface pronunciation at index 9.
const (
	IPAReadingField = 7
	UniReadingField = 9
)

// Tokenizer wraps a kagome tokenizer.
type Tokenizer struct {
	kg           *tokenizer.Tokenizer
	dictName     string
	readingField int
}

// DictName normalizes a dictionary name and reports whether New accepts it. The empty
// name selects "ipa".
func DictName(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "ipa":
		return "ipa", nil
	case "uni":
		return n, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDict, name)
	}
}

// New loads the named dictionary ("ipa" or "uni") and builds a tokenizer on it.
// BOS/EOS nodes are omitted.
func New(dictName string) (*Tokenizer, error) {
	name, err := DictName(dictName)
	if err != nil {
		return nil, err
	}
	var (
		d     *dict.Dict
		field int
	)
	if name == "uni" {
		d, field = uni.Dict(), UniReadingField
	} else {
		d, field = ipa.Dict(), IPAReadingField
	}
	kg, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init kagome tokenizer (%s): %w", name, err)
	}
	return &Tokenizer{kg: kg, dictName: name, readingField: field}, nil
}

// Dict returns the dictionary name.
func (t *Tokenizer) Dict() string { return t.dictName }

// ReadingField returns the feature index holding the reading in this dictionary.
func (t *Tokenizer) ReadingField() int { return t.readingField }

func convertKagomeTokens(ktoks []tokenizer.Token) []Token {
	out := make([]Token, 0, len(ktoks))
	for _, kt := range ktoks {
		if kt.Class == tokenizer.DUMMY {
			continue
		}
		// kagome's Start and End count runes; Position is the byte offset
		out = append(out, Token{
			Surface:  kt.Surface,
			Features: kt.Features(),
			Start:    kt.Position,
			End:      kt.Position + len(kt.Surface),
		})
	}
	return out
}

// Tokenize uses kagome to produce tokens for the input text (normal mode).
func (t *Tokenizer) Tokenize(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	return convertKagomeTokens(t.kg.Tokenize(text)), nil
}
