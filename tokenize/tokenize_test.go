package tokenize

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownDict(t *testing.T) {
	_, err := New("jumandic")
	assert.ErrorIs(t, err, ErrUnknownDict)
}

func TestTokenizeIPA(t *testing.T) {
	tk, err := New("ipa")
	require.NoError(t, err)
	assert.Equal(t, "ipa", tk.Dict())
	assert.Equal(t, IPAReadingField, tk.ReadingField())

	text := "東京へ行く"
	toks, err := tk.Tokenize(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, toks)

	var surfaces strings.Builder
	for _, tok := range toks {
		surfaces.WriteString(tok.Surface)
		assert.Equal(t, tok.Surface, text[tok.Start:tok.End], "span of %q", tok.Surface)
	}
	assert.Equal(t, text, surfaces.String())

	assert.Equal(t, "東京", toks[0].Surface)
	reading, ok := toks[0].Reading(tk.ReadingField())
	require.True(t, ok)
	assert.Equal(t, "トウキョウ", reading)
}

func TestDictName(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "", want: "ipa"},
		{in: "ipa", want: "ipa"},
		{in: " IPA ", want: "ipa"},
		{in: "Uni", want: "uni"},
		{in: "jumandic", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DictName(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDict)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	tk, err := New("IPA")
	require.NoError(t, err)
	assert.Equal(t, "ipa", tk.Dict())
}

func TestTokenizeByteSpans(t *testing.T) {
	tk, err := New("ipa")
	require.NoError(t, err)

	// offsets count bytes, not runes
	text := "東京  へ 行く"
	toks, err := tk.Tokenize(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	for _, tok := range toks {
		start, end, ok := tok.Span(text)
		require.True(t, ok, "span of %q", tok.Surface)
		assert.Equal(t, tok.Surface, text[start:end])
	}
	assert.Equal(t, 0, toks[0].Start)
	assert.Equal(t, len("東京"), toks[0].End)
}

func TestTokenizeEmpty(t *testing.T) {
	tk, err := New("")
	require.NoError(t, err)
	toks, err := tk.Tokenize(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, toks)
}

func TestTokenizeCanceled(t *testing.T) {
	tk, err := New("ipa")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tk.Tokenize(ctx, "東京")
	assert.ErrorIs(t, err, context.Canceled)
}
