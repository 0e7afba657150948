package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furigana/kana"
	"furigana/render"
	"furigana/tokenize"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"FURIGANA_DICT", "FURIGANA_CONVERTER", "FURIGANA_PRESERVE_SPACES", "FURIGANA_CACHE_TTL",
		"FURIGANA_WORKERS", "FURIGANA_FORMAT", "FURIGANA_LOG_LEVEL", "FURIGANA_ADDR",
	} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "ipa", cfg.Analyzer.Dict)
	assert.Equal(t, "table", cfg.Analyzer.Converter)
	assert.True(t, cfg.Analyzer.PreserveSpaces)
	assert.Equal(t, 10*time.Minute, cfg.Analyzer.CacheTTL)
	assert.Equal(t, "html", cfg.Output.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FURIGANA_DICT", "uni")
	t.Setenv("FURIGANA_CONVERTER", "nfkc")
	t.Setenv("FURIGANA_PRESERVE_SPACES", "false")
	t.Setenv("FURIGANA_CACHE_TTL", "0s")
	t.Setenv("FURIGANA_WORKERS", "not-a-number")
	t.Setenv("FURIGANA_FORMAT", "plain")

	cfg := Load()
	assert.Equal(t, "uni", cfg.Analyzer.Dict)
	assert.Equal(t, "nfkc", cfg.Analyzer.Converter)
	assert.False(t, cfg.Analyzer.PreserveSpaces)
	assert.Zero(t, cfg.Analyzer.CacheTTL)
	assert.Equal(t, 4, cfg.Analyzer.Workers)
	assert.Equal(t, "plain", cfg.Output.Format)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Analyzer.Dict = "juman"
	cfg.Analyzer.Converter = "romaji"
	cfg.Output.Format = "pdf"
	cfg.Analyzer.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, tokenize.ErrUnknownDict)
	assert.ErrorIs(t, err, kana.ErrUnknownConverter)
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
	assert.ErrorContains(t, err, "workers")
}

func TestValidateDictName(t *testing.T) {
	for _, name := range []string{"IPA", " uni ", "Uni", ""} {
		t.Run(name, func(t *testing.T) {
			cfg := Load()
			cfg.Analyzer.Dict = name
			assert.NoError(t, cfg.Validate(), "the tokenizer accepts %q", name)
		})
	}
}
