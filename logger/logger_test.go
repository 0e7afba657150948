package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "json")
	require.NoError(t, err)
	l.Info("dropped")
	l.Warn("kept", "char", "の")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "の", rec["char"])

	_, err = New(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = New(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestLogJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), []byte("{}"), 0o644))

	require.NoError(t, InitLogs(dir))
	_, err := os.Stat(filepath.Join(dir, "old.json"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, LogJSON(dir, "../escape/abc", map[string]string{"text": "出会う"}))
	b, err := os.ReadFile(filepath.Join(dir, "abc.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"出会う"}`, string(b))
	_, err = os.Stat(filepath.Join(dir, "abc.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}
