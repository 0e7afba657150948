package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furigana/model"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"FURIGANA_DICT", "FURIGANA_CONVERTER", "FURIGANA_FORMAT", "FURIGANA_LOG_LEVEL", "FURIGANA_DUMP_DIR"} {
		t.Setenv(k, "")
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootJSON(t *testing.T) {
	out, err := run(t, "", "--format", "json", "東京へ行く")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "\n"))
	assert.Equal(t, 1, strings.Count(out, "\n"), "one line of output")

	var segs model.Segments
	require.NoError(t, json.Unmarshal([]byte(out), &segs))
	assert.Equal(t, "東京へ行く", segs.Text())
	assert.Equal(t, model.Annotated("東京", "とうきょう"), segs[0])
}

func TestRootHTMLAndPlain(t *testing.T) {
	out, err := run(t, "", "東京")
	require.NoError(t, err)
	assert.Equal(t, "<ruby>東京<rt>とうきょう</rt></ruby>\n", out)

	out, err = run(t, "", "-f", "plain", "東京")
	require.NoError(t, err)
	assert.Equal(t, "東京(とうきょう)\n", out)

	out, err = run(t, "", "--dict", "IPA", "-f", "plain", "東京")
	require.NoError(t, err)
	assert.Equal(t, "東京(とうきょう)\n", out)
}

func TestRootStdin(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "東京\n\n東京へ\n", "--stdin", "-f", "plain", "--dump-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "東京(とうきょう)\n東京(とうきょう)へ\n", out)

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	b, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"segments"`)
}

func TestRootErrors(t *testing.T) {
	_, err := run(t, "")
	assert.ErrorContains(t, err, "missing text")

	_, err = run(t, "", "--format", "pdf", "東京")
	assert.Error(t, err)

	_, err = run(t, "", "--dict", "juman", "東京")
	assert.Error(t, err)

	_, err = run(t, "", "a", "b")
	assert.Error(t, err)
}
