package metadata

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out/package01/metadata", 0o755))
	a := NewAppender(fs, ',')
	headers := []string{"filename", "dc.title"}
	const target = "/out/package01/metadata/metadata.csv"

	written, err := a.Append(target, headers, []string{"objects/edited/a", "Letters, 1901"})
	require.NoError(t, err)
	assert.True(t, written)

	written, err = a.Append(target, headers, []string{"objects/edited/b", "Maps"})
	require.NoError(t, err)
	assert.False(t, written)

	b, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.Equal(t, "filename,dc.title\r\nobjects/edited/a,\"Letters, 1901\"\r\nobjects/edited/b,Maps\r\n", string(b))

	t.Run("rows are not deduplicated", func(t *testing.T) {
		_, err := a.Append(target, headers, []string{"objects/edited/b", "Maps"})
		require.NoError(t, err)

		idx, err := Load(fs, target, ',')
		require.NoError(t, err)
		assert.Equal(t, 2, idx.Len())

		b, err := afero.ReadFile(fs, target)
		require.NoError(t, err)
		assert.Equal(t, 4, countLines(b))
	})
}

func TestAppendDelimiter(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out/metadata", 0o755))

	_, err := NewAppender(fs, ';').Append("/out/metadata/metadata.csv", []string{"filename", "title"}, []string{"objects/edited/a", "A,B"})
	require.NoError(t, err)

	b, err := afero.ReadFile(fs, "/out/metadata/metadata.csv")
	require.NoError(t, err)
	assert.Equal(t, "filename;title\r\nobjects/edited/a;A,B\r\n", string(b))
}

func TestAppendQuoting(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out/metadata", 0o755))
	const target = "/out/metadata/metadata.csv"
	a := NewAppender(fs, ',')

	_, err := a.Append(target, []string{"filename", "dc.title", "dc.description"},
		[]string{"objects/edited/a", " leading space", `say "cheese"`})
	require.NoError(t, err)
	_, err = a.Append(target, nil, []string{"objects/edited/b", `\.`, "two\nlines"})
	require.NoError(t, err)
	_, err = a.Append(target, nil, []string{""})
	require.NoError(t, err)

	b, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.Equal(t, "filename,dc.title,dc.description\r\n"+
		"objects/edited/a, leading space,\"say \"\"cheese\"\"\"\r\n"+
		"objects/edited/b,\\.,\"two\nlines\"\r\n"+
		"\"\"\r\n", string(b))

	// written rows read back unchanged
	idx, err := Load(fs, target, ',')
	require.NoError(t, err)
	_, row, err := idx.Lookup("objects/edited/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"objects/edited/a", " leading space", `say "cheese"`}, row)
	_, row, err = idx.Lookup("objects/edited/b")
	require.NoError(t, err)
	assert.Equal(t, []string{"objects/edited/b", `\.`, "two\nlines"}, row)
}

func TestAppendMissingDir(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := NewAppender(fs, ',').Append("/out/metadata/metadata.csv", []string{"h"}, []string{"r"})
	require.Error(t, err)
}

func countLines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}
