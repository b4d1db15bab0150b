package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Headers: []string{"Title", "Author", "Status"},
		Rows: []map[string]string{
			{"Title": "Mixing vocals", "Author": "Ana", "Status": "published"},
			{"Title": "Draft, with comma", "Author": "Luis", "Status": "draft"},
		},
	}
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(sample(), "Blogs")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV(sample())
	require.NoError(t, err)
	assert.Equal(t, "Title,Author,Status\nMixing vocals,Ana,published\n\"Draft, with comma\",Luis,draft\n", string(out))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := RenderPDF(Dataset{}, "")
	assert.Error(t, err)
	_, err = Render(FormatCSV, Dataset{}, "")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 60))
	long := "abcdefghijklmnopqrstuvwxyz"
	got := truncate(long, 10)
	assert.Equal(t, "abcdef...", got)
}
