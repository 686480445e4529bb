package inliner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	html := `<img src="data:image/png;base64,AAAA"><img src="DATA:IMAGE/GIF;BASE64,BBBB"><img src="x.png"><img>`

	stats := Verify(html)
	assert.Equal(t, 4, stats.TotalImages)
	assert.Equal(t, 2, stats.ImagesConverted)
	assert.True(t, stats.Success)
	assert.Equal(t, FormatSize(len(html)), stats.FileSize)
}

func TestVerify_NoImages(t *testing.T) {
	stats := Verify(`<p>text only</p>`)
	assert.Zero(t, stats.TotalImages)
	assert.Zero(t, stats.ImagesConverted)
	assert.False(t, stats.Success)
}

func TestVerify_NonBase64DataURI(t *testing.T) {
	stats := Verify(`<img src="data:image/svg+xml,%3Csvg%3E">`)
	assert.Equal(t, 1, stats.TotalImages)
	assert.Zero(t, stats.ImagesConverted)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0.00 MB", FormatSize(0))
	assert.Equal(t, "0.82 MB", FormatSize(858993))
	assert.Equal(t, "1.00 MB", FormatSize(1024*1024))
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/png", MediaType("a.png"))
	assert.Equal(t, "image/png", MediaType("A.PNG"))
	assert.Equal(t, "image/gif", MediaType("dir/b.gif"))
	assert.Equal(t, "image/jpeg", MediaType("c.jpg"))
	assert.Equal(t, "image/svg+xml", MediaType("d.svg"))
	assert.Equal(t, fallbackMediaType, MediaType("noext"))
	assert.Equal(t, fallbackMediaType, MediaType("e.unknownext"))
}

func TestEncodeDataURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0644))

	uri, err := EncodeDataURI(path)
	require.NoError(t, err)
	assert.Equal(t, "data:image/gif;base64,R0lGODlh", uri)

	_, err = EncodeDataURI(filepath.Join(t.TempDir(), "missing.gif"))
	assert.Error(t, err)
}
