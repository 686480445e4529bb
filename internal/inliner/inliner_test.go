package inliner

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\nfake-png-body")
	gifBytes = []byte("GIF89a-fake-gif-body")
)

func setupTestInliner(t *testing.T) *Inliner {
	return New(zaptest.NewLogger(t), 4)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func dataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestInline_ReplacesImagesAndBackgrounds(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "images", "a.png"), pngBytes)
	writeFile(t, filepath.Join(root, "images", "b.gif"), gifBytes)
	writeFile(t, filepath.Join(root, "images", "bg.png"), pngBytes)

	html := `<html><body>
<img src="images/a.png" alt="a">
<img src="images/b.gif">
<div style="color: red; background-image: url('images/bg.png'); width: 10px">x</div>
</body></html>`
	docPath := filepath.Join(root, "index.html")
	writeFile(t, docPath, []byte(html))

	out, err := inl.InlineFile(context.Background(), docPath, root)
	require.NoError(t, err)

	assert.Contains(t, out, `src="`+dataURI("image/png", pngBytes)+`"`)
	assert.Contains(t, out, `src="`+dataURI("image/gif", gifBytes)+`"`)
	assert.Contains(t, out, "background-image: url("+dataURI("image/png", pngBytes)+"); width: 10px")
	assert.NotContains(t, out, "images/a.png")
	assert.NotContains(t, out, "images/bg.png")

	stats := Verify(out)
	assert.Equal(t, 2, stats.TotalImages)
	assert.Equal(t, 2, stats.ImagesConverted)
	assert.True(t, stats.Success)

	onDisk, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Equal(t, html, string(onDisk))
}

func TestInline_MissingImageIsSoftFailure(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()

	out, err := inl.Inline(context.Background(), `<p><img src="images/missing.png"></p>`, root, root)
	require.NoError(t, err)

	assert.Contains(t, out, `src="images/missing.png"`)

	stats := Verify(out)
	assert.Equal(t, 1, stats.TotalImages)
	assert.Equal(t, 0, stats.ImagesConverted)
	assert.False(t, stats.Success)
}

func TestInline_PartialFailure(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.png"), pngBytes)

	out, err := inl.Inline(context.Background(), `<img src="ok.png"><img src="gone.png">`, root, root)
	require.NoError(t, err)

	stats := Verify(out)
	assert.Equal(t, 2, stats.TotalImages)
	assert.Equal(t, 1, stats.ImagesConverted)
	assert.Contains(t, out, `src="gone.png"`)
}

func TestInline_Idempotent(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.png"), pngBytes)
	writeFile(t, filepath.Join(root, "bg.gif"), gifBytes)

	first, err := inl.Inline(context.Background(),
		`<img src="a.png"><span style="background-image:url(bg.gif)">s</span>`, root, root)
	require.NoError(t, err)

	// Исходных файлов больше нет: повторная обработка не должна их искать.
	require.NoError(t, os.Remove(filepath.Join(root, "a.png")))
	require.NoError(t, os.Remove(filepath.Join(root, "bg.gif")))

	second, err := inl.Inline(context.Background(), first, root, root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInline_NormalizesBackslashQuotes(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.png"), pngBytes)

	out, err := inl.Inline(context.Background(), `<img class=\"x\" src=\"a.png\">`, root, root)
	require.NoError(t, err)

	assert.Contains(t, out, `class="x"`)
	assert.Contains(t, out, dataURI("image/png", pngBytes))
	assert.NotContains(t, out, `\"`)
}

func TestInline_ResolvesRelativeToDocument(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "images", "a.png"), pngBytes)
	writeFile(t, filepath.Join(root, "pages", "local.gif"), gifBytes)

	html := `<img src="../images/a.png"><img src="local.gif"><img src="/images/a.png">`
	docPath := filepath.Join(root, "pages", "page.html")
	writeFile(t, docPath, []byte(html))

	out, err := inl.InlineFile(context.Background(), docPath, root)
	require.NoError(t, err)

	stats := Verify(out)
	assert.Equal(t, 3, stats.ImagesConverted)
	assert.Contains(t, out, dataURI("image/gif", gifBytes))
}

func TestInline_DecodesQueryAndEscapes(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "my pic.png"), pngBytes)

	out, err := inl.Inline(context.Background(), `<img src="my%20pic.png?v=2#top">`, root, root)
	require.NoError(t, err)

	assert.Equal(t, 1, Verify(out).ImagesConverted)
}

func TestInline_RefusesPathsOutsideRoot(t *testing.T) {
	inl := setupTestInliner(t)
	parent := t.TempDir()
	root := filepath.Join(parent, "extracted")
	writeFile(t, filepath.Join(parent, "secret.png"), pngBytes)
	require.NoError(t, os.MkdirAll(root, 0755))

	out, err := inl.Inline(context.Background(), `<img src="../secret.png">`, root, root)
	require.NoError(t, err)

	assert.Contains(t, out, `src="../secret.png"`)
	assert.NotContains(t, out, "base64")
}

func TestInline_LeavesRemoteReferences(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()

	out, err := inl.Inline(context.Background(),
		`<img src="https://example.com/a.png"><img src="//cdn.example.com/b.png">`, root, root)
	require.NoError(t, err)

	assert.Contains(t, out, `src="https://example.com/a.png"`)
	assert.Contains(t, out, `src="//cdn.example.com/b.png"`)
}

func TestInline_OutputIndependentOfScheduling(t *testing.T) {
	root := t.TempDir()
	var b strings.Builder
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("img%02d.png", i)
		writeFile(t, filepath.Join(root, name), []byte(fmt.Sprintf("payload-%d", i)))
		fmt.Fprintf(&b, `<img src="%s"><i style="background-image: url(%s)"></i>`, name, name)
	}

	serial, err := New(zaptest.NewLogger(t), 1).Inline(context.Background(), b.String(), root, root)
	require.NoError(t, err)
	parallel, err := New(zaptest.NewLogger(t), 16).Inline(context.Background(), b.String(), root, root)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	assert.Equal(t, 30, Verify(parallel).ImagesConverted)
}

func TestInline_ContextDone(t *testing.T) {
	inl := setupTestInliner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inl.Inline(ctx, `<img src="a.png">`, t.TempDir(), t.TempDir())
	assert.ErrorIs(t, err, ErrContextDone)
}

func TestInlineFile_MissingDocument(t *testing.T) {
	inl := setupTestInliner(t)
	root := t.TempDir()

	_, err := inl.InlineFile(context.Background(), filepath.Join(root, "index.html"), root)
	assert.ErrorIs(t, err, ErrReadDocument)
}

func TestNormalizeQuotes(t *testing.T) {
	assert.Equal(t, `<p class="x">`, NormalizeQuotes(`<p class=\"x\">`))
	assert.Equal(t, `no quotes`, NormalizeQuotes(`no quotes`))
}
