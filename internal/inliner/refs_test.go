package inliner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "ws", "extracted")
	docDir := filepath.Join(root, "pages")

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"relative", "img/a.png", filepath.Join(docDir, "img", "a.png"), nil},
		{"parent inside root", "../img/a.png", filepath.Join(root, "img", "a.png"), nil},
		{"root absolute", "/img/a.png", filepath.Join(root, "img", "a.png"), nil},
		{"escaped", "my%20pic.png", filepath.Join(docDir, "my pic.png"), nil},
		{"query stripped", "a.png?x=1", filepath.Join(docDir, "a.png"), nil},
		{"escape root", "../../etc/passwd", "", ErrOutsideRoot},
		{"http", "http://example.com/a.png", "", ErrUnsupportedRef},
		{"protocol relative", "//example.com/a.png", "", ErrUnsupportedRef},
		{"fragment only", "#top", "", ErrUnsupportedRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePath(tt.raw, docDir, root)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSSURLPattern(t *testing.T) {
	tests := map[string]string{
		`background-image: url("a.png")`:           "a.png",
		`background-image: url('dir/b.gif')`:       "dir/b.gif",
		`background-image:url(c.jpg); color: red`:  "c.jpg",
		`background-image: url( d.png ) no-repeat`: "d.png",
		`background-image: url(e.png), url(f.png)`: "e.png",
	}

	for style, want := range tests {
		m := cssURLRe.FindStringSubmatch(style)
		require.NotNil(t, m, style)
		assert.Equal(t, want, m[1], style)
	}
}
