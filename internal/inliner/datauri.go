package inliner

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

const fallbackMediaType = "image/jpeg"

// MediaType определяет тип содержимого по расширению файла.
func MediaType(path string) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		return fallbackMediaType
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// EncodeDataURI читает файл и возвращает data:<type>;base64,<payload>.
func EncodeDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	mt := MediaType(path)
	b.Grow(len("data:;base64,") + len(mt) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mt)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))

	return b.String(), nil
}

func isDataURI(ref string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ref)), "data:")
}
