// Package archive распаковывает входные zip-архивы и находит в них HTML документ.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

var documentExts = map[string]bool{
	".html": true,
	".htm":  true,
}

// Extract распаковывает архив src в dest с сохранением относительных путей
// и возвращает пути файлов относительно dest в порядке их следования в архиве.
func Extract(src, dest string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer r.Close()

	return extractAll(&r.Reader, dest)
}

// Validate проверяет, что data разбирается как zip, и возвращает число элементов.
func Validate(data []byte) (int, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return len(r.File), nil
}

func extractAll(r *zip.Reader, dest string) ([]string, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	files := make([]string, 0, len(r.File))
	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, f.Name, err)
		}

		rel, _ := filepath.Rel(dest, target)
		files = append(files, rel)
	}

	return files, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func safeJoin(dest, name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	target := filepath.Join(dest, filepath.FromSlash(name))

	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}

	return target, nil
}

// IsDocument сообщает, является ли файл HTML документом по расширению.
func IsDocument(name string) bool {
	return documentExts[strings.ToLower(filepath.Ext(name))]
}

// FindDocuments возвращает абсолютные пути HTML документов под root:
// сначала документы верхнего уровня, затем вложенные, каждая группа по имени.
func FindDocuments(root string) ([]string, error) {
	root = filepath.Clean(root)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var top []string
	for _, e := range entries {
		if !e.IsDir() && IsDocument(e.Name()) {
			top = append(top, filepath.Join(root, e.Name()))
		}
	}

	var nested []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Dir(path) == root || !IsDocument(d.Name()) {
			return nil
		}
		nested = append(nested, path)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	docs := append(top, nested...)
	if len(docs) == 0 {
		return nil, ErrNoDocument
	}

	return docs, nil
}
