// Package inliner встраивает изображения, на которые ссылается HTML документ,
// в сам документ в виде data URI.
package inliner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

type Inliner struct {
	logger  *zap.Logger
	workers int
}

func New(log *zap.Logger, workers int) *Inliner {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Inliner{
		logger:  log,
		workers: workers,
	}
}

// NormalizeQuotes заменяет последовательности \" на ", которые ломают границы атрибутов.
func NormalizeQuotes(html string) string {
	return strings.ReplaceAll(html, `\"`, `"`)
}

// InlineFile читает документ docPath и встраивает все изображения, найденные внутри root.
// Файл на диске не изменяется.
func (i *Inliner) InlineFile(ctx context.Context, docPath, root string) (string, error) {
	raw, err := os.ReadFile(docPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadDocument, err)
	}

	return i.Inline(ctx, string(raw), filepath.Dir(docPath), root)
}

// Inline встраивает изображения в html. Ссылки разрешаются относительно docDir
// и должны оставаться внутри root. Неудачные ссылки остаются без изменений.
func (i *Inliner) Inline(ctx context.Context, html, docDir, root string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(NormalizeQuotes(html)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	var refs []*reference
	for _, l := range locators {
		refs = append(refs, l.locate(doc)...)
	}

	root = filepath.Clean(root)
	docDir = filepath.Clean(docDir)

	// Каждая горутина пишет только в свою ячейку uris.
	uris := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for idx, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			uri, err := i.convert(ref, docDir, root)
			if err != nil {
				i.logger.Warn("изображение оставлено без изменений",
					zap.String("kind", string(ref.Kind)),
					zap.String("src", ref.RawPath),
					zap.Error(err),
				)
				return nil
			}
			uris[idx] = uri
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrContextDone, err)
	}

	converted := 0
	for idx, ref := range refs {
		if uris[idx] == "" {
			continue
		}
		ref.rewrite(uris[idx])
		converted++
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	i.logger.Info("изображения встроены",
		zap.Int("references", len(refs)),
		zap.Int("converted", converted),
		zap.Int("failed", len(refs)-converted),
	)

	return out, nil
}

func (i *Inliner) convert(ref *reference, docDir, root string) (string, error) {
	path, err := resolvePath(ref.RawPath, docDir, root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageResolve, err)
	}
	ref.ResolvedPath = path

	uri, err := EncodeDataURI(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageResolve, err)
	}

	return uri, nil
}
