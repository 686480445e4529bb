package inliner

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sunr3d/html-inliner/models"
)

var cssURLRe = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// reference связывает найденную ссылку с узлом, который нужно переписать.
type reference struct {
	models.ImageReference

	node  *goquery.Selection
	token string
}

func (r *reference) rewrite(uri string) {
	switch r.Kind {
	case models.RefKindTagAttribute:
		r.node.SetAttr("src", uri)
	case models.RefKindStyleBackground:
		style, _ := r.node.Attr("style")
		r.node.SetAttr("style", strings.Replace(style, r.token, "url("+uri+")", 1))
	}
}

// locator находит в документе ссылки одного вида.
type locator interface {
	locate(doc *goquery.Document) []*reference
}

var locators = []locator{
	imgSourceLocator{},
	backgroundLocator{},
}

type imgSourceLocator struct{}

func (imgSourceLocator) locate(doc *goquery.Document) []*reference {
	var refs []*reference
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if strings.TrimSpace(src) == "" || isDataURI(src) {
			return
		}
		refs = append(refs, &reference{
			ImageReference: models.ImageReference{Kind: models.RefKindTagAttribute, RawPath: src},
			node:           s,
		})
	})
	return refs
}

type backgroundLocator struct{}

func (backgroundLocator) locate(doc *goquery.Document) []*reference {
	var refs []*reference
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		if !strings.Contains(strings.ToLower(style), "background-image") {
			return
		}
		m := cssURLRe.FindStringSubmatch(style)
		if m == nil || isDataURI(m[1]) {
			return
		}
		refs = append(refs, &reference{
			ImageReference: models.ImageReference{Kind: models.RefKindStyleBackground, RawPath: m[1]},
			node:           s,
			token:          m[0],
		})
	})
	return refs
}

// resolvePath переводит ссылку из документа в путь файла внутри root.
// Относительные ссылки считаются от директории документа, абсолютные от root.
func resolvePath(raw, docDir, root string) (string, error) {
	ref := strings.TrimSpace(raw)

	if u, err := url.Parse(ref); err == nil {
		if (u.Scheme != "" && u.Scheme != "file") || u.Host != "" {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedRef, raw)
		}
		ref = u.Path
	} else if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if ref == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRef, raw)
	}

	var resolved string
	if strings.HasPrefix(ref, "/") {
		resolved = filepath.Join(root, filepath.FromSlash(ref))
	} else {
		resolved = filepath.Join(docDir, filepath.FromSlash(ref))
	}

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, raw)
	}

	return resolved, nil
}
