package inliner

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sunr3d/html-inliner/models"
)

// Verify считает теги img и те из них, что уже встроены как data:image/...
// Success истинно, если встроено хотя бы одно изображение.
func Verify(html string) models.ConversionStats {
	stats := models.ConversionStats{FileSize: FormatSize(len(html))}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return stats
	}

	imgs := doc.Find("img")
	stats.TotalImages = imgs.Length()
	imgs.Each(func(_ int, s *goquery.Selection) {
		if src, _ := s.Attr("src"); isInlinedImage(src) {
			stats.ImagesConverted++
		}
	})
	stats.Success = stats.ImagesConverted > 0

	return stats
}

// FormatSize возвращает размер в мегабайтах с двумя знаками, например "0.82 MB".
func FormatSize(n int) string {
	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}

func isInlinedImage(src string) bool {
	const prefix = "data:image/"

	src = strings.TrimSpace(src)
	if len(src) < len(prefix) || !strings.EqualFold(src[:len(prefix)], prefix) {
		return false
	}

	head, _, found := strings.Cut(src, ",")
	return found && strings.HasSuffix(strings.ToLower(head), ";base64")
}
