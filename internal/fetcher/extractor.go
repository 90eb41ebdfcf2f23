package fetcher

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/lightbox-fetcher/internal/domain"
)

// lightboxSelector matches anchors whose rel list holds the lightbox token,
// the way multi-valued rel attributes are usually compared.
const lightboxSelector = `a[rel~="lightbox"]`

// ExtractImageReference parses HTML content and returns the href of the
// first lightbox anchor in document order. A present but empty href is
// returned as is; only a missing anchor or attribute is ErrReferenceNotFound.
func ExtractImageReference(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrParse, err)
	}

	anchor := doc.Find(lightboxSelector).First()
	if anchor.Length() == 0 {
		return "", fmt.Errorf("%w: no %s element", domain.ErrReferenceNotFound, lightboxSelector)
	}

	href, exists := anchor.Attr("href")
	if !exists {
		return "", fmt.Errorf("%w: lightbox anchor has no href", domain.ErrReferenceNotFound)
	}
	return href, nil
}
