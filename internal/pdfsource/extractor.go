// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/citeindex/internal/textutil"
)

// Page holds the extraction outcome for one PDF page. Text is empty
// when Err is non-nil; the page still yields a citation record either
// way.
type Page struct {
	Text string
	Err  error
}

// Extractor produces per-page text from a PDF file. The returned slice
// is in page order starting at page 1. A non-nil error means the file
// itself could not be read; per-page problems are reported on the Page.
type Extractor interface {
	Extract(pdfPath string) ([]Page, error)
}

// PlainTextExtractor extracts page text with ledongthuc/pdf (pure Go,
// no external tooling required).
type PlainTextExtractor struct{}

// Extract opens the PDF at pdfPath and reads the plain text of every
// page. Unreadable pages are returned with Err set so the caller can
// log and continue; the library panics on some malformed content
// streams, which is converted to a per-page error.
func (PlainTextExtractor) Extract(pdfPath string) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("reading %s: %v", pdfPath, r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer f.Close()

	n := r.NumPage()
	pages = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, extractPage(r, i))
	}
	return pages, nil
}

func extractPage(r *pdf.Reader, num int) (p Page) {
	defer func() {
		if rec := recover(); rec != nil {
			p = Page{Err: fmt.Errorf("page %d: %v", num, rec)}
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return Page{Err: fmt.Errorf("page %d: missing page object", num)}
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return Page{Err: fmt.Errorf("page %d: %w", num, err)}
	}
	return Page{Text: textutil.NormalizeSpace(text)}
}
