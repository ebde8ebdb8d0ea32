// Package pdftext extracts plain page text from PDF bytes.
package pdftext

import (
	"bytes"
	"context"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfqa/internal/domain"
)

// Extractor validates a PDF with pdfcpu and reads page text with ledongthuc/pdf.
type Extractor struct {
	conf *model.Configuration
}

// NewExtractor creates an extractor using relaxed pdfcpu validation.
func NewExtractor() *Extractor {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Extractor{conf: conf}
}

// Extract returns one string per page, in page order. Pages without
// extractable text yield "".
func (e *Extractor) Extract(ctx context.Context, raw []byte) ([]string, error) {
	if !LooksLikePDF(raw) {
		return nil, domain.InvalidInput("upload is not a PDF", nil)
	}
	if err := api.Validate(bytes.NewReader(raw), e.conf); err != nil {
		return nil, domain.InvalidInput("PDF failed validation", err)
	}
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, domain.ExtractionFailed("open PDF for text extraction", err)
	}
	n := reader.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, pageText(reader, i))
	}
	return pages, nil
}

// pageText reads one page; the parser panics on some malformed content
// streams, which counts as an unreadable page.
func pageText(r *pdf.Reader, num int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
		}
	}()
	page := r.Page(num)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// LooksLikePDF checks the %PDF- magic header.
func LooksLikePDF(raw []byte) bool {
	return len(raw) >= 5 && bytes.Equal(raw[:5], []byte("%PDF-"))
}
