package extractor

import (
	"context"
	"strings"

	"docquiz/internal/domain"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// PDFExtractor pulls text page by page, concatenating non-empty pages in
// page order separated by blank lines. A page yielding no text is skipped
// silently, not an error.
type PDFExtractor struct {
	logger *zap.Logger
}

func NewPDFExtractor(logger *zap.Logger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) Extract(_ context.Context, data []byte, _ Options) (Result, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return Result{}, domain.NewExtractionError(domain.FormatPDF, err)
	}
	defer doc.Close()

	var pages []string
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			e.logger.Warn("Failed to extract text from PDF page, skipping",
				zap.Int("page", pageNum+1),
				zap.Error(err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}

	return Result{Text: strings.Join(pages, "\n\n")}, nil
}
