package extractor

import (
	"context"
	"errors"
	"strings"

	"docquiz/internal/domain"

	"go.uber.org/zap"
)

// ErrOCRRequiresPath marks the one unsupported extraction mode: the OCR
// collaborator needs path-addressable input, so recognition over raw bytes
// fails fast instead of attempting a degraded path.
var ErrOCRRequiresPath = errors.New("OCR over raw bytes is unsupported; a filesystem path is required")

// ImageExtractor delegates to the external OCR collaborator and
// concatenates block line text, one newline per recognized line, in the
// engine's reported order.
type ImageExtractor struct {
	ocr    domain.OCRService
	logger *zap.Logger
}

func NewImageExtractor(ocr domain.OCRService, logger *zap.Logger) *ImageExtractor {
	return &ImageExtractor{ocr: ocr, logger: logger}
}

func (e *ImageExtractor) Extract(ctx context.Context, _ []byte, opts Options) (Result, error) {
	if opts.Path == "" {
		return Result{}, domain.NewExtractionError(domain.FormatImage, ErrOCRRequiresPath)
	}

	blocks, err := e.ocr.Recognize(ctx, opts.Path)
	if err != nil {
		// OCR transport errors pass through unmodified inside the wrapper.
		return Result{}, err
	}

	var sb strings.Builder
	for _, block := range blocks {
		for _, line := range block.Lines {
			sb.WriteString(line.Text)
			sb.WriteString("\n")
		}
	}

	e.logger.Debug("OCR extraction finished",
		zap.String("path", opts.Path),
		zap.Int("blocks", len(blocks)),
	)
	return Result{Text: sb.String()}, nil
}
