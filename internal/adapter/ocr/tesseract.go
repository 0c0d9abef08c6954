// Package ocr wraps the Tesseract engine behind the domain.OCRService
// port. The engine is an externally-owned resource: every call opens a
// fresh client and closes it on all exit paths.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"docquiz/internal/domain"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// TesseractOCR recognizes text from a path-addressable image. Recognition
// over raw bytes is not offered; the image extractor rejects that mode
// before ever reaching this adapter.
type TesseractOCR struct {
	languages string
	logger    *zap.Logger
}

func NewTesseractOCR(languages string, logger *zap.Logger) *TesseractOCR {
	if languages == "" {
		languages = "eng"
	}
	return &TesseractOCR{languages: languages, logger: logger}
}

// Recognize runs one OCR pass over the image at path, returning recognized
// lines grouped into a block in the engine's reported order.
func (t *TesseractOCR) Recognize(ctx context.Context, path string) ([]domain.OCRBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	variables := []struct {
		name  gosseract.SettableVariable
		value string
	}{
		{"tessedit_ocr_engine_mode", "1"}, // LSTM only
		{"tessedit_pageseg_mode", "3"},    // automatic page segmentation
		{"preserve_interword_spaces", "1"},
	}
	for _, v := range variables {
		if err := client.SetVariable(v.name, v.value); err != nil {
			return nil, fmt.Errorf("failed to set OCR variable %s: %w", v.name, err)
		}
	}

	if err := client.SetLanguage(strings.Split(t.languages, "+")...); err != nil {
		return nil, fmt.Errorf("failed to set OCR language %q: %w", t.languages, err)
	}
	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("failed to load image for OCR: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR recognition failed: %w", err)
	}

	lines := make([]domain.OCRLine, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		lines = append(lines, domain.OCRLine{Text: text})
	}

	t.logger.Debug("OCR pass finished",
		zap.String("path", path),
		zap.Int("lines", len(lines)),
	)
	if len(lines) == 0 {
		return nil, nil
	}
	return []domain.OCRBlock{{Lines: lines}}, nil
}

var _ domain.OCRService = (*TesseractOCR)(nil)
