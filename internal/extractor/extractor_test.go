package extractor

import (
	"context"
	"errors"
	"testing"

	"docquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubOCR struct {
	blocks []domain.OCRBlock
	err    error
	calls  []string
}

func (s *stubOCR) Recognize(_ context.Context, path string) ([]domain.OCRBlock, error) {
	s.calls = append(s.calls, path)
	return s.blocks, s.err
}

func TestDispatcher_Dispatch(t *testing.T) {
	ocr := &stubOCR{}
	d := NewDispatcher(ocr, zap.NewNop())
	ctx := context.Background()

	t.Run("unknown extension", func(t *testing.T) {
		_, err := d.Dispatch(ctx, ".epub", nil, Options{})
		var unsupportedErr *domain.UnsupportedFormatError
		require.ErrorAs(t, err, &unsupportedErr)
		assert.Equal(t, ".epub", unsupportedErr.Extension)
	})

	t.Run("extension matching is case insensitive", func(t *testing.T) {
		result, err := d.Dispatch(ctx, ".TXT", []byte("  hello   world  "), Options{})
		require.NoError(t, err)
		assert.Equal(t, domain.FormatTXT, result.Format)
		assert.Equal(t, "hello world", result.Text, "dispatcher must normalize adapter output")
	})

	t.Run("image routes through the OCR collaborator by path", func(t *testing.T) {
		ocr.blocks = []domain.OCRBlock{{Lines: []domain.OCRLine{{Text: "line one"}, {Text: "line two"}}}}
		result, err := d.Dispatch(ctx, "png", []byte{0x89}, Options{Path: "/tmp/scan.png"})
		require.NoError(t, err)
		assert.Equal(t, domain.FormatImage, result.Format)
		assert.Equal(t, "line one\nline two", result.Text)
		assert.Equal(t, []string{"/tmp/scan.png"}, ocr.calls)
	})

	t.Run("image without a path fails fast", func(t *testing.T) {
		_, err := d.Dispatch(ctx, ".jpg", []byte{0xFF, 0xD8}, Options{})
		var extractionErr *domain.ExtractionError
		require.ErrorAs(t, err, &extractionErr)
		assert.Equal(t, domain.FormatImage, extractionErr.Format)
		assert.ErrorIs(t, err, ErrOCRRequiresPath)
	})

	t.Run("OCR transport errors pass through unmodified", func(t *testing.T) {
		transportErr := errors.New("tesseract unavailable")
		failing := &stubOCR{err: transportErr}
		d := NewDispatcher(failing, zap.NewNop())
		_, err := d.Dispatch(ctx, "bmp", nil, Options{Path: "/tmp/scan.bmp"})
		assert.ErrorIs(t, err, transportErr)
	})
}
