// Package extractor turns uploaded document bytes into normalized plain
// text. One adapter per container format, all funneling through the same
// normalization step; format resolution is by declared file extension
// only.
package extractor

import (
	"context"

	"docquiz/internal/domain"

	"go.uber.org/zap"
)

// Options carries per-extraction inputs that only some adapters use.
type Options struct {
	// Path is the filesystem location of the uploaded file, when one
	// exists. The image adapter requires it; every other adapter works
	// from bytes alone.
	Path string
	// MaxSlides caps PPTX extraction at the first N slide parts. 0 means
	// no cap.
	MaxSlides int
}

// Result is the raw outcome of one adapter run, before normalization.
// SlideCount and SlidesKept are populated by the PPTX adapter only, so the
// size-limiting stage can tell whether a structural slide cap already
// fired.
type Result struct {
	Text       string
	Format     domain.SourceFormat
	SlideCount int
	SlidesKept int
}

// Adapter is the uniform extraction contract implemented per format.
type Adapter interface {
	Extract(ctx context.Context, data []byte, opts Options) (Result, error)
}

// Dispatcher resolves a declared format to its adapter and normalizes the
// adapter's output.
type Dispatcher struct {
	adapters map[domain.SourceFormat]Adapter
	logger   *zap.Logger
}

// NewDispatcher wires the full adapter set. The OCR collaborator is
// injected because image extraction delegates to it.
func NewDispatcher(ocr domain.OCRService, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		adapters: map[domain.SourceFormat]Adapter{
			domain.FormatDOCX:  NewDOCXExtractor(logger),
			domain.FormatTXT:   NewTXTExtractor(),
			domain.FormatPDF:   NewPDFExtractor(logger),
			domain.FormatPPTX:  NewPPTXExtractor(logger),
			domain.FormatImage: NewImageExtractor(ocr, logger),
		},
		logger: logger,
	}
}

// Dispatch resolves the declared extension, runs the matching adapter and
// normalizes its text. Unknown extensions fail with
// domain.UnsupportedFormatError.
func (d *Dispatcher) Dispatch(ctx context.Context, extension string, data []byte, opts Options) (Result, error) {
	format, err := domain.ParseSourceFormat(extension)
	if err != nil {
		return Result{}, err
	}

	adapter, ok := d.adapters[format]
	if !ok {
		return Result{}, domain.NewUnsupportedFormatError(extension)
	}

	result, err := adapter.Extract(ctx, data, opts)
	if err != nil {
		return Result{}, err
	}

	result.Format = format
	result.Text = Normalize(result.Text)

	d.logger.Debug("Extracted document text",
		zap.String("format", string(format)),
		zap.Int("text_length", len(result.Text)),
	)
	return result, nil
}
