package extractor

import (
	"bytes"
	"context"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TXTExtractor decodes raw bytes as text. No structural validation.
type TXTExtractor struct{}

func NewTXTExtractor() *TXTExtractor {
	return &TXTExtractor{}
}

func (e *TXTExtractor) Extract(_ context.Context, data []byte, _ Options) (Result, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	return Result{Text: string(data)}, nil
}
