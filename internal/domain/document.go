package domain

import "strings"

// SourceFormat identifies the container format a document was uploaded in.
type SourceFormat string

const (
	FormatDOCX  SourceFormat = "docx"
	FormatTXT   SourceFormat = "txt"
	FormatPDF   SourceFormat = "pdf"
	FormatPPTX  SourceFormat = "pptx"
	FormatImage SourceFormat = "image"
)

// imageExtensions are the raster formats routed to the OCR adapter.
var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"bmp":  true,
	"gif":  true,
}

// ParseSourceFormat resolves a file extension (with or without a leading
// dot, any case) to a SourceFormat. Resolution is by declared extension
// only, never content sniffing.
func ParseSourceFormat(extension string) (SourceFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
	switch {
	case ext == "docx":
		return FormatDOCX, nil
	case ext == "txt":
		return FormatTXT, nil
	case ext == "pdf":
		return FormatPDF, nil
	case ext == "pptx":
		return FormatPPTX, nil
	case imageExtensions[ext]:
		return FormatImage, nil
	default:
		return "", NewUnsupportedFormatError(extension)
	}
}

// ExtractedDocument is the normalized output of one extraction pass. It is
// produced once per upload, is immutable, and is discarded after prompt
// construction.
type ExtractedDocument struct {
	Text         string
	SourceFormat SourceFormat
	Truncated    bool
	ChunkCount   int
}
