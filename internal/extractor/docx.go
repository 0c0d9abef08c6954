package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"docquiz/internal/domain"

	"go.uber.org/zap"
)

// DOCXExtractor reads the WordprocessingML part of a .docx container and
// concatenates paragraph text runs in document order.
type DOCXExtractor struct {
	logger *zap.Logger
}

func NewDOCXExtractor(logger *zap.Logger) *DOCXExtractor {
	return &DOCXExtractor{logger: logger}
}

func (e *DOCXExtractor) Extract(_ context.Context, data []byte, _ Options) (Result, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, domain.NewExtractionError(domain.FormatDOCX, err)
	}

	var docPart *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			docPart = f
			break
		}
	}
	if docPart == nil {
		return Result{}, domain.NewExtractionError(domain.FormatDOCX, errors.New("container has no word/document.xml part"))
	}

	rc, err := docPart.Open()
	if err != nil {
		return Result{}, domain.NewExtractionError(domain.FormatDOCX, err)
	}
	defer rc.Close()

	text, err := wordprocessingText(rc)
	if err != nil {
		return Result{}, domain.NewExtractionError(domain.FormatDOCX, err)
	}
	return Result{Text: text}, nil
}

// wordprocessingText walks the XML token stream collecting <w:t> run text,
// inserting a newline at each paragraph boundary.
func wordprocessingText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
