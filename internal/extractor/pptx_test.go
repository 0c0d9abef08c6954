package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"docquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildPPTX(t *testing.T, slides map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, text := range slides {
		f, err := w.Create(name)
		require.NoError(t, err)
		var runs strings.Builder
		for _, part := range strings.Split(text, " ") {
			fmt.Fprintf(&runs, "<a:r><a:t>%s</a:t></a:r>", part)
		}
		_, err = fmt.Fprintf(f, `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:txBody>%s</p:txBody></p:sld>`, runs.String())
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestPPTXExtractor_Extract(t *testing.T) {
	e := NewPPTXExtractor(zap.NewNop())

	t.Run("joins text runs per slide with blank line separators", func(t *testing.T) {
		data := buildPPTX(t, map[string]string{
			"ppt/slides/slide1.xml": "alpha beta",
			"ppt/slides/slide2.xml": "gamma",
		})
		result, err := e.Extract(context.Background(), data, Options{})
		require.NoError(t, err)
		assert.Equal(t, "alpha beta\n\ngamma", result.Text)
		assert.Equal(t, 2, result.SlideCount)
		assert.Equal(t, 2, result.SlidesKept)
	})

	t.Run("slide parts sort lexicographically, placing slide10 before slide2", func(t *testing.T) {
		slides := make(map[string]string)
		for i := 1; i <= 12; i++ {
			slides[fmt.Sprintf("ppt/slides/slide%d.xml", i)] = fmt.Sprintf("Slide %d", i)
		}
		result, err := e.Extract(context.Background(), buildPPTX(t, slides), Options{})
		require.NoError(t, err)

		// Documented ordering caveat: string sort on unpadded filenames.
		pos10 := strings.Index(result.Text, "Slide 10")
		pos2 := strings.Index(result.Text, "\nSlide 2\n")
		require.GreaterOrEqual(t, pos10, 0)
		require.GreaterOrEqual(t, pos2, 0)
		assert.Less(t, pos10, pos2, "lexicographic sort must place slide10 before slide2")
		assert.True(t, strings.HasPrefix(result.Text, "Slide 1\n"))
	})

	t.Run("caps slides at MaxSlides and reports both counts", func(t *testing.T) {
		data := buildPPTX(t, map[string]string{
			"ppt/slides/slide1.xml": "one",
			"ppt/slides/slide2.xml": "two",
			"ppt/slides/slide3.xml": "three",
		})
		result, err := e.Extract(context.Background(), data, Options{MaxSlides: 2})
		require.NoError(t, err)
		assert.Equal(t, "one\n\ntwo", result.Text)
		assert.Equal(t, 3, result.SlideCount)
		assert.Equal(t, 2, result.SlidesKept)
	})

	t.Run("skips slides contributing no text", func(t *testing.T) {
		data := buildPPTX(t, map[string]string{
			"ppt/slides/slide1.xml": "kept",
			"ppt/slides/slide2.xml": " ",
			"ppt/slides/slide3.xml": "also kept",
		})
		result, err := e.Extract(context.Background(), data, Options{})
		require.NoError(t, err)
		assert.Equal(t, "kept\n\nalso kept", result.Text)
	})

	t.Run("malformed container fails with ExtractionError", func(t *testing.T) {
		_, err := e.Extract(context.Background(), []byte("not a zip"), Options{})
		var extractionErr *domain.ExtractionError
		require.ErrorAs(t, err, &extractionErr)
		assert.Equal(t, domain.FormatPPTX, extractionErr.Format)
	})
}
