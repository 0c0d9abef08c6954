package chunker

import (
	"strings"
	"testing"

	"docquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tiny budgets keep the fixtures readable; CharsPerToken is 4, so a budget
// of 5 tokens is a 20 character limit.
func TestChunker_NeedsChunking(t *testing.T) {
	c := New(5)
	assert.False(t, c.NeedsChunking(strings.Repeat("a", 20)))
	assert.True(t, c.NeedsChunking(strings.Repeat("a", 21)))
	assert.False(t, c.NeedsChunking(""))
}

func TestChunker_Chunk(t *testing.T) {
	c := New(5)

	t.Run("text within budget is a single untouched chunk", func(t *testing.T) {
		text := "short enough text"
		assert.Equal(t, []string{text}, c.Chunk(text))
	})

	t.Run("greedy word packing under the character limit", func(t *testing.T) {
		// 20 char limit: "aaaa bbbb cccc dddd" is exactly 19, adding
		// "eeee" would overflow.
		text := "aaaa bbbb cccc dddd eeee ffff"
		chunks := c.Chunk(text)
		require.Len(t, chunks, 2)
		assert.Equal(t, "aaaa bbbb cccc dddd", chunks[0])
		assert.Equal(t, "eeee ffff", chunks[1])
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 20)
		}
	})

	t.Run("oversized single word becomes its own chunk", func(t *testing.T) {
		long := strings.Repeat("x", 30)
		chunks := c.Chunk("aa " + long + " bb")
		require.Len(t, chunks, 3)
		assert.Equal(t, long, chunks[1])
	})

	t.Run("rejoining chunks reproduces the word sequence", func(t *testing.T) {
		text := strings.Repeat("lorem ipsum dolor sit amet ", 10)
		chunks := c.Chunk(text)
		require.Greater(t, len(chunks), 1)
		assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")))
	})
}

func TestCapWordsBySlideEstimate(t *testing.T) {
	// 100 words means 10 estimated words per slide.
	words := make([]string, 100)
	for i := range words {
		words[i] = "w"
	}
	text := strings.Join(words, " ")

	t.Run("keeps maxSlides times the estimated slide size", func(t *testing.T) {
		capped, didCap := CapWordsBySlideEstimate(text, 3)
		assert.True(t, didCap)
		assert.Len(t, strings.Fields(capped), 30)
	})

	t.Run("no cap when estimate covers everything", func(t *testing.T) {
		capped, didCap := CapWordsBySlideEstimate(text, 10)
		assert.False(t, didCap)
		assert.Equal(t, text, capped)
	})

	t.Run("zero maxSlides disables the cap", func(t *testing.T) {
		_, didCap := CapWordsBySlideEstimate(text, 0)
		assert.False(t, didCap)
	})
}

func TestChunker_Bound(t *testing.T) {
	c := New(5) // 20 char limit

	t.Run("no limiting, no note", func(t *testing.T) {
		result := c.Bound("fits fine", BoundOptions{})
		assert.Equal(t, "fits fine", result.Text)
		assert.False(t, result.Truncated)
		assert.Equal(t, 1, result.ChunkCount)
		assert.Equal(t, ReasonNone, result.Reason)
	})

	t.Run("budget chunking keeps first chunk and appends one note", func(t *testing.T) {
		text := "aaaa bbbb cccc dddd eeee ffff"
		result := c.Bound(text, BoundOptions{})
		assert.True(t, result.Truncated)
		assert.Equal(t, ReasonTokenBudget, result.Reason)
		assert.Equal(t, 2, result.ChunkCount)
		assert.True(t, strings.HasPrefix(result.Text, "aaaa bbbb cccc dddd"))
		assert.Equal(t, 1, strings.Count(result.Text, "[Note:"), "exactly one note must be appended")
		assert.Contains(t, result.Text, "2 chunks")
	})

	t.Run("structural slide cap wins precedence over budget chunking", func(t *testing.T) {
		text := "aaaa bbbb cccc dddd eeee ffff"
		result := c.Bound(text, BoundOptions{MaxSlides: 4, Format: domain.FormatPPTX, SlideCount: 9, SlidesKept: 4})
		assert.True(t, result.Truncated)
		assert.Equal(t, ReasonSlideCap, result.Reason)
		// Text is still bounded, but only the slide-cap note appears.
		assert.Equal(t, 1, strings.Count(result.Text, "[Note:"))
		assert.Contains(t, result.Text, "first 4 of 9 slides")
		assert.NotContains(t, result.Text, "chunks")
	})

	t.Run("word estimate fallback fires for slide decks without structural counts", func(t *testing.T) {
		words := make([]string, 100)
		for i := range words {
			words[i] = "aa"
		}
		text := strings.Join(words, " ")
		result := c.Bound(text, BoundOptions{MaxSlides: 3, Format: domain.FormatPPTX})
		assert.True(t, result.Truncated)
		assert.Equal(t, ReasonSlideCap, result.Reason)
		assert.Equal(t, 1, strings.Count(result.Text, "[Note:"))
	})

	t.Run("slide cap never applies to non-slide formats", func(t *testing.T) {
		roomy := New(8000)
		words := make([]string, 100)
		for i := range words {
			words[i] = "aa"
		}
		text := strings.Join(words, " ")
		for _, format := range []domain.SourceFormat{domain.FormatTXT, domain.FormatPDF, domain.FormatDOCX} {
			result := roomy.Bound(text, BoundOptions{MaxSlides: 3, Format: format})
			assert.False(t, result.Truncated, "format %s must not be slide-capped", format)
			assert.Equal(t, ReasonNone, result.Reason)
			assert.Equal(t, text, result.Text)
		}
	})

	t.Run("uncapped slide structure falls back to budget policy", func(t *testing.T) {
		text := "aaaa bbbb cccc dddd eeee ffff"
		result := c.Bound(text, BoundOptions{MaxSlides: 10, Format: domain.FormatPPTX, SlideCount: 3, SlidesKept: 3})
		assert.Equal(t, ReasonTokenBudget, result.Reason)
	})
}
