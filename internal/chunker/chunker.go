// Package chunker bounds extracted text to the model's context budget.
//
// Token cost is approximated as 4 characters per token. That approximation,
// not a real tokenizer, governs every size decision here; it is a
// deliberate design simplification, not a precision guarantee.
package chunker

import (
	"fmt"
	"strings"

	"docquiz/internal/domain"
)

// CharsPerToken is the character-count approximation of one model token.
const CharsPerToken = 4

// TruncationReason tags which size-limiting strategy fired. At most one
// strategy ever annotates the output: the structural slide cap takes
// precedence over character-budget chunking.
type TruncationReason string

const (
	ReasonNone        TruncationReason = ""
	ReasonSlideCap    TruncationReason = "slide_cap"
	ReasonTokenBudget TruncationReason = "token_budget"
)

// Chunker splits or truncates text against a fixed token budget.
type Chunker struct {
	tokenBudget int
}

func New(tokenBudget int) *Chunker {
	return &Chunker{tokenBudget: tokenBudget}
}

func (c *Chunker) charLimit() int {
	return c.tokenBudget * CharsPerToken
}

// NeedsChunking reports whether text exceeds the character budget.
func (c *Chunker) NeedsChunking(text string) bool {
	return len(text) > c.charLimit()
}

// Chunk splits text on word boundaries, greedily packing words into a
// chunk until adding the next word would exceed the character budget. A
// single word longer than the budget becomes its own oversized chunk
// rather than being split mid-word. Text within budget comes back as a
// single chunk, unmodified.
//
// Chunks joined with single spaces reconstruct the word sequence of the
// input; byte-exact reconstruction is not a goal since whitespace has
// already been normalized away upstream.
func (c *Chunker) Chunk(text string) []string {
	if !c.NeedsChunking(text) {
		return []string{text}
	}

	limit := c.charLimit()
	words := strings.Fields(text)
	var chunks []string
	var current strings.Builder

	for _, word := range words {
		projected := current.Len() + len(word)
		if current.Len() > 0 {
			projected++ // joining space
		}
		if projected > limit && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// CapWordsBySlideEstimate is the cruder slide-limiting fallback for text
// with no structural slide information: it estimates words per slide as
// one tenth of the total word count and keeps only maxSlides slides'
// worth. It reports whether the cap removed anything.
func CapWordsBySlideEstimate(text string, maxSlides int) (string, bool) {
	if maxSlides <= 0 {
		return text, false
	}
	words := strings.Fields(text)
	wordsPerSlide := len(words) / 10
	keep := maxSlides * wordsPerSlide
	if keep <= 0 || keep >= len(words) {
		return text, false
	}
	return strings.Join(words[:keep], " "), true
}

// BoundOptions describes any structural slide limiting that already
// happened (or was requested) upstream of the budget check.
type BoundOptions struct {
	// MaxSlides is the caller-supplied slide cap, if any. Slide capping
	// is a slide-deck policy; it never applies to other formats.
	MaxSlides int
	// Format is the document's container format.
	Format domain.SourceFormat
	// SlideCount is the total number of slide parts found during
	// structured extraction; 0 means the text is not slide-structured.
	SlideCount int
	// SlidesKept is how many slide parts extraction actually kept.
	SlidesKept int
}

// BoundResult is the outcome of the unified size-limiting stage.
type BoundResult struct {
	Text       string
	Truncated  bool
	ChunkCount int
	Reason     TruncationReason
}

// Bound applies the pipeline's large-input policy: structural slide cap
// first when applicable, else the word-estimate slide fallback for PPTX
// input that produced no structural counts, else character-budget
// chunking keeping only the first chunk. Whichever
// limiting occurred, exactly one explanatory note is appended to the
// returned text; the two strategies never both annotate. Truncation is
// never silent.
func (c *Chunker) Bound(text string, opts BoundOptions) BoundResult {
	reason := ReasonNone
	note := ""

	if opts.SlideCount > 0 && opts.SlidesKept < opts.SlideCount {
		reason = ReasonSlideCap
		note = fmt.Sprintf("[Note: only the first %d of %d slides were used.]", opts.SlidesKept, opts.SlideCount)
	} else if opts.Format == domain.FormatPPTX && opts.SlideCount == 0 && opts.MaxSlides > 0 {
		capped, didCap := CapWordsBySlideEstimate(text, opts.MaxSlides)
		if didCap {
			text = capped
			reason = ReasonSlideCap
			note = fmt.Sprintf("[Note: content was limited to approximately the first %d slides' worth of text.]", opts.MaxSlides)
		}
	}

	chunks := c.Chunk(text)
	if len(chunks) > 1 {
		text = chunks[0]
		if reason == ReasonNone {
			reason = ReasonTokenBudget
			note = fmt.Sprintf("[Note: the document exceeded the context budget and was split into %d chunks; only the first chunk was used.]", len(chunks))
		}
	}

	if note != "" {
		text = text + "\n\n" + note
	}

	return BoundResult{
		Text:       text,
		Truncated:  reason != ReasonNone,
		ChunkCount: len(chunks),
		Reason:     reason,
	}
}
