package domain

import (
	"context"
	"time"
)

// CompletionService is the external LLM collaborator: one synchronous
// prompt-in, text-out round trip. Transport and rate-limit errors are
// returned verbatim; this core never retries.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OCRLine is one recognized line of text.
type OCRLine struct {
	Text string
}

// OCRBlock groups recognized lines as reported by the OCR engine.
type OCRBlock struct {
	Lines []OCRLine
}

// OCRService is the external OCR collaborator for image documents. Input
// is path-addressable only; recognition over raw bytes is an unsupported
// mode (see the image adapter).
type OCRService interface {
	Recognize(ctx context.Context, path string) ([]OCRBlock, error)
}

// Cache defines the interface (port) for caching operations.
// Implementations of this interface will be the adapters (e.g., RedisCacheAdapter).
type Cache interface {
	// Get retrieves an item from the cache.
	// It returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set adds an item to the cache, overwriting an existing item if one
	// exists. expiration 0 caches the item without a deadline.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete removes an item from the cache. A missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks the health of the cache service.
	Ping(ctx context.Context) error
}

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")
