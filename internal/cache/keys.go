package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const GlobalKeyPrefix = "docquiz"

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// GenerationKey keys a synthesized question set by the content it was
// generated from: SHA-256 of the bounded source text, plus the quiz type
// and question count. Identical uploads reuse the cached generation
// instead of a second completion call.
func GenerationKey(text string, quizType string, questionCount int) string {
	sum := sha256.Sum256([]byte(text))
	digest := hex.EncodeToString(sum[:])
	return GenerateCacheKey("quiz", "generation", digest, quizType, fmt.Sprintf("%d", questionCount))
}
