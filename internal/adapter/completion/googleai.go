// Package completion wraps the langchaingo LLM backends behind the
// domain.CompletionService port: one blocking prompt-in, text-out round
// trip with no retry policy of its own.
package completion

import (
	"context"
	"fmt"

	"docquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// GoogleAICompletion calls the Gemini API through langchaingo.
type GoogleAICompletion struct {
	llm    *googleai.GoogleAI
	logger *zap.Logger
}

// NewGoogleAICompletion creates the Gemini-backed completion service. The
// API key arrives as an explicit argument from configuration, never from a
// package-level global.
func NewGoogleAICompletion(ctx context.Context, apiKey, model string, logger *zap.Logger) (domain.CompletionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Google AI API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("Google AI model name cannot be empty")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	logger.Info("Initialized Google AI completion service", zap.String("model", model))
	return &GoogleAICompletion{llm: llm, logger: logger}, nil
}

// Complete sends one prompt and returns the raw reply text. Transport and
// rate-limit errors come back verbatim for the caller to surface.
func (c *GoogleAICompletion) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("Calling completion service", zap.Int("prompt_length", len(prompt)))
	reply, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", err
	}
	return reply, nil
}

var _ domain.CompletionService = (*GoogleAICompletion)(nil)
