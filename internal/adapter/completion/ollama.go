package completion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"docquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// OllamaCompletion calls a local or self-hosted Ollama server, for running
// the pipeline without a cloud API key.
type OllamaCompletion struct {
	llm    *ollama.LLM
	logger *zap.Logger
}

func NewOllamaCompletion(serverURL, model string, logger *zap.Logger) (domain.CompletionService, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("Ollama server URL cannot be empty")
	}
	httpClient := &http.Client{Timeout: 120 * time.Second}
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	logger.Info("Initialized Ollama completion service",
		zap.String("server_url", serverURL),
		zap.String("model", model))
	return &OllamaCompletion{llm: llm, logger: logger}, nil
}

func (c *OllamaCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("Calling completion service", zap.Int("prompt_length", len(prompt)))
	reply, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", err
	}
	return reply, nil
}

var _ domain.CompletionService = (*OllamaCompletion)(nil)
