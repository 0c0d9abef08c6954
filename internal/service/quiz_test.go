package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"docquiz/internal/cache"
	"docquiz/internal/chunker"
	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/extractor"
	"docquiz/internal/logger"
	"docquiz/internal/synthesizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "debug", Env: "test"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const sourceText = "The cell is the basic unit of life. Mitochondria produce ATP through cellular respiration."

const cannedReply = `[
  {"question": "What produces ATP?", "choices": ["Nucleus", "Mitochondria", "Ribosome", "Golgi"], "correct_answer_index": 1, "explanation": "Respiration happens in the mitochondria.", "type": "multiple_choice"},
  {"question": "What is the basic unit of life?", "choices": ["The atom", "The cell", "The organ", "The tissue"], "correct_answer_index": 1, "explanation": "Cell theory.", "type": "multiple_choice"}
]`

func newTestService(completion domain.CompletionService, cacheClient domain.Cache) QuizService {
	nop := zap.NewNop()
	return NewQuizService(
		extractor.NewDispatcher(nil, nop),
		chunker.New(8000),
		synthesizer.New(nop),
		completion,
		cacheClient,
		time.Hour,
		30,
	)
}

func generateRequest() GenerateRequest {
	return GenerateRequest{
		FileName:      "cells.txt",
		Data:          []byte(sourceText),
		QuizType:      domain.QuizTypeMultipleChoice,
		QuestionCount: 2,
	}
}

func TestGenerateQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("full pipeline over a text upload", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		svc := newTestService(completion, nil)

		session, err := svc.GenerateQuiz(ctx, generateRequest())
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, domain.QuizTypeMultipleChoice, session.QuizType)
		require.Len(t, session.Questions, 2)
		assert.Equal(t, "What produces ATP?", session.Questions[0].Question)

		prompt := completion.lastPrompt()
		assert.Contains(t, prompt, sourceText, "prompt must embed the extracted document text")
		assert.Contains(t, prompt, "exactly 2")
	})

	t.Run("max slides does not cap plain text uploads", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		svc := newTestService(completion, nil)
		req := generateRequest()
		req.MaxSlides = 1

		_, err := svc.GenerateQuiz(ctx, req)
		require.NoError(t, err)

		prompt := completion.lastPrompt()
		assert.Contains(t, prompt, sourceText, "text documents must reach the prompt uncapped")
		assert.NotContains(t, prompt, "[Note:")
	})

	t.Run("question count must be positive", func(t *testing.T) {
		svc := newTestService(&mockCompletionService{reply: cannedReply}, nil)
		req := generateRequest()
		req.QuestionCount = 0

		_, err := svc.GenerateQuiz(ctx, req)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
	})

	t.Run("unknown quiz type rejected", func(t *testing.T) {
		svc := newTestService(&mockCompletionService{reply: cannedReply}, nil)
		req := generateRequest()
		req.QuizType = domain.QuizType("matching")

		_, err := svc.GenerateQuiz(ctx, req)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
	})

	t.Run("unsupported extension propagates", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		svc := newTestService(completion, nil)
		req := generateRequest()
		req.FileName = "notes.epub"

		_, err := svc.GenerateQuiz(ctx, req)
		var formatErr *domain.UnsupportedFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Zero(t, completion.callCount(), "no completion call for an unextractable document")
	})

	t.Run("empty document rejected before prompting", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		svc := newTestService(completion, nil)
		req := generateRequest()
		req.Data = []byte("   \n\n  ")

		_, err := svc.GenerateQuiz(ctx, req)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
		assert.Zero(t, completion.callCount())
	})

	t.Run("completion failure wrapped as llm service error", func(t *testing.T) {
		completion := &mockCompletionService{err: errors.New("rate limited")}
		svc := newTestService(completion, nil)

		_, err := svc.GenerateQuiz(ctx, generateRequest())
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrLLMServiceError, domainErr.Code)
	})

	t.Run("unusable reply surfaces a synthesis error", func(t *testing.T) {
		completion := &mockCompletionService{reply: "I cannot help with that."}
		svc := newTestService(completion, nil)

		_, err := svc.GenerateQuiz(ctx, generateRequest())
		var synthErr *domain.SynthesisError
		require.ErrorAs(t, err, &synthErr)
	})
}

func TestGenerateQuiz_Caching(t *testing.T) {
	ctx := context.Background()

	t.Run("miss populates the cache", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		cacheClient := newMockCache()
		svc := newTestService(completion, cacheClient)

		_, err := svc.GenerateQuiz(ctx, generateRequest())
		require.NoError(t, err)
		assert.Equal(t, 1, completion.callCount())

		key := cache.GenerationKey(sourceText, string(domain.QuizTypeMultipleChoice), 2)
		cached, err := cacheClient.Get(ctx, key)
		require.NoError(t, err)

		var questions []*domain.QuizQuestion
		require.NoError(t, json.Unmarshal([]byte(cached), &questions))
		assert.Len(t, questions, 2)
	})

	t.Run("hit skips the completion round trip", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		cacheClient := newMockCache()
		svc := newTestService(completion, cacheClient)

		_, err := svc.GenerateQuiz(ctx, generateRequest())
		require.NoError(t, err)
		session, err := svc.GenerateQuiz(ctx, generateRequest())
		require.NoError(t, err)

		assert.Equal(t, 1, completion.callCount(), "second identical upload must be served from cache")
		assert.Len(t, session.Questions, 2)
	})

	t.Run("cache read failure falls through to the completion service", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		cacheClient := newMockCache()
		cacheClient.getErr = errors.New("connection refused")
		svc := newTestService(completion, cacheClient)

		session, err := svc.GenerateQuiz(ctx, generateRequest())
		require.NoError(t, err)
		assert.Len(t, session.Questions, 2)
		assert.Equal(t, 1, completion.callCount())
	})

	t.Run("cache write failure does not fail the generation", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		cacheClient := newMockCache()
		cacheClient.setErr = errors.New("write failed")
		svc := newTestService(completion, cacheClient)

		session, err := svc.GenerateQuiz(ctx, generateRequest())
		require.NoError(t, err)
		assert.Len(t, session.Questions, 2)
	})

	t.Run("undecodable cache entry regenerates", func(t *testing.T) {
		completion := &mockCompletionService{reply: cannedReply}
		cacheClient := newMockCache()
		key := cache.GenerationKey(sourceText, string(domain.QuizTypeMultipleChoice), 2)
		cacheClient.entries[key] = "not json"
		svc := newTestService(completion, cacheClient)

		session, err := svc.GenerateQuiz(ctx, generateRequest())
		require.NoError(t, err)
		assert.Len(t, session.Questions, 2)
		assert.Equal(t, 1, completion.callCount())
	})
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&mockCompletionService{reply: cannedReply}, nil)

	session, err := svc.GenerateQuiz(ctx, generateRequest())
	require.NoError(t, err)

	t.Run("get session", func(t *testing.T) {
		got, err := svc.GetSession(session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.ID, got.ID)
	})

	t.Run("answer and score", func(t *testing.T) {
		require.NoError(t, svc.SubmitAnswer(session.ID, 0, domain.Answer{Index: 1})) // correct
		require.NoError(t, svc.SubmitAnswer(session.ID, 1, domain.Answer{Index: 0})) // incorrect

		result, err := svc.GetResult(session.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 2, result.TotalQuestions)
		assert.Equal(t, 50, result.Percentage())
	})

	t.Run("end session destroys it", func(t *testing.T) {
		require.NoError(t, svc.EndSession(session.ID))
		_, err := svc.GetSession(session.ID)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrSessionNotFound, domainErr.Code)
	})

	t.Run("concurrent submissions and result reads", func(t *testing.T) {
		svc := newTestService(&mockCompletionService{reply: cannedReply}, nil)
		session, err := svc.GenerateQuiz(ctx, generateRequest())
		require.NoError(t, err)

		// Results are snapshots; building the response DTO from one must
		// never touch session state a concurrent submission is writing.
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_ = svc.SubmitAnswer(session.ID, i%len(session.Questions), domain.Answer{Index: i % 4})
			}(i)
			go func() {
				defer wg.Done()
				result, err := svc.GetResult(session.ID)
				if err != nil {
					return
				}
				resp := dto.NewResultResponse(session.ID, result)
				assert.Len(t, resp.Items, len(session.Questions))
			}()
		}
		wg.Wait()
	})

	t.Run("operations on an unknown session fail uniformly", func(t *testing.T) {
		unknown := "01UNKNOWNSESSION"
		assertNotFound := func(err error) {
			var domainErr *domain.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domain.ErrSessionNotFound, domainErr.Code)
		}

		_, err := svc.GetSession(unknown)
		assertNotFound(err)
		assertNotFound(svc.SubmitAnswer(unknown, 0, domain.Answer{Index: 0}))
		_, err = svc.GetResult(unknown)
		assertNotFound(err)
		assertNotFound(svc.EndSession(unknown))
	})
}
