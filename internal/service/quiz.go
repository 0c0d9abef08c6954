// Package service orchestrates the document-to-quiz pipeline: extraction,
// size bounding, prompt construction, the completion round trip, response
// synthesis, and in-memory session scoring.
package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"docquiz/internal/cache"
	"docquiz/internal/chunker"
	"docquiz/internal/domain"
	"docquiz/internal/extractor"
	"docquiz/internal/logger"
	"docquiz/internal/promptbuilder"
	"docquiz/internal/synthesizer"
	"docquiz/internal/util"

	"go.uber.org/zap"
)

// GenerateRequest is one upload-and-generate invocation.
type GenerateRequest struct {
	// FileName supplies the declared extension; resolution never sniffs
	// content.
	FileName string
	Data     []byte
	// Path is the uploaded file's location on disk when one exists.
	// Required for image formats, ignored by the rest.
	Path          string
	QuizType      domain.QuizType
	QuestionCount int
	// MaxSlides optionally caps PPTX extraction; 0 applies the configured
	// default.
	MaxSlides int
}

// QuizService defines the core business operations for quizzes.
type QuizService interface {
	// GenerateQuiz runs the full pipeline over one document and opens a
	// session for the synthesized questions.
	GenerateQuiz(ctx context.Context, req GenerateRequest) (*domain.QuizSession, error)

	// SubmitAnswer records the user's answer for one question position.
	SubmitAnswer(sessionID string, position int, answer domain.Answer) error

	// GetSession returns a live session.
	GetSession(sessionID string) (*domain.QuizSession, error)

	// GetResult scores a session on demand.
	GetResult(sessionID string) (*domain.QuizResult, error)

	// EndSession destroys a session and everything it holds.
	EndSession(sessionID string) error
}

type quizService struct {
	dispatcher  *extractor.Dispatcher
	chunker     *chunker.Chunker
	synthesizer *synthesizer.Synthesizer
	completion  domain.CompletionService
	cache       domain.Cache // nil disables generation caching
	cacheTTL    time.Duration
	maxSlides   int

	mu       sync.RWMutex
	sessions map[string]*domain.QuizSession
}

// NewQuizService wires the pipeline components. cacheClient may be nil,
// in which case every generation goes to the completion service.
func NewQuizService(
	dispatcher *extractor.Dispatcher,
	chk *chunker.Chunker,
	synth *synthesizer.Synthesizer,
	completion domain.CompletionService,
	cacheClient domain.Cache,
	cacheTTL time.Duration,
	maxSlides int,
) QuizService {
	return &quizService{
		dispatcher:  dispatcher,
		chunker:     chk,
		synthesizer: synth,
		completion:  completion,
		cache:       cacheClient,
		cacheTTL:    cacheTTL,
		maxSlides:   maxSlides,
		sessions:    make(map[string]*domain.QuizSession),
	}
}

func (s *quizService) GenerateQuiz(ctx context.Context, req GenerateRequest) (*domain.QuizSession, error) {
	l := logger.Get()

	if req.QuestionCount <= 0 {
		return nil, domain.NewInvalidInputError("question count must be positive")
	}
	if !req.QuizType.IsValid() {
		return nil, domain.NewInvalidInputError("unknown quiz type")
	}

	maxSlides := req.MaxSlides
	if maxSlides == 0 {
		maxSlides = s.maxSlides
	}

	extension := filepath.Ext(req.FileName)
	extracted, err := s.dispatcher.Dispatch(ctx, extension, req.Data, extractor.Options{
		Path:      req.Path,
		MaxSlides: maxSlides,
	})
	if err != nil {
		return nil, err
	}

	bound := s.chunker.Bound(extracted.Text, chunker.BoundOptions{
		MaxSlides:  maxSlides,
		Format:     extracted.Format,
		SlideCount: extracted.SlideCount,
		SlidesKept: extracted.SlidesKept,
	})

	doc := domain.ExtractedDocument{
		Text:         bound.Text,
		SourceFormat: extracted.Format,
		Truncated:    bound.Truncated,
		ChunkCount:   bound.ChunkCount,
	}
	if doc.Text == "" {
		return nil, domain.NewInvalidInputError("document contains no extractable text")
	}

	l.Info("Document extracted",
		zap.String("format", string(doc.SourceFormat)),
		zap.Int("text_length", len(doc.Text)),
		zap.Bool("truncated", doc.Truncated),
		zap.Int("chunk_count", doc.ChunkCount),
		zap.String("truncation_reason", string(bound.Reason)),
	)

	questions, err := s.generateQuestions(ctx, doc.Text, req.QuizType, req.QuestionCount)
	if err != nil {
		return nil, err
	}

	session := domain.NewQuizSession(util.NewULID(), req.QuizType, questions)
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	l.Info("Quiz session created",
		zap.String("session_id", session.ID),
		zap.String("quiz_type", string(req.QuizType)),
		zap.Int("questions", len(questions)),
	)
	return session, nil
}

// generateQuestions consults the generation cache, then falls through to
// the completion service and the synthesizer. Cache failures are logged
// and ignored; the cache only ever saves a round trip.
func (s *quizService) generateQuestions(ctx context.Context, text string, quizType domain.QuizType, count int) ([]*domain.QuizQuestion, error) {
	l := logger.Get()
	key := cache.GenerationKey(text, string(quizType), count)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var questions []*domain.QuizQuestion
			if err := json.Unmarshal([]byte(cached), &questions); err == nil && len(questions) > 0 {
				l.Info("Generation cache hit", zap.String("key", key))
				return questions, nil
			}
			l.Warn("Discarding undecodable cache entry", zap.String("key", key))
		} else if err != domain.ErrCacheMiss {
			l.Warn("Generation cache read failed", zap.Error(err))
		}
	}

	prompt := promptbuilder.BuildPrompt(text, count, quizType)
	reply, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	questions, err := s.synthesizer.Synthesize(reply, quizType)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(questions); err == nil {
			if err := s.cache.Set(ctx, key, string(encoded), s.cacheTTL); err != nil {
				l.Warn("Generation cache write failed", zap.Error(err))
			}
		}
	}
	return questions, nil
}

func (s *quizService) GetSession(sessionID string) (*domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return session, nil
}

func (s *quizService) SubmitAnswer(sessionID string, position int, answer domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.NewSessionNotFoundError(sessionID)
	}
	return session.SubmitAnswer(position, answer)
}

func (s *quizService) GetResult(sessionID string) (*domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return session.Result(), nil
}

func (s *quizService) EndSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return domain.NewSessionNotFoundError(sessionID)
	}
	delete(s.sessions, sessionID)
	return nil
}
