package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docquiz/internal/adapter"
	"docquiz/internal/adapter/completion"
	"docquiz/internal/adapter/ocr"
	"docquiz/internal/cache"
	"docquiz/internal/chunker"
	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/extractor"
	"docquiz/internal/handler"
	"docquiz/internal/logger"
	"docquiz/internal/middleware"
	"docquiz/internal/service"
	"docquiz/internal/synthesizer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Completion service, selected by configured source.
	var completionService domain.CompletionService
	switch cfg.Completion.Source {
	case "googleai":
		appLogger.Info("Initializing Google AI completion service",
			zap.String("model", cfg.Completion.GoogleAI.Model))
		completionService, err = completion.NewGoogleAICompletion(ctx,
			cfg.Completion.GoogleAI.APIKey, cfg.Completion.GoogleAI.Model, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create Google AI completion service", zap.Error(err))
		}
	case "ollama":
		appLogger.Info("Initializing Ollama completion service",
			zap.String("server_url", cfg.Completion.Ollama.ServerURL),
			zap.String("model", cfg.Completion.Ollama.Model))
		completionService, err = completion.NewOllamaCompletion(
			cfg.Completion.Ollama.ServerURL, cfg.Completion.Ollama.Model, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create Ollama completion service", zap.Error(err))
		}
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported completion source: %s. Please check COMPLETION_SOURCE in config.", cfg.Completion.Source))
	}

	// Generation cache is optional; without a Redis address every upload
	// pays the full completion round trip.
	var quizCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		quizCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Generation cache enabled",
			zap.String("address", cfg.Redis.Address),
			zap.Duration("ttl", cfg.Redis.TTL),
			zap.String("key_prefix", cache.GlobalKeyPrefix))
	} else {
		appLogger.Info("No Redis address configured; running without generation cache")
	}

	ocrService := ocr.NewTesseractOCR(cfg.OCR.Languages, appLogger)
	dispatcher := extractor.NewDispatcher(ocrService, appLogger)
	chk := chunker.New(cfg.Pipeline.TokenBudget)
	synth := synthesizer.New(appLogger)

	quizService := service.NewQuizService(
		dispatcher, chk, synth, completionService,
		quizCache, cfg.Redis.TTL, cfg.Pipeline.MaxSlides,
	)
	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    50 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())

	api := app.Group("/api")
	api.Post("/quizzes", quizHandler.GenerateQuiz)
	api.Post("/quizzes/:id/answers", quizHandler.SubmitAnswer)
	api.Get("/quizzes/:id/result", quizHandler.GetResult)
	api.Delete("/quizzes/:id", quizHandler.EndSession)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("Starting server", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
