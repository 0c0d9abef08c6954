package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Completion CompletionConfig
	Pipeline   PipelineConfig
	Redis      RedisConfig
	OCR        OCRConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// CompletionConfig selects and configures the LLM backend. The API key is
// an explicit configuration value threaded in at process start, never a
// package-level global.
type CompletionConfig struct {
	Source   string // "googleai" or "ollama"
	GoogleAI GoogleAIConfig
	Ollama   OllamaConfig
}

type GoogleAIConfig struct {
	APIKey string
	Model  string
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

// PipelineConfig carries the size-limiting knobs of the extraction
// pipeline.
type PipelineConfig struct {
	// TokenBudget is the approximate model context budget, measured in
	// 4-characters-per-token units.
	TokenBudget int
	// MaxSlides caps PPTX extraction; 0 disables the cap.
	MaxSlides int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type OCRConfig struct {
	// Languages is the Tesseract language list, e.g. "eng".
	Languages string
}

const defaultTokenBudget = 8000

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 120)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("completion.source", "googleai")
	viper.SetDefault("completion.googleai.model", "gemini-2.0-flash")
	viper.SetDefault("completion.ollama.model", "qwen3:0.6b")
	viper.SetDefault("pipeline.token_budget", defaultTokenBudget)
	viper.SetDefault("pipeline.max_slides", 0)
	viper.SetDefault("redis.ttl", 3600)
	viper.SetDefault("ocr.languages", "eng")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Completion: CompletionConfig{
			Source: viper.GetString("completion.source"),
			GoogleAI: GoogleAIConfig{
				APIKey: viper.GetString("completion.googleai.api_key"),
				Model:  viper.GetString("completion.googleai.model"),
			},
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("completion.ollama.server_url"),
				Model:     viper.GetString("completion.ollama.model"),
			},
		},
		Pipeline: PipelineConfig{
			TokenBudget: viper.GetInt("pipeline.token_budget"),
			MaxSlides:   viper.GetInt("pipeline.max_slides"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			TTL:      viper.GetDuration("redis.ttl") * time.Second,
		},
		OCR: OCRConfig{
			Languages: viper.GetString("ocr.languages"),
		},
	}

	// Environment overrides for the secrets that usually arrive that way.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Completion.GoogleAI.APIKey = key
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		config.Redis.Address = addr
	}
	if server := os.Getenv("OLLAMA_SERVER_URL"); server != "" {
		config.Completion.Ollama.ServerURL = server
	}

	if config.Pipeline.TokenBudget <= 0 {
		config.Pipeline.TokenBudget = defaultTokenBudget
	}

	return config, nil
}
