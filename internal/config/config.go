package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"mergerscan/internal/dispatch"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string
	DatabaseURL string
	RedisURL    string

	LLMProvider    string
	OpenAIKey      string
	OpenAIModel    string
	GroqKey        string
	GroqModel      string
	AnthropicKey   string
	AnthropicModel string
	OllamaModel    string

	SearchProvider  string
	PerplexityKey   string
	PerplexityModel string
	GeminiKey       string
	GeminiModel     string

	FinnHubKey      string
	AlphaVantageKey string

	CollectFromDate     string
	CollectLookbackDays int

	ClassifyChunkSize   int
	ClassifyPause       time.Duration
	SearchChunkSize     int
	SearchPause         time.Duration
	StructureChunkSize  int
	StructurePause      time.Duration
	PartialResults      bool
	SmallBatchThreshold int
	SmallBatchRPM       int
	BatchSize           int

	ChatTokenLimit int
}

// Load reads .env if present, then the process environment.
func Load() Config {
	godotenv.Load()

	batch := dispatch.DefaultConfig()

	return Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		LLMProvider:    getEnv("LLM_PROVIDER", "openai"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL_NAME"),
		GroqKey:        os.Getenv("GROQ_API_KEY"),
		GroqModel:      os.Getenv("GROQ_MODEL_NAME"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel: os.Getenv("ANTHROPIC_MODEL_NAME"),
		OllamaModel:    getEnv("OLLAMA_MODEL_NAME", "llama3.1"),

		SearchProvider:  getEnv("SEARCH_PROVIDER", "perplexity"),
		PerplexityKey:   os.Getenv("PERPLEXITY_API_KEY"),
		PerplexityModel: os.Getenv("PERPLEXITY_MODEL_NAME"),
		GeminiKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL_NAME"),

		FinnHubKey:      os.Getenv("FINNHUB_API_KEY"),
		AlphaVantageKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),

		CollectFromDate:     os.Getenv("COLLECT_FROM_DATE"),
		CollectLookbackDays: getInt("COLLECT_LOOKBACK_DAYS", 2),

		ClassifyChunkSize:   getInt("CLASSIFY_CHUNK_SIZE", batch.ChunkSize),
		ClassifyPause:       getDuration("CLASSIFY_PAUSE", batch.Pause),
		SearchChunkSize:     getInt("SEARCH_CHUNK_SIZE", 6),
		SearchPause:         getDuration("SEARCH_PAUSE", batch.Pause),
		StructureChunkSize:  getInt("STRUCTURE_CHUNK_SIZE", batch.ChunkSize),
		StructurePause:      getDuration("STRUCTURE_PAUSE", batch.Pause),
		PartialResults:      getBool("PARTIAL_RESULTS", false),
		SmallBatchThreshold: getInt("SMALL_BATCH_THRESHOLD", 100),
		SmallBatchRPM:       getInt("SMALL_BATCH_RPM", 30),
		BatchSize:           getInt("BATCH_SIZE", 200),

		ChatTokenLimit: getInt("CHAT_TOKEN_LIMIT", 2048),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}
