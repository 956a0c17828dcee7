package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	AnthropicAPIKey    string
	AnthropicModel     string
	AnthropicBaseURL   string
	MaxTokens          int
	MaxTokensComplex   int
	Temperature        float32
	EmbeddingBaseURL   string
	EmbeddingAPIKey    string
	EmbeddingModelName string
	DocumentsPath      string
	DBPath             string
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	SearchK            int
	SearchKComplex     int
	MaxResults         int
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
	Prompts            Prompts
	Chunking           Chunking
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded
// automatically. Environment variables already set take precedence over .env values.
// An optional docqa.yaml next to the .env overrides prompt templates and chunking
// parameters.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root
	_ = godotenv.Load() // Try current directory

	var rootDir string
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				rootDir = dir
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}
	if rootDir == "" {
		rootDir = wd
	}

	cfg := &Config{
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		AnthropicBaseURL:   getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		DocumentsPath:      getEnv("DOCUMENTS_PATH", "./source_documents"),
		DBPath:             getEnv("DB_PATH", "./data/docqa.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "documents"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	var parseErr error
	if cfg.MaxTokens, parseErr = getEnvInt("MAX_TOKENS", 800); parseErr != nil {
		return nil, parseErr
	}
	if cfg.MaxTokensComplex, parseErr = getEnvInt("MAX_TOKENS_COMPLEX", 1200); parseErr != nil {
		return nil, parseErr
	}
	if cfg.SearchK, parseErr = getEnvInt("SEARCH_K", 3); parseErr != nil {
		return nil, parseErr
	}
	if cfg.SearchKComplex, parseErr = getEnvInt("SEARCH_K_COMPLEX", 5); parseErr != nil {
		return nil, parseErr
	}
	if cfg.MaxResults, parseErr = getEnvInt("MAX_RESULTS", 8); parseErr != nil {
		return nil, parseErr
	}

	tempStr := getEnv("TEMPERATURE", "0.1")
	tempVal, err := strconv.ParseFloat(tempStr, 32)
	if err != nil {
		return nil, fmt.Errorf("TEMPERATURE must be a valid float: %w", err)
	}
	cfg.Temperature = float32(tempVal)

	cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	// Parse QDRANT_VECTOR_SIZE
	// This must match the output vector size of the embeddings model. If the vector
	// size changes, the Qdrant collection must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	// Validate required fields
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	// Load optional prompt/chunking overrides from docqa.yaml
	overrides, err := LoadFile(filepath.Join(rootDir, "docqa.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load docqa.yaml: %w", err)
	}
	cfg.Prompts = overrides.Prompts
	cfg.Chunking = overrides.Chunking

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

// parseLogLevel converts a level name into a slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL: %s", level)
	}
}
