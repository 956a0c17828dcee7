package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// setRequiredEnv sets the variables without which Load fails, pointing the
// data directory into a temp dir.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("QDRANT_VECTOR_SIZE", "768")
	t.Setenv("DB_PATH", filepath.Join(tmpDir, "data", "test.db"))
	t.Setenv("DOCUMENTS_PATH", tmpDir)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AnthropicModel != "claude-3-haiku-20240307" {
		t.Errorf("AnthropicModel = %v, want claude-3-haiku-20240307", cfg.AnthropicModel)
	}
	if cfg.AnthropicBaseURL != "https://api.anthropic.com" {
		t.Errorf("AnthropicBaseURL = %v", cfg.AnthropicBaseURL)
	}
	if cfg.MaxTokens != 800 {
		t.Errorf("MaxTokens = %v, want 800", cfg.MaxTokens)
	}
	if cfg.MaxTokensComplex != 1200 {
		t.Errorf("MaxTokensComplex = %v, want 1200", cfg.MaxTokensComplex)
	}
	if cfg.SearchK != 3 {
		t.Errorf("SearchK = %v, want 3", cfg.SearchK)
	}
	if cfg.SearchKComplex != 5 {
		t.Errorf("SearchKComplex = %v, want 5", cfg.SearchKComplex)
	}
	if cfg.MaxResults != 8 {
		t.Errorf("MaxResults = %v, want 8", cfg.MaxResults)
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("Temperature = %v, want 0.1", cfg.Temperature)
	}
	if cfg.QdrantVectorSize != 768 {
		t.Errorf("QdrantVectorSize = %v, want 768", cfg.QdrantVectorSize)
	}
	if cfg.QdrantCollection != "documents" {
		t.Errorf("QdrantCollection = %v, want documents", cfg.QdrantCollection)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Prompts.System == "" {
		t.Error("Prompts.System should have a default")
	}
	if cfg.Chunking.Size != 600 {
		t.Errorf("Chunking.Size = %v, want 600", cfg.Chunking.Size)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without ANTHROPIC_API_KEY")
	}
}

func TestLoad_VectorSize(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "1024", wantErr: false},
		{name: "missing", value: "", wantErr: true},
		{name: "not a number", value: "abc", wantErr: true},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("QDRANT_VECTOR_SIZE", tt.value)

			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidInt(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_TOKENS", "lots")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail with non-numeric MAX_TOKENS")
	}
}

func TestLoad_CreatesDataDir(t *testing.T) {
	setRequiredEnv(t)
	dbPath := filepath.Join(t.TempDir(), "nested", "deep", "test.db")
	t.Setenv("DB_PATH", dbPath)

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("data directory was not created: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "WARN", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
