package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompts holds the prompt templates used when composing LLM requests.
// ContextEntry is a fmt template with positional arguments: index, source,
// content. UserMessage frames the assembled context and the question.
type Prompts struct {
	System       string `yaml:"system"`
	ContextEntry string `yaml:"context_entry"`
	UserMessage  string `yaml:"user_message"`
	Standalone   string `yaml:"standalone"`
}

// Chunking configures how extracted text is split into windows before embedding.
type Chunking struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
	MinSize int `yaml:"min_size"`
}

// FileConfig is the root structure of the optional docqa.yaml file.
type FileConfig struct {
	Prompts  Prompts  `yaml:"prompts"`
	Chunking Chunking `yaml:"chunking"`
}

// LoadFile reads prompt and chunking overrides from the given path.
// If the file does not exist, defaults are returned.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultFileConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyFileDefaults(&cfg)
	if err := validateFileConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPrompts returns the built-in prompt templates.
func DefaultPrompts() Prompts {
	return defaultFileConfig().Prompts
}

func defaultFileConfig() *FileConfig {
	cfg := &FileConfig{}
	applyFileDefaults(cfg)
	return cfg
}

func applyFileDefaults(cfg *FileConfig) {
	if cfg.Prompts.System == "" {
		cfg.Prompts.System = `Answer using the provided context. Say "I don't know" if the context doesn't contain the answer. Be concise.`
	}
	if cfg.Prompts.ContextEntry == "" {
		cfg.Prompts.ContextEntry = "[%d] %s:\n%s\n"
	}
	if cfg.Prompts.UserMessage == "" {
		cfg.Prompts.UserMessage = "Context:\n%s\nQuestion: %s"
	}
	if cfg.Prompts.Standalone == "" {
		cfg.Prompts.Standalone = "Answer this question: %s"
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 600
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 100
	}
	if cfg.Chunking.MinSize == 0 {
		cfg.Chunking.MinSize = 50
	}
}

func validateFileConfig(cfg *FileConfig) error {
	if cfg.Chunking.Size < 0 || cfg.Chunking.Overlap < 0 || cfg.Chunking.MinSize < 0 {
		return fmt.Errorf("chunking parameters must be non-negative")
	}
	if cfg.Chunking.Overlap >= cfg.Chunking.Size {
		return fmt.Errorf("chunking overlap (%d) must be smaller than size (%d)", cfg.Chunking.Overlap, cfg.Chunking.Size)
	}
	return nil
}
