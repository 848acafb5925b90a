package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/deniskropp/gemini-repo-cli/internal/llm"
	"github.com/deniskropp/gemini-repo-cli/internal/llm/providers/gemini"
	"github.com/deniskropp/gemini-repo-cli/internal/llm/providers/ollama"
)

// Config describes the application configuration loaded from YAML and ENV.
type Config struct {
	Provider   string           `mapstructure:"provider"`
	Model      string           `mapstructure:"model"`
	Generation GenerationConfig `mapstructure:"generation"`
	Ollama     OllamaConfig     `mapstructure:"ollama"`
	Prompt     PromptConfig     `mapstructure:"prompt"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// OllamaConfig holds settings for the Ollama backend.
type OllamaConfig struct {
	Model string `mapstructure:"model"`
	Host  string `mapstructure:"host"` // empty falls back to OLLAMA_HOST, then the local default
}

// GenerationConfig holds the fixed generation parameters sent with every
// request. Not mutated after client construction.
type GenerationConfig struct {
	CandidateCount  int     `mapstructure:"candidate_count"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
}

// PromptConfig controls optional prompt diagnostics.
type PromptConfig struct {
	// DumpPath, when set, receives a copy of each assembled prompt.
	// Diagnostic only; empty disables the dump.
	DumpPath string `mapstructure:"dump_path"`
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// Load reads configuration from the provided path or defaults to
// configs/config.yaml. A missing file is not an error when no explicit path
// was given; defaults apply. Environment variables override file values
// (prefix: GEMINI_REPO_, dots replaced with underscores).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GEMINI_REPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates sensible defaults for optional fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "gemini")
	v.SetDefault("model", gemini.DefaultModel)

	v.SetDefault("ollama.model", ollama.DefaultModel)
	v.SetDefault("ollama.host", "")

	v.SetDefault("generation.candidate_count", 1)
	v.SetDefault("generation.temperature", 0.2)
	v.SetDefault("generation.max_output_tokens", 8192)

	v.SetDefault("prompt.dump_path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case "", "gemini", "ollama":
	default:
		return fmt.Errorf("provider must be gemini or ollama, got %q", c.Provider)
	}

	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model must not be empty")
	}

	if c.Generation.CandidateCount != 1 {
		return fmt.Errorf("generation.candidate_count must be 1, got %d", c.Generation.CandidateCount)
	}

	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be within [0,2], got %v", c.Generation.Temperature)
	}

	if c.Generation.MaxOutputTokens <= 0 {
		return errors.New("generation.max_output_tokens must be > 0")
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// GenerateConfig converts the generation section into the provider-facing
// parameter struct.
func (c *Config) GenerateConfig() llm.GenerateConfig {
	return llm.GenerateConfig{
		CandidateCount:  c.Generation.CandidateCount,
		Temperature:     float32(c.Generation.Temperature),
		MaxOutputTokens: int32(c.Generation.MaxOutputTokens),
	}
}
