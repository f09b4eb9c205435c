package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lang_portal/generator"
)

// Config is the full runtime configuration of lang_portal.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	HistorySize int    `mapstructure:"history_size"`
}

// LLMConfig selects and configures the hosted text-generation service.
type LLMConfig struct {
	Provider  string        `mapstructure:"provider"`
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int64         `mapstructure:"max_tokens"`
}

type GeneratorConfig struct {
	Validation string `mapstructure:"validation"`
	StripFence bool   `mapstructure:"strip_fence"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// providerDefaults holds the model, base URL and key env var used when the
// config leaves them empty.
var providerDefaults = map[string]struct {
	model   string
	baseURL string
	keyEnv  string
}{
	generator.ProviderGroq:      {model: "llama-3.3-70b-versatile", baseURL: generator.DefaultGroqBaseURL, keyEnv: "GROQ_API_KEY"},
	generator.ProviderOpenAI:    {model: "gpt-4o-mini", keyEnv: "OPENAI_API_KEY"},
	generator.ProviderGemini:    {model: "gemini-2.0-flash", keyEnv: "GEMINI_API_KEY"},
	generator.ProviderAnthropic: {model: "claude-3-5-haiku-latest", keyEnv: "ANTHROPIC_API_KEY"},
	generator.ProviderMock:      {model: "mock"},
}

// SetDefaults registers every key with its default so AutomaticEnv can
// resolve it and Unmarshal sees it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.history_size", 100)
	v.SetDefault("llm.provider", generator.ProviderGroq)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("generator.validation", string(generator.ValidationOff))
	v.SetDefault("generator.strip_fence", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// Load builds a Config from v, fills provider-specific defaults and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if d, ok := providerDefaults[c.LLM.Provider]; ok {
		if c.LLM.Model == "" {
			c.LLM.Model = d.model
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = d.baseURL
		}
		if c.LLM.APIKey == "" && d.keyEnv != "" {
			c.LLM.APIKey = os.Getenv(d.keyEnv)
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return c, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.HistorySize < 1 {
		errs = append(errs, fmt.Errorf("server.history_size must be positive, got %d", c.Server.HistorySize))
	}

	d, ok := providerDefaults[c.LLM.Provider]
	if !ok {
		errs = append(errs, fmt.Errorf("llm.provider %q not supported", c.LLM.Provider))
	} else if d.keyEnv != "" && c.LLM.APIKey == "" {
		errs = append(errs, fmt.Errorf("llm.api_key or %s is required for provider %s", d.keyEnv, c.LLM.Provider))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, errors.New("llm.timeout must not be negative"))
	}
	if _, err := generator.ParseValidation(c.Generator.Validation); err != nil {
		errs = append(errs, fmt.Errorf("generator.validation: %w", err))
	}

	return errors.Join(errs...)
}

// LLMSettings converts the LLM section for generator constructors.
func (c Config) LLMSettings() *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider:  c.LLM.Provider,
		Model:     c.LLM.Model,
		APIKey:    c.LLM.APIKey,
		BaseURL:   c.LLM.BaseURL,
		MaxTokens: c.LLM.MaxTokens,
	}
}
