package cmd

import (
	"context"
	"fmt"

	"lang_portal/config"
	"lang_portal/generator"
)

// buildLLM picks the client for cfg.LLM.Provider. groq and openai share the
// OpenAI-compatible client and differ only in base URL and key.
func buildLLM(ctx context.Context, cfg config.Config) (generator.LLMClient, error) {
	settings := cfg.LLMSettings()
	switch settings.Provider {
	case generator.ProviderGroq, generator.ProviderOpenAI:
		return generator.NewOpenAILLMFromConfig(settings)
	case generator.ProviderGemini:
		return generator.NewGeminiLLMFromConfig(ctx, settings)
	case generator.ProviderAnthropic:
		return generator.NewAnthropicLLMFromConfig(settings)
	case generator.ProviderMock:
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", settings.Provider)
	}
}

// buildGenerator builds the LLM client and the Generator around it.
func buildGenerator(ctx context.Context, cfg config.Config) (*generator.Generator, error) {
	llm, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	validation, err := generator.ParseValidation(cfg.Generator.Validation)
	if err != nil {
		return nil, err
	}
	return generator.New(llm,
		generator.WithModel(cfg.LLM.Model),
		generator.WithValidation(validation),
		generator.WithStripFence(cfg.Generator.StripFence),
		generator.WithTimeout(cfg.LLM.Timeout),
	)
}
