package generator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Generator builds the vocabulary prompt, calls the model once and parses
// the reply.
type Generator struct {
	llm        LLMClient
	model      string
	parse      ParseOptions
	timeout    time.Duration
}

// Option customizes a Generator.
type Option func(*Generator)

// WithValidation sets the output validation mode.
func WithValidation(v Validation) Option {
	return func(g *Generator) { g.parse.Validation = v }
}

// WithStripFence enables removal of one markdown code fence around the reply.
func WithStripFence(on bool) Option {
	return func(g *Generator) { g.parse.StripFence = on }
}

// WithTimeout bounds the model call; zero means no bound beyond ctx.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithModel records the model name reported in results.
func WithModel(model string) Option {
	return func(g *Generator) { g.model = model }
}

func New(llm LLMClient, opts ...Option) (*Generator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	g := &Generator{llm: llm, parse: ParseOptions{Validation: ValidationOff}}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate performs one generation for category. Every failure wraps one of
// ErrUpstream, ErrInvalidJSON or ErrInvalidShape.
func (g *Generator) Generate(ctx context.Context, category string) (Result, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.llm.Complete(ctx, BuildVocabularyPrompt(category))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	body, items, err := PostProcess(raw, g.parse)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Category: category,
		Model:    g.model,
		Raw:      body,
		Items:    items,
	}, nil
}
