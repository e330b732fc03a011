package llm

import "context"

// Generator turns a system instruction and a user prompt into text.
type Generator interface {
	Generate(ctx context.Context, instructions, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, instructions, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, instructions, prompt string) (string, error) {
	return f(ctx, instructions, prompt)
}
