package ai

import (
	"context"
)

// Generator sends a prompt to one AI provider and returns the generated text.
type Generator interface {
	// Name identifies the provider in logs and errors (e.g.: "gemini", "openrouter").
	Name() string

	// Generate makes a single attempt; implementations do not retry.
	Generate(ctx context.Context, prompt string) (string, error)
}
