package ai

import (
	"context"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/logger"
)

// Orchestrator asks the primary generator first and the fallback only after
// the primary has failed. Each generator gets exactly one attempt.
type Orchestrator struct {
	primary  Generator
	fallback Generator
}

// NewOrchestrator wires the two providers. fallback may be nil, which behaves
// like a fallback without credentials.
func NewOrchestrator(primary, fallback Generator) *Orchestrator {
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateCommitMessage builds the prompt for diff and returns the commit
// message from whichever provider answered.
func (o *Orchestrator) GenerateCommitMessage(ctx context.Context, diff string) (string, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(diff) == "" {
		return "", domainErrors.ErrEmptyDiff
	}

	prompt := BuildCommitPrompt(diff)

	log.Info("generating commit message",
		"provider", o.primary.Name(),
		"diff_length", len(diff))

	start := time.Now()
	message, primaryErr := o.primary.Generate(ctx, prompt)
	if primaryErr == nil {
		log.Info("commit message generated",
			"provider", o.primary.Name(),
			"duration_ms", time.Since(start).Milliseconds())
		return message, nil
	}

	log.Warn("primary provider failed, trying fallback",
		"provider", o.primary.Name(),
		"error", primaryErr)

	var fallbackName string
	var fallbackErr error
	if o.fallback == nil {
		fallbackErr = domainErrors.ErrFallbackNotConfigured
	} else {
		fallbackName = o.fallback.Name()
		start = time.Now()
		message, fallbackErr = o.fallback.Generate(ctx, prompt)
		if fallbackErr == nil {
			log.Info("commit message generated by fallback",
				"provider", fallbackName,
				"duration_ms", time.Since(start).Milliseconds())
			return message, nil
		}
	}

	log.Error("fallback provider failed",
		"provider", fallbackName,
		"error", fallbackErr)

	return "", &domainErrors.GenerationError{
		PrimaryName:  o.primary.Name(),
		Primary:      primaryErr,
		FallbackName: fallbackName,
		Fallback:     fallbackErr,
	}
}
