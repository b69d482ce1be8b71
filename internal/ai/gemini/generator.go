package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/thomas-vilte/diffmate/internal/ai"
	"github.com/thomas-vilte/diffmate/internal/config"
	domainErrors "github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/logger"
	"google.golang.org/api/option"
)

var _ ai.Generator = (*Generator)(nil)

const providerName = "gemini"

type generateFunc func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)

// Generator is the primary provider, backed by the Gemini SDK.
type Generator struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	generateFn generateFunc
}

// NewGenerator fails with ErrPrimaryKeyMissing when apiKey is empty, before
// any SDK client is created.
func NewGenerator(ctx context.Context, apiKey, modelName string, opts ...option.ClientOption) (*Generator, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrPrimaryKeyMissing
	}
	if modelName == "" {
		modelName = string(config.DefaultModelForAI(config.AIGemini))
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "error creating Gemini client", err)
	}

	g := &Generator{
		client:    client,
		model:     client.GenerativeModel(modelName),
		modelName: modelName,
	}
	g.generateFn = g.defaultGenerate

	return g, nil
}

func (g *Generator) Name() string {
	return providerName
}

func (g *Generator) ModelName() string {
	return g.modelName
}

func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Generator) defaultGenerate(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	return g.model.GenerateContent(ctx, genai.Text(prompt))
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)

	log.Debug("calling gemini API",
		"model", g.modelName,
		"prompt_length", len(prompt))

	resp, err := g.generateFn(ctx, prompt)
	if err != nil {
		log.Debug("gemini API call failed",
			"error", err,
			"model", g.modelName)
		return "", classifyError(err)
	}

	text := formatResponse(resp)
	if strings.TrimSpace(text) == "" {
		return "", domainErrors.ErrParseResponse.
			WithContext("provider", providerName).
			WithError(fmt.Errorf("response from %s had no text parts", g.modelName))
	}

	return text, nil
}

func classifyError(err error) error {
	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "resource exhausted"):
		return domainErrors.ErrQuotaExceeded.WithContext("provider", providerName).WithError(err)
	case strings.Contains(errMsg, "api key not valid") ||
		strings.Contains(errMsg, "api_key_invalid") ||
		strings.Contains(errMsg, "unauthorized") ||
		strings.Contains(errMsg, "permission denied"):
		return domainErrors.ErrInvalidAPIKey.WithContext("provider", providerName).WithError(err)
	default:
		return domainErrors.ErrProviderRequest.WithContext("provider", providerName).WithError(err)
	}
}

// formatResponse concatenates the text parts of every candidate.
func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}
