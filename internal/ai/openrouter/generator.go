package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/thomas-vilte/diffmate/internal/ai"
	"github.com/thomas-vilte/diffmate/internal/config"
	domainErrors "github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/httpclient"
	"github.com/thomas-vilte/diffmate/internal/logger"
)

var _ ai.Generator = (*Generator)(nil)

const providerName = "openrouter"

type (
	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	chatRequest struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}

	chatResponse struct {
		Choices []struct {
			Message *chatMessage `json:"message"`
		} `json:"choices"`
	}

	errorResponse struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
)

// Generator is the fallback provider: an OpenRouter chat-completions call.
type Generator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient httpclient.HTTPClient
}

type Option func(*Generator)

func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

func WithBaseURL(url string) Option {
	return func(g *Generator) {
		if url != "" {
			g.baseURL = url
		}
	}
}

func WithHTTPClient(client httpclient.HTTPClient) Option {
	return func(g *Generator) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// NewGenerator never fails. Without an apiKey every Generate call returns
// ErrFallbackNotConfigured and no request is sent.
func NewGenerator(apiKey string, opts ...Option) *Generator {
	g := &Generator{
		apiKey:     apiKey,
		model:      string(config.DefaultModelForAI(config.AIOpenRouter)),
		baseURL:    config.DefaultOpenRouterURL,
		httpClient: httpclient.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Name() string {
	return providerName
}

func (g *Generator) ModelName() string {
	return g.model
}

func (g *Generator) Configured() bool {
	return g.apiKey != ""
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", domainErrors.ErrFallbackNotConfigured
	}

	log := logger.FromContext(ctx)

	body, err := json.Marshal(chatRequest{
		Model:    g.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", domainErrors.ErrProviderRequest.WithContext("provider", providerName).WithError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", domainErrors.ErrProviderRequest.WithContext("provider", providerName).WithError(err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debug("calling openrouter API",
		"model", g.model,
		"url", g.baseURL,
		"prompt_length", len(prompt))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", domainErrors.ErrProviderRequest.
			WithContext("provider", providerName).
			WithError(fmt.Errorf("failed to communicate with the OpenRouter model: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domainErrors.ErrProviderRequest.WithContext("provider", providerName).WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug("openrouter returned an error status", "status", resp.StatusCode)
		return "", domainErrors.ErrProviderStatus.
			WithContext("provider", providerName).
			WithContext("status", resp.StatusCode).
			WithError(fmt.Errorf("OpenRouter API error (%d): %s", resp.StatusCode, errorMessage(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", domainErrors.ErrParseResponse.WithContext("provider", providerName).WithError(err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil ||
		strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", domainErrors.ErrParseResponse.
			WithContext("provider", providerName).
			WithError(fmt.Errorf("response has no choices[0].message.content"))
	}

	return parsed.Choices[0].Message.Content, nil
}

// errorMessage extracts error.message from a failed response body.
func errorMessage(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == nil || parsed.Error.Message == "" {
		return "Unknown error"
	}
	return parsed.Error.Message
}
