package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/diffmate/internal/errors"
)

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func newStubGenerator(fn generateFunc) *Generator {
	return &Generator{modelName: "gemini-2.5-pro", generateFn: fn}
}

func TestNewGenerator(t *testing.T) {
	t.Run("empty API key fails before creating a client", func(t *testing.T) {
		// act
		g, err := NewGenerator(context.Background(), "", "")

		// assert
		assert.Nil(t, g)
		assert.ErrorIs(t, err, domainErrors.ErrPrimaryKeyMissing)
		assert.Contains(t, err.Error(), "API key is missing")
	})

	t.Run("defaults the model name", func(t *testing.T) {
		// act
		g, err := NewGenerator(context.Background(), "test-api-key", "")

		// assert
		require.NoError(t, err)
		defer g.Close()
		assert.Equal(t, "gemini-2.5-pro", g.ModelName())
		assert.Equal(t, "gemini", g.Name())
	})

	t.Run("keeps an explicit model name", func(t *testing.T) {
		g, err := NewGenerator(context.Background(), "test-api-key", "gemini-2.5-flash")

		require.NoError(t, err)
		defer g.Close()
		assert.Equal(t, "gemini-2.5-flash", g.ModelName())
	})
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("returns the text of the response", func(t *testing.T) {
		// arrange
		var gotPrompt string
		g := newStubGenerator(func(_ context.Context, prompt string) (*genai.GenerateContentResponse, error) {
			gotPrompt = prompt
			return textResponse("feat: update foo\n- remove bar"), nil
		})

		// act
		msg, err := g.Generate(context.Background(), "the prompt")

		// assert
		require.NoError(t, err)
		assert.Equal(t, "feat: update foo\n- remove bar", msg)
		assert.Equal(t, "the prompt", gotPrompt)
	})

	t.Run("joins multiple text parts", func(t *testing.T) {
		g := newStubGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
			return textResponse("feat: a", "\n- b"), nil
		})

		msg, err := g.Generate(context.Background(), "p")

		require.NoError(t, err)
		assert.Equal(t, "feat: a\n- b", msg)
	})

	t.Run("empty response is a parse error", func(t *testing.T) {
		g := newStubGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		})

		msg, err := g.Generate(context.Background(), "p")

		assert.Empty(t, msg)
		assert.ErrorIs(t, err, domainErrors.ErrParseResponse)
	})

	t.Run("calls the SDK exactly once on failure", func(t *testing.T) {
		calls := 0
		g := newStubGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
			calls++
			return nil, errors.New("dial tcp: connection refused")
		})

		_, err := g.Generate(context.Background(), "p")

		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, domainErrors.ErrProviderRequest)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *domainErrors.AppError
	}{
		{"quota", errors.New("googleapi: Error 429: Resource exhausted"), domainErrors.ErrQuotaExceeded},
		{"invalid key", errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key."), domainErrors.ErrInvalidAPIKey},
		{"network", errors.New("context deadline exceeded"), domainErrors.ErrProviderRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.err)

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFormatResponse(t *testing.T) {
	assert.Empty(t, formatResponse(nil))
	assert.Empty(t, formatResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))
	assert.Equal(t, "ab", formatResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Blob{MIMEType: "image/png"}}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("b")}}},
		},
	}))
}
