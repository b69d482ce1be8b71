package ui

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/i18n"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestPrinters(t *testing.T) {
	var buf bytes.Buffer

	PrintSuccess(&buf, "done")
	PrintError(&buf, "failed")
	PrintWarning(&buf, "careful")
	PrintInfo(&buf, "fyi")
	PrintKeyValue(&buf, "model", "gemini-2.5-pro")

	out := buf.String()
	assert.Contains(t, out, SuccessMark+" done\n")
	assert.Contains(t, out, ErrorMark+" failed\n")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "fyi")
	assert.Contains(t, out, "   model: gemini-2.5-pro\n")
}

func TestHandleAppError(t *testing.T) {
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("app error with details and suggestion", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, domainErrors.ErrProviderRequest.WithError(errors.New("connection reset")), trans)

		out := buf.String()
		assert.Contains(t, out, "PROVIDER: failed to communicate with the AI model")
		assert.Contains(t, out, "connection reset")
		assert.Contains(t, out, "Suggestion: Check your network connection and try again")
	})

	t.Run("generation error lists both providers", func(t *testing.T) {
		var buf bytes.Buffer
		err := &domainErrors.GenerationError{
			PrimaryName:  "gemini",
			Primary:      domainErrors.ErrQuotaExceeded.WithError(errors.New("429")),
			FallbackName: "openrouter",
			Fallback:     domainErrors.ErrFallbackNotConfigured,
		}

		HandleAppError(&buf, err, trans)

		out := buf.String()
		assert.Contains(t, out, "Failed to generate commit message. Please try again.")
		assert.Contains(t, out, "primary (gemini): AI quota exceeded or rate limited")
		assert.Contains(t, out, "429")
		assert.Contains(t, out, "fallback (openrouter): fallback service is not configured")
		assert.Contains(t, out, "OPENROUTER_API_KEY")
	})

	t.Run("generation error without a fallback name", func(t *testing.T) {
		var buf bytes.Buffer
		err := &domainErrors.GenerationError{
			PrimaryName: "gemini",
			Primary:     errors.New("down"),
			Fallback:    domainErrors.ErrFallbackNotConfigured,
		}

		HandleAppError(&buf, err, trans)

		assert.Contains(t, buf.String(), "   fallback: fallback service is not configured")
		assert.NotContains(t, buf.String(), "fallback (")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"), nil)

		assert.Contains(t, buf.String(), ErrorMark+" boom")
	})

	t.Run("nil error prints nothing", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, nil, trans)

		assert.Empty(t, buf.String())
	})
}

func TestPrintCommitMessage(t *testing.T) {
	t.Run("plain output is unchanged", func(t *testing.T) {
		var buf bytes.Buffer

		PrintCommitMessage(&buf, "feat: update foo\n- remove bar", false)

		assert.Equal(t, "feat: update foo\n- remove bar\n", buf.String())
	})

	t.Run("does not add a second newline", func(t *testing.T) {
		var buf bytes.Buffer

		PrintCommitMessage(&buf, "fix: x\n", false)

		assert.Equal(t, "fix: x\n", buf.String())
	})
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("feat: update foo\n\n- remove bar", "notty", 80)

	require.NoError(t, err)
	assert.Contains(t, out, "feat: update foo")
	assert.Contains(t, out, "remove bar")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
