package doctor

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/diffmate/internal/config"
	"github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/i18n"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type stubGit struct {
	staged bool
}

func (s stubGit) HasStagedChanges(ctx context.Context) bool {
	return s.staged
}

func newConfig() *config.Config {
	return &config.Config{
		Language: "en",
		Primary:  config.ProviderConfig{APIKey: "gemini-key", Model: "gemini-2.5-pro"},
		Fallback: config.ProviderConfig{Model: "tngtech/deepseek-r1t2-chimera:free"},
	}
}

func TestDoctorCommand(t *testing.T) {
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("reports configured and missing credentials", func(t *testing.T) {
		var out bytes.Buffer
		cfg := newConfig()
		cmd := NewDoctorCommand(&out, stubGit{}).CreateCommand(translations, cfg)

		err := cmd.Run(context.Background(), []string{"doctor"})

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Primary provider (Gemini, gemini-2.5-pro): configured")
		assert.Contains(t, out.String(), "Fallback provider (OpenRouter, tngtech/deepseek-r1t2-chimera:free): not configured")
		assert.Contains(t, out.String(), "GitHub token (for --pr): not configured")
		assert.Contains(t, out.String(), "none (using environment)")
		assert.Contains(t, out.String(), "Staged changes: nothing staged")
	})

	t.Run("shows the config file in use", func(t *testing.T) {
		var out bytes.Buffer
		cfg := newConfig()
		cfg.PathFile = "/home/user/.diffmate/config.toml"
		cfg.GitHubToken = "ghp_token"

		err := NewDoctorCommand(&out, stubGit{staged: true}).CreateCommand(translations, cfg).Run(context.Background(), []string{"doctor"})

		require.NoError(t, err)
		assert.Contains(t, out.String(), "/home/user/.diffmate/config.toml")
		assert.Contains(t, out.String(), "GitHub token (for --pr): configured")
		assert.Contains(t, out.String(), "Staged changes: found")
	})

	t.Run("fails when the primary key is missing", func(t *testing.T) {
		var out bytes.Buffer
		cfg := newConfig()
		cfg.Primary.APIKey = ""

		err := NewDoctorCommand(&out, stubGit{}).CreateCommand(translations, cfg).Run(context.Background(), []string{"doctor"})

		assert.ErrorIs(t, err, errors.ErrPrimaryKeyMissing)
		assert.Contains(t, out.String(), "GEMINI_API_KEY")
	})

	t.Run("never prints secrets", func(t *testing.T) {
		var out bytes.Buffer
		cfg := newConfig()
		cfg.Fallback.APIKey = "sk-or-secret"

		err := NewDoctorCommand(&out, stubGit{}).CreateCommand(translations, cfg).Run(context.Background(), []string{"doctor"})

		require.NoError(t, err)
		assert.NotContains(t, out.String(), "gemini-key")
		assert.NotContains(t, out.String(), "sk-or-secret")
	})
}
