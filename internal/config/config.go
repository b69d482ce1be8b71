package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	domainErrors "github.com/thomas-vilte/diffmate/internal/errors"
)

type (
	Config struct {
		Language string         `toml:"language"`
		Primary  ProviderConfig `toml:"primary"`
		Fallback ProviderConfig `toml:"fallback"`

		GitHubToken string `toml:"github_token"`
		LogFile     string `toml:"log_file"`

		// PathFile is where the config was read from, empty when no file existed.
		PathFile string `toml:"-"`
	}

	ProviderConfig struct {
		APIKey  string `toml:"api_key"`
		Model   string `toml:"model"`
		BaseURL string `toml:"base_url,omitempty"`
	}
)

const (
	LangEN = "en"
	LangES = "es"

	defaultLang = LangEN

	configDirName  = ".diffmate"
	configFileName = "config.toml"
)

// Environment variables read by Load. The VITE_ names are accepted so an
// existing .env from the web version keeps working.
const (
	EnvConfigPath        = "DIFFMATE_CONFIG"
	EnvLanguage          = "DIFFMATE_LANG"
	EnvLogFile           = "DIFFMATE_LOG_FILE"
	EnvGeminiKey         = "GEMINI_API_KEY"
	EnvGeminiKeyVite     = "VITE_GEMINI_API_KEY"
	EnvGeminiModel       = "GEMINI_MODEL"
	EnvOpenRouterKey     = "OPENROUTER_API_KEY"
	EnvOpenRouterKeyVite = "VITE_OPENROUTER_API_KEY"
	EnvOpenRouterModel   = "OPENROUTER_MODEL"
	EnvOpenRouterURL     = "OPENROUTER_URL"
	EnvGitHubToken       = "GITHUB_TOKEN"
)

func SupportedLanguages() []string {
	return []string{LangEN, LangES}
}

// DefaultPath returns ~/.diffmate/config.toml, or the DIFFMATE_CONFIG override.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads the optional TOML file at path, applies environment overrides and
// fills defaults. It does not validate; call Validate before using secrets.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
			}
		} else {
			cfg.PathFile = path
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Language, EnvLanguage)
	setFromEnv(&cfg.LogFile, EnvLogFile)
	setFromEnv(&cfg.GitHubToken, EnvGitHubToken)

	setFromEnv(&cfg.Primary.APIKey, EnvGeminiKeyVite)
	setFromEnv(&cfg.Primary.APIKey, EnvGeminiKey)
	setFromEnv(&cfg.Primary.Model, EnvGeminiModel)

	setFromEnv(&cfg.Fallback.APIKey, EnvOpenRouterKeyVite)
	setFromEnv(&cfg.Fallback.APIKey, EnvOpenRouterKey)
	setFromEnv(&cfg.Fallback.Model, EnvOpenRouterModel)
	setFromEnv(&cfg.Fallback.BaseURL, EnvOpenRouterURL)
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = defaultLang
	}
	if cfg.Primary.Model == "" {
		cfg.Primary.Model = string(DefaultModelForAI(AIGemini))
	}
	if cfg.Fallback.Model == "" {
		cfg.Fallback.Model = string(DefaultModelForAI(AIOpenRouter))
	}
	if cfg.Fallback.BaseURL == "" {
		cfg.Fallback.BaseURL = DefaultOpenRouterURL
	}
}

// Validate is the startup check: a missing primary key is fatal, a missing
// fallback key is not.
func (c *Config) Validate() error {
	if c.Primary.APIKey == "" {
		return domainErrors.ErrPrimaryKeyMissing
	}

	for _, lang := range SupportedLanguages() {
		if c.Language == lang {
			return nil
		}
	}
	return domainErrors.ErrUnsupportedLanguage.WithContext("language", c.Language)
}

func (c *Config) HasFallback() bool {
	return c.Fallback.APIKey != ""
}
