package errors

import (
	"fmt"
	"strings"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeProvider      ErrorType = "PROVIDER"
	TypeParse         ErrorType = "PARSE"
	TypeInput         ErrorType = "INPUT"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel this error was derived from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// GenerationError is returned when every provider failed for a single request.
type GenerationError struct {
	PrimaryName  string
	Primary      error
	FallbackName string
	Fallback     error
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("all providers failed: ")
	fmt.Fprintf(&b, "%s: %v", ProviderLabel("primary", e.PrimaryName), e.Primary)
	fmt.Fprintf(&b, "; %s: %v", ProviderLabel("fallback", e.FallbackName), e.Fallback)
	return b.String()
}

// ProviderLabel formats a provider role for messages, e.g. "primary (gemini)".
// An empty name leaves only the role.
func ProviderLabel(role, name string) string {
	if name == "" {
		return role
	}
	return role + " (" + name + ")"
}

func (e *GenerationError) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}

// Configuration errors
var (
	ErrPrimaryKeyMissing = NewAppError(TypeConfiguration, "Gemini API key is missing", nil).
				WithSuggestion("Set GEMINI_API_KEY in your environment or .env file")

	ErrFallbackNotConfigured = NewAppError(TypeConfiguration, "fallback service is not configured", nil).
					WithSuggestion("Set OPENROUTER_API_KEY to enable the OpenRouter fallback")

	ErrUnsupportedLanguage = NewAppError(TypeConfiguration, "language not supported", nil).
				WithSuggestion("Supported languages: en, es")
)

// Provider errors
var (
	ErrProviderRequest = NewAppError(TypeProvider, "failed to communicate with the AI model", nil).
				WithSuggestion("Check your network connection and try again")

	ErrProviderStatus = NewAppError(TypeProvider, "AI provider returned an error status", nil).
				WithSuggestion("Check your API key and the provider status page")

	ErrQuotaExceeded = NewAppError(TypeProvider, "AI quota exceeded or rate limited", nil).
				WithSuggestion("Wait a few minutes and try again, or check your API quota")

	ErrInvalidAPIKey = NewAppError(TypeProvider, "AI provider rejected the API key", nil).
				WithSuggestion("Get a valid API key at: https://aistudio.google.com/app/apikey")
)

// Parse errors
var (
	ErrParseResponse = NewAppError(TypeParse, "AI response did not contain generated text", nil).
		WithSuggestion("This is likely a temporary issue, please try again")
)

// Input errors
var (
	ErrEmptyDiff = NewAppError(TypeInput, "diff is empty", nil).
			WithSuggestion("Pipe a diff on stdin, e.g.: git diff | diffmate")

	ErrReadInput = NewAppError(TypeInput, "failed to read diff input", nil)

	ErrMultipleInputs = NewAppError(TypeInput, "more than one diff source given", nil).
				WithSuggestion("Use only one of --file, --staged, --pr or --old/--new")

	ErrIncompleteComparison = NewAppError(TypeInput, "--old and --new must be used together", nil).
				WithSuggestion("Example: diffmate --old before.go --new after.go")

	ErrGitDiff = NewAppError(TypeInput, "failed to get staged diff", nil).
			WithSuggestion("Make sure you are inside a git repository: git status")

	ErrInvalidPRRef = NewAppError(TypeInput, "invalid pull request reference", nil).
			WithSuggestion("Use the form owner/repo#123")

	ErrPRDiff = NewAppError(TypeInput, "failed to fetch pull request diff", nil).
			WithSuggestion("Check the PR exists and GITHUB_TOKEN can read the repository")
)
