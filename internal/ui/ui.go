package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/i18n"
	"golang.org/x/term"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)
)

const (
	SuccessMark = "✅"
	ErrorMark   = "❌"
	WarningMark = "⚠️"
	InfoMark    = "ℹ️"
	HintMark    = "💡"
)

// SmartSpinner shows the loading state while a request is outstanding.
type SmartSpinner struct {
	spinner *spinner.Spinner
}

// NewSmartSpinner creates a spinner that draws on w, normally os.Stderr so
// stdout stays clean for the generated message.
func NewSmartSpinner(w io.Writer, message string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithWriter(w),
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+message),
	)
	return &SmartSpinner{spinner: s}
}

func (s *SmartSpinner) Start() {
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Lock()
	s.spinner.Suffix = " " + msg
	s.spinner.Unlock()
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Success.Sprint(SuccessMark), Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint(ErrorMark), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Warning.Sprint(WarningMark), Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Info.Sprint(InfoMark), Info.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(w, "\n%s\n", separator)
	_, _ = fmt.Fprintf(w, "%s\n", Accent.Sprint(title))
	_, _ = fmt.Fprintf(w, "%s\n\n", separator)
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// HandleAppError prints err in a friendly way. A failure of both providers is
// shown per provider so the user can see each cause.
func HandleAppError(w io.Writer, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	_, _ = fmt.Fprintln(w)

	var genErr *domainErrors.GenerationError
	if errors.As(err, &genErr) {
		if t != nil {
			PrintError(w, t.GetMessage("generation_failed", 0, nil))
		}
		printCause(w, domainErrors.ProviderLabel("primary", genErr.PrimaryName), genErr.Primary, t)
		printCause(w, domainErrors.ProviderLabel("fallback", genErr.FallbackName), genErr.Fallback, t)
		return
	}

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		_, _ = Error.Fprintf(w, "%s %s: %s\n", ErrorMark, appErr.Type, appErr.Message)
		printDetails(w, appErr, t)
		return
	}

	PrintError(w, err.Error())
}

func printCause(w io.Writer, label string, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		_, _ = Error.Fprintf(w, "   %s: %v\n", label, err)
		return
	}

	_, _ = Error.Fprintf(w, "   %s: %s\n", label, appErr.Message)
	printDetails(w, appErr, t)
}

func printDetails(w io.Writer, appErr *domainErrors.AppError, t *i18n.Translations) {
	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "      %v\n", appErr.Err)
	}
	if stderr, ok := appErr.Context["stderr"].(string); ok && stderr != "" {
		_, _ = Dim.Fprintf(w, "      %s\n", stderr)
	}

	if appErr.Suggestion == "" {
		return
	}

	prefix := "Suggestion:"
	if t != nil {
		prefix = t.GetMessage("suggestion_prefix", 0, nil)
	}
	lines := strings.Split(appErr.Suggestion, "\n")
	_, _ = Info.Fprintf(w, "      %s %s ", HintMark, prefix)
	_, _ = fmt.Fprintln(w, lines[0])
	for _, line := range lines[1:] {
		_, _ = fmt.Fprintf(w, "         %s\n", line)
	}
}

// RenderMarkdown renders msg for the terminal. style is a glamour style name
// ("auto", "dark", "light", "notty").
func RenderMarkdown(msg string, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(msg)
}

// PrintCommitMessage writes the message to w. Markdown rendering is only used
// when pretty is true; otherwise the text is written byte for byte.
func PrintCommitMessage(w io.Writer, msg string, pretty bool) {
	if pretty {
		if rendered, err := RenderMarkdown(msg, "auto", 100); err == nil {
			_, _ = io.WriteString(w, rendered)
			return
		}
	}

	_, _ = io.WriteString(w, msg)
	if !strings.HasSuffix(msg, "\n") {
		_, _ = io.WriteString(w, "\n")
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
