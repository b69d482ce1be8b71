package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/thomas-vilte/diffmate/internal/ai"
	"github.com/thomas-vilte/diffmate/internal/ai/gemini"
	"github.com/thomas-vilte/diffmate/internal/ai/openrouter"
	"github.com/thomas-vilte/diffmate/internal/commands/doctor"
	"github.com/thomas-vilte/diffmate/internal/commands/generate"
	"github.com/thomas-vilte/diffmate/internal/config"
	"github.com/thomas-vilte/diffmate/internal/git"
	"github.com/thomas-vilte/diffmate/internal/i18n"
	"github.com/thomas-vilte/diffmate/internal/logger"
	"github.com/thomas-vilte/diffmate/internal/ui"
	"github.com/thomas-vilte/diffmate/internal/vcs/github"
	"github.com/thomas-vilte/diffmate/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is fine; real environment variables win.
	_ = godotenv.Load()

	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		return 1
	}

	closer := logger.Initialize(logger.Options{
		Debug:   hasFlag(os.Args[1:], "debug"),
		Verbose: hasFlag(os.Args[1:], "verbose"),
		File:    cfg.LogFile,
	})
	defer func() { _ = closer.Close() }()

	ctx := context.Background()

	translations, err := i18n.NewTranslations(cfg.Language, "")
	if err != nil {
		ui.HandleAppError(os.Stderr, err, nil)
		return 1
	}

	providers := newProviderSet(cfg, translations)
	defer providers.Close()

	app := newApp(cfg, translations, providers)
	if err := app.Run(ctx, os.Args); err != nil {
		logger.Debug(ctx, "command failed", "error", err)
		return 1
	}
	return 0
}

// loadConfig runs before the logger exists, so problems are reported
// straight to w.
func loadConfig(w io.Writer) (*config.Config, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		ui.PrintWarning(w, err.Error())
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		ui.HandleAppError(w, err, nil)
		return nil, err
	}
	return cfg, nil
}

func newApp(cfg *config.Config, t *i18n.Translations, providers *providerSet) *cli.Command {
	gitService := git.NewGitService("")
	githubClient := github.NewGitHubClient(cfg.GitHubToken)

	generateFactory := generate.NewGenerateCommandFactory(providers.Orchestrator, gitService, githubClient, generate.StdStreams())

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   t.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}

	globalFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: t.GetMessage("debug_flag_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: t.GetMessage("verbose_flag_usage", 0, nil),
		},
	}

	return &cli.Command{
		Name:        "diffmate",
		Usage:       t.GetMessage("app_usage", 0, nil),
		Version:     version.FullVersion(),
		Description: t.GetMessage("app_description", 0, nil),
		Flags:       append(globalFlags, generateFactory.CreateFlags(t)...),
		Action:      generateFactory.CreateAction(t),
		Commands: []*cli.Command{
			generateFactory.CreateCommand(t),
			doctor.NewDoctorCommand(os.Stdout, gitService).CreateCommand(t, cfg),
			helpCommand,
		},
	}
}

// providerSet builds the generator chain once, on first use.
type providerSet struct {
	cfg          *config.Config
	translations *i18n.Translations

	once         sync.Once
	orchestrator *ai.Orchestrator
	primary      *gemini.Generator
	err          error
}

func newProviderSet(cfg *config.Config, t *i18n.Translations) *providerSet {
	return &providerSet{cfg: cfg, translations: t}
}

// Orchestrator validates the configuration before any request is made; a
// missing primary key stops the run here.
func (p *providerSet) Orchestrator(ctx context.Context) (generate.CommitGenerator, error) {
	p.once.Do(func() {
		if err := p.cfg.Validate(); err != nil {
			p.err = err
			return
		}

		primary, err := gemini.NewGenerator(ctx, p.cfg.Primary.APIKey, p.cfg.Primary.Model)
		if err != nil {
			p.err = err
			return
		}
		p.primary = primary

		fallback := openrouter.NewGenerator(p.cfg.Fallback.APIKey,
			openrouter.WithModel(p.cfg.Fallback.Model),
			openrouter.WithBaseURL(p.cfg.Fallback.BaseURL))
		if !fallback.Configured() {
			ui.PrintWarning(os.Stderr, p.translations.GetMessage("fallback_disabled_warning", 0, nil))
		}

		logger.Debug(ctx, "providers ready",
			"primary_model", primary.ModelName(),
			"fallback_model", fallback.ModelName(),
			"fallback_configured", fallback.Configured())

		p.orchestrator = ai.NewOrchestrator(primary, fallback)
	})

	if p.err != nil {
		return nil, p.err
	}
	return p.orchestrator, nil
}

func (p *providerSet) Close() {
	if p.primary == nil {
		return
	}
	if err := p.primary.Close(); err != nil {
		ui.PrintWarning(os.Stderr, fmt.Sprintf("closing Gemini client: %v", err))
	}
}

// hasFlag reports whether a boolean flag appears before the args terminator.
func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-" + name, "--" + name, "--" + name + "=true", "-" + name + "=true":
			return true
		}
	}
	return false
}
