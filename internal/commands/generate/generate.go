package generate

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/thomas-vilte/diffmate/internal/diffsource"
	"github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/i18n"
	"github.com/thomas-vilte/diffmate/internal/logger"
	"github.com/thomas-vilte/diffmate/internal/ui"
	"github.com/thomas-vilte/diffmate/internal/vcs/github"
	"github.com/urfave/cli/v3"
)

type CommitGenerator interface {
	GenerateCommitMessage(ctx context.Context, diff string) (string, error)
}

// GeneratorProvider builds the generator when generate runs, so other
// commands do not need API keys.
type GeneratorProvider func(ctx context.Context) (CommitGenerator, error)

type stagedDiffReader interface {
	GetStagedDiff(ctx context.Context) (string, error)
}

type prDiffFetcher interface {
	GetPRDiff(ctx context.Context, ref github.PRRef) (string, error)
}

// Streams holds the process streams the command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type GenerateCommandFactory struct {
	generatorProvider GeneratorProvider
	gitService        stagedDiffReader
	prService         prDiffFetcher
	streams           Streams
	isTerminal        func(io.Writer) bool
}

func NewGenerateCommandFactory(provider GeneratorProvider, gitSvc stagedDiffReader, prSvc prDiffFetcher, streams Streams) *GenerateCommandFactory {
	return &GenerateCommandFactory{
		generatorProvider: provider,
		gitService:        gitSvc,
		prService:         prSvc,
		streams:           streams,
		isTerminal:        ui.IsTerminal,
	}
}

func (f *GenerateCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:        "generate",
		Aliases:     []string{"g"},
		Usage:       t.GetMessage("generate_command_usage", 0, nil),
		Description: t.GetMessage("generate_command_description", 0, nil),
		Flags:       f.CreateFlags(t),
		Action:      f.CreateAction(t),
	}
}

// CreateFlags returns a fresh flag set; the root command reuses it to make
// generate the default action.
func (f *GenerateCommandFactory) CreateFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   t.GetMessage("file_flag_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "staged",
			Aliases: []string{"s"},
			Usage:   t.GetMessage("staged_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  "pr",
			Usage: t.GetMessage("pr_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  "old",
			Usage: t.GetMessage("old_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  "new",
			Usage: t.GetMessage("new_flag_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: t.GetMessage("raw_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:    "lang",
			Aliases: []string{"l"},
			Usage:   t.GetMessage("lang_flag_usage", 0, nil),
		},
	}
}

func (f *GenerateCommandFactory) CreateAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		ctx = logger.With(ctx, "command", "generate")
		log := logger.FromContext(ctx)

		if lang := command.String("lang"); lang != "" {
			if err := t.SetLanguage(lang); err != nil {
				appErr := errors.ErrUnsupportedLanguage.WithContext("language", lang)
				ui.HandleAppError(f.streams.Err, appErr, t)
				return appErr
			}
		}

		// Configuration is checked before any input is fetched, so a missing
		// key never lets a git or GitHub call through.
		generator, err := f.generatorProvider(ctx)
		if err != nil {
			ui.HandleAppError(f.streams.Err, err, t)
			return err
		}

		diff, source, err := f.readDiff(ctx, command)
		if err != nil {
			ui.HandleAppError(f.streams.Err, err, t)
			return err
		}

		if strings.TrimSpace(diff) == "" {
			ui.PrintWarning(f.streams.Err, t.GetMessage("empty_diff", 0, nil))
			return errors.ErrEmptyDiff
		}

		lines := strings.Count(diff, "\n")
		log.Info("executing generate command",
			"source", source,
			"input_lines", lines)

		if f.isTerminal(f.streams.Err) {
			ui.PrintInfo(f.streams.Err, t.GetMessage("input_lines", lines, map[string]interface{}{"Count": lines}))
		}

		spinner := ui.NewSmartSpinner(f.streams.Err, t.GetMessage("generating", 0, nil))
		spinner.Start()

		start := time.Now()
		msg, err := generator.GenerateCommitMessage(ctx, diff)
		duration := time.Since(start)

		spinner.Stop()

		if err != nil {
			log.Error("failed to generate commit message",
				"error", err,
				"duration_ms", duration.Milliseconds())
			ui.HandleAppError(f.streams.Err, err, t)
			return err
		}

		log.Info("commit message generated",
			"duration_ms", duration.Milliseconds())

		pretty := !command.Bool("raw") && f.isTerminal(f.streams.Out)
		if pretty {
			ui.PrintSectionBanner(f.streams.Out, t.GetMessage("generated_title", 0, nil))
		}
		ui.PrintCommitMessage(f.streams.Out, msg, pretty)
		return nil
	}
}

// readDiff picks the single input source the flags ask for, falling back to
// standard input.
func (f *GenerateCommandFactory) readDiff(ctx context.Context, command *cli.Command) (string, string, error) {
	file := command.String("file")
	staged := command.Bool("staged")
	pr := command.String("pr")
	oldPath := command.String("old")
	newPath := command.String("new")

	sources := 0
	for _, set := range []bool{file != "", staged, pr != "", oldPath != "" || newPath != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return "", "", errors.ErrMultipleInputs
	}

	switch {
	case file != "":
		diff, err := diffsource.ReadFile(file, f.streams.In)
		return diff, "file", err
	case staged:
		diff, err := f.gitService.GetStagedDiff(ctx)
		return diff, "staged", err
	case pr != "":
		ref, err := github.ParsePRRef(pr)
		if err != nil {
			return "", "", err
		}
		diff, err := f.prService.GetPRDiff(ctx, ref)
		return diff, "pr", err
	case oldPath != "" || newPath != "":
		if oldPath == "" || newPath == "" {
			return "", "", errors.ErrIncompleteComparison
		}
		diff, err := diffsource.CompareFiles(oldPath, newPath)
		return diff, "compare", err
	default:
		diff, err := diffsource.ReadInput(f.streams.In)
		return diff, "stdin", err
	}
}
