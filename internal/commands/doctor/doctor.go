package doctor

import (
	"context"
	"io"

	"github.com/thomas-vilte/diffmate/internal/config"
	"github.com/thomas-vilte/diffmate/internal/i18n"
	"github.com/thomas-vilte/diffmate/internal/ui"
	"github.com/urfave/cli/v3"
)

type stagedChecker interface {
	HasStagedChanges(ctx context.Context) bool
}

// DoctorCommand reports the local setup without calling any provider.
type DoctorCommand struct {
	out        io.Writer
	gitService stagedChecker
}

func NewDoctorCommand(out io.Writer, gitSvc stagedChecker) *DoctorCommand {
	return &DoctorCommand{out: out, gitService: gitSvc}
}

func (d *DoctorCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "doctor",
		Aliases: []string{"dr"},
		Usage:   t.GetMessage("doctor_command_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			return d.runHealthCheck(ctx, t, cfg)
		},
	}
}

func (d *DoctorCommand) runHealthCheck(ctx context.Context, t *i18n.Translations, cfg *config.Config) error {
	ui.PrintSectionBanner(d.out, t.GetMessage("doctor_title", 0, nil))

	configFile := cfg.PathFile
	if configFile == "" {
		configFile = t.GetMessage("doctor_no_config_file", 0, nil)
	}
	ui.PrintKeyValue(d.out, t.GetMessage("doctor_config_file", 0, nil), configFile)

	d.printStatus(t, t.GetMessage("doctor_primary", 0, map[string]interface{}{"Model": cfg.Primary.Model}), cfg.Primary.APIKey != "")
	d.printStatus(t, t.GetMessage("doctor_fallback", 0, map[string]interface{}{"Model": cfg.Fallback.Model}), cfg.HasFallback())
	d.printStatus(t, t.GetMessage("doctor_github", 0, nil), cfg.GitHubToken != "")

	staged := t.GetMessage("doctor_staged_none", 0, nil)
	if d.gitService.HasStagedChanges(ctx) {
		staged = t.GetMessage("doctor_staged_found", 0, nil)
	}
	ui.PrintKeyValue(d.out, t.GetMessage("doctor_staged", 0, nil), staged)

	if err := cfg.Validate(); err != nil {
		ui.HandleAppError(d.out, err, t)
		return err
	}
	return nil
}

func (d *DoctorCommand) printStatus(t *i18n.Translations, label string, ok bool) {
	if ok {
		ui.PrintSuccess(d.out, label+": "+t.GetMessage("doctor_configured", 0, nil))
		return
	}
	ui.PrintWarning(d.out, label+": "+t.GetMessage("doctor_missing", 0, nil))
}
