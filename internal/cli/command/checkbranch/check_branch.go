package checkbranch

import (
	"context"

	"github.com/thomas-vilte/jiralink/internal/branch"
	"github.com/thomas-vilte/jiralink/internal/cli/completion_helper"
	"github.com/thomas-vilte/jiralink/internal/cli/flags"
	"github.com/thomas-vilte/jiralink/internal/config"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/logger"
	"github.com/thomas-vilte/jiralink/internal/ui"
	"github.com/urfave/cli/v3"
)

type CheckBranchCommand struct{}

func NewCheckBranchCommand() *CheckBranchCommand {
	return &CheckBranchCommand{}
}

func (c *CheckBranchCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "check-branch",
		Usage: t.GetMessage("check_branch.usage", 0, nil),
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "branch",
				Aliases:  []string{"b"},
				Usage:    t.GetMessage("check_branch.branch_flag", 0, nil),
				Required: true,
			},
		}, flags.Named(t, flags.SkipBranches)...),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			runCfg := cfg.Clone()
			flags.Apply(cmd, nil, runCfg)

			name := cmd.String("branch")
			decision, err := branch.Evaluate(name, runCfg.BranchIgnorePattern)
			if err != nil {
				return err
			}

			logger.Debug(ctx, "branch evaluated",
				"branch", name,
				"skip", decision.Skip,
				"reason", decision.Reason)

			w := cmd.Root().Writer
			if !decision.Skip {
				ui.PrintInfo(w, t.GetMessage("check_branch.not_skipped", 0, map[string]interface{}{
					"Branch": name,
				}))
				return nil
			}
			ui.PrintWarning(w, t.GetMessage("check_branch.skipped", 0, map[string]interface{}{
				"Branch":  name,
				"Reason":  decision.Reason,
				"Pattern": decision.Pattern,
			}))
			return nil
		},
	}
}
