package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thomas-vilte/jiralink/internal/action"
	"github.com/thomas-vilte/jiralink/internal/cli/completion_helper"
	"github.com/thomas-vilte/jiralink/internal/cli/flags"
	"github.com/thomas-vilte/jiralink/internal/config"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/infrastructure/factory"
	"github.com/thomas-vilte/jiralink/internal/logger"
	"github.com/thomas-vilte/jiralink/internal/models"
	"github.com/thomas-vilte/jiralink/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runtime is the part of the Actions runner the command talks to.
type Runtime interface {
	Input(name string) string
	PullRequest() (action.Event, error)
	SetOutputs(o models.Outputs)
	Errorf(msg string, args ...any)
	Warningf(msg string, args ...any)
	Noticef(msg string, args ...any)
	Summary(markdown string)
}

var _ Runtime = (*action.Runtime)(nil)

type LinkCommand struct {
	runtime Runtime
	factory factory.LinkServiceFactoryInterface
}

func NewLinkCommand(runtime Runtime, f factory.LinkServiceFactoryInterface) *LinkCommand {
	return &LinkCommand{
		runtime: runtime,
		factory: f,
	}
}

func (c *LinkCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "link",
		Usage:         t.GetMessage("link.usage", 0, nil),
		Flags:         flags.All(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        c.Action(t, cfg),
	}
}

// Action runs the link flow. Branch exemptions and non pull request events
// succeed with empty outputs. A fix version mismatch always fails; lookup
// errors fail only when fail-when-jira-issue-not-found is set.
func (c *LinkCommand) Action(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		w := writer(cmd)

		ev, err := c.runtime.PullRequest()
		if err != nil {
			var appErr *domainErrors.AppError
			if errors.Is(err, domainErrors.ErrNotPullRequest) && errors.As(err, &appErr) {
				msg := t.GetMessage("link.not_pull_request", 0, map[string]interface{}{
					"Event": appErr.Context["event"],
				})
				c.runtime.Noticef("%s", msg)
				ui.PrintInfo(w, msg)
				c.runtime.SetOutputs(models.Outputs{})
				return nil
			}
			c.runtime.SetOutputs(models.Outputs{})
			return err
		}

		runCfg := cfg.Clone()
		flags.Apply(cmd, c.runtime.Input, runCfg)
		if runCfg.Language != cfg.Language {
			if err := t.SetLanguage(runCfg.Language); err != nil {
				logger.Warn(ctx, "language not available", "lang", runCfg.Language, "error", err)
			}
		}
		if err := runCfg.Validate(); err != nil {
			c.runtime.SetOutputs(models.Outputs{})
			return err
		}

		ctx = logger.With(ctx, "pr_number", ev.PR.Number, "branch", ev.PR.BranchName)

		linker, err := c.factory.CreateLinkService(ctx, runCfg, ev)
		if err != nil {
			c.runtime.SetOutputs(models.Outputs{})
			return fmt.Errorf(t.GetMessage("error.linker_creation", 0, nil)+": %w", err)
		}

		out, err := linker.Link(ctx, ev.PR)
		switch {
		case errors.Is(err, domainErrors.ErrFixVersionMismatch):
			c.runtime.Errorf("%s", out.Mismatch)
			c.runtime.SetOutputs(out.Outputs())
			c.runtime.Summary(renderSummary(t, ev, out))
			return err
		case err != nil:
			c.runtime.SetOutputs(models.Outputs{})
			if runCfg.FailWhenJiraIssueNotFound {
				c.runtime.Errorf("%s", err.Error())
				return err
			}
			msg := t.GetMessage("link.not_found_ignored", 0, map[string]interface{}{
				"Error": err.Error(),
			})
			c.runtime.Warningf("%s", msg)
			ui.PrintWarning(w, msg)
			logger.Warn(ctx, "issue not linked", "error", err)
			return nil
		case out.Skipped:
			msg := t.GetMessage("link.branch_skipped", 0, map[string]interface{}{
				"Branch": ev.PR.BranchName,
				"Reason": out.SkipReason,
			})
			c.runtime.Noticef("%s", msg)
			ui.PrintInfo(w, msg)
			c.runtime.SetOutputs(models.Outputs{})
			return nil
		}

		c.runtime.SetOutputs(out.Outputs())
		c.runtime.Summary(renderSummary(t, ev, out))

		data := map[string]interface{}{
			"Key":    out.Key,
			"Number": ev.PR.Number,
		}
		if out.Updated {
			ui.PrintSuccess(w, t.GetMessage("link.updated", 0, data))
		} else {
			ui.PrintInfo(w, t.GetMessage("link.up_to_date", 0, data))
		}
		return nil
	}
}

func writer(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if w := cmd.Root().Writer; w != nil {
			return w
		}
	}
	return os.Stdout
}
