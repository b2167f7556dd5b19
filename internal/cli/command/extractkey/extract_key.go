package extractkey

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/jiralink/internal/cli/completion_helper"
	"github.com/thomas-vilte/jiralink/internal/cli/flags"
	"github.com/thomas-vilte/jiralink/internal/config"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/issuekey"
	"github.com/urfave/cli/v3"
)

type ExtractKeyCommand struct{}

func NewExtractKeyCommand() *ExtractKeyCommand {
	return &ExtractKeyCommand{}
}

func (c *ExtractKeyCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "extract-key",
		Usage: t.GetMessage("extract_key.usage", 0, nil),
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "text",
				Aliases:  []string{"t"},
				Usage:    t.GetMessage("extract_key.text_flag", 0, nil),
				Required: true,
			},
		}, flags.Named(t, flags.CustomIssueNumberRegexp, flags.JiraProjectKey)...),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			runCfg := cfg.Clone()
			flags.Apply(cmd, nil, runCfg)

			text := cmd.String("text")
			key, err := extract(text, runCfg.CustomIssueNumberRegexp, runCfg.JiraProjectKey)
			if err != nil {
				return err
			}
			if key == "" {
				return domainErrors.ErrIssueKeyNotFound.
					WithError(fmt.Errorf("%s", t.GetMessage("extract_key.not_found", 0, map[string]interface{}{
						"Text": text,
					})))
			}

			_, _ = fmt.Fprintln(cmd.Root().Writer, key)
			return nil
		},
	}
}

func extract(text, pattern, projectKey string) (string, error) {
	if pattern == "" {
		return issuekey.ByDefaultPattern(text), nil
	}
	return issuekey.ByCustomPattern(text, pattern, projectKey)
}
