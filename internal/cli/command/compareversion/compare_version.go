package compareversion

import (
	"context"
	"errors"
	"strconv"

	"github.com/thomas-vilte/jiralink/internal/cli/completion_helper"
	"github.com/thomas-vilte/jiralink/internal/cli/flags"
	"github.com/thomas-vilte/jiralink/internal/config"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/fixversion"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/models"
	"github.com/thomas-vilte/jiralink/internal/services"
	"github.com/thomas-vilte/jiralink/internal/ui"
	"github.com/urfave/cli/v3"
)

type CompareVersionCommand struct{}

func NewCompareVersionCommand() *CompareVersionCommand {
	return &CompareVersionCommand{}
}

func (c *CompareVersionCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "compare-version",
		Usage: t.GetMessage("compare_version.usage", 0, nil),
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "expected",
				Aliases:  []string{"e"},
				Usage:    t.GetMessage("compare_version.expected_flag", 0, nil),
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "fix-version",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("compare_version.fix_version_flag", 0, nil),
			},
		}, flags.Named(t, flags.FixVersionRegex, flags.FixVersionWildcards)...),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			runCfg := cfg.Clone()
			flags.Apply(cmd, nil, runCfg)

			expected := cmd.String("expected")
			versions := parseVersions(cmd.StringSlice("fix-version"))

			result, err := fixversion.Compare(expected, versions, runCfg.FixVersionRegex, runCfg.FixVersionWildcards)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if !result.Matches {
				msg := services.MismatchMessage(t, expected, result)
				ui.PrintError(w, msg)
				return domainErrors.ErrFixVersionMismatch.
					WithError(errors.New(msg)).
					WithContext("expected", expected).
					WithContext("jira_version", result.JiraVersion)
			}

			ui.PrintSuccess(w, t.GetMessage("compare_version.match", 0, map[string]interface{}{
				"Expected":    expected,
				"JiraVersion": result.JiraVersion,
			}))
			return nil
		},
	}
}

// parseVersions accepts repeated and comma separated values.
func parseVersions(raw []string) []models.FixVersion {
	var versions []models.FixVersion
	for _, r := range raw {
		for _, name := range config.ParseWildcards(r) {
			versions = append(versions, models.FixVersion{
				Name: name,
				ID:   strconv.Itoa(len(versions) + 1),
			})
		}
	}
	return versions
}
