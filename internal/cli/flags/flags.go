// Package flags declares the options shared by the CLI commands and merges
// them, together with GitHub Actions inputs, into a config.Config.
package flags

import (
	"strconv"

	"github.com/thomas-vilte/jiralink/internal/config"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/models"
	"github.com/urfave/cli/v3"
)

// Option names. They double as GitHub Actions input names.
const (
	JiraToken               = "jira-token"
	JiraBaseURL             = "jira-base-url"
	GitHubToken             = "github-token"
	SkipBranches            = "skip-branches"
	CustomIssueNumberRegexp = "custom-issue-number-regexp"
	JiraProjectKey          = "jira-project-key"
	FailWhenNotFound        = "fail-when-jira-issue-not-found"
	SkipTicketTitle         = "skip-ticket-title"
	CompareFixVersion       = "compare-fix-version"
	FixVersionRegex         = "fix-version-regex"
	FixVersionWildcards     = "fix-version-wildcards"
	Use                     = "use"
	Language                = "lang"
	SentryDSN               = "sentry-dsn"
)

// InputFunc looks up an action input by name and returns "" when unset.
type InputFunc func(name string) string

type kind int

const (
	kindString kind = iota
	kindBool
)

type option struct {
	name  string
	kind  kind
	usage string
	apply func(cfg *config.Config, value string)
}

func setBool(field func(c *config.Config) *bool) func(*config.Config, string) {
	return func(c *config.Config, v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			*field(c) = b
		}
	}
}

var options = []option{
	{JiraToken, kindString, "flag.jira_token", func(c *config.Config, v string) { c.JiraToken = v }},
	{JiraBaseURL, kindString, "flag.jira_base_url", func(c *config.Config, v string) { c.JiraBaseURL = config.NormalizeBaseURL(v) }},
	{GitHubToken, kindString, "flag.github_token", func(c *config.Config, v string) { c.GitHubToken = v }},
	{SkipBranches, kindString, "flag.skip_branches", func(c *config.Config, v string) { c.BranchIgnorePattern = v }},
	{CustomIssueNumberRegexp, kindString, "flag.custom_issue_number_regexp", func(c *config.Config, v string) { c.CustomIssueNumberRegexp = v }},
	{JiraProjectKey, kindString, "flag.jira_project_key", func(c *config.Config, v string) { c.JiraProjectKey = v }},
	{FailWhenNotFound, kindBool, "flag.fail_when_not_found", setBool(func(c *config.Config) *bool { return &c.FailWhenJiraIssueNotFound })},
	{SkipTicketTitle, kindBool, "flag.skip_ticket_title", setBool(func(c *config.Config) *bool { return &c.SkipTicketTitle })},
	{CompareFixVersion, kindString, "flag.compare_fix_version", func(c *config.Config, v string) { c.CompareFixVersion = v }},
	{FixVersionRegex, kindString, "flag.fix_version_regex", func(c *config.Config, v string) { c.FixVersionRegex = v }},
	{FixVersionWildcards, kindString, "flag.fix_version_wildcards", func(c *config.Config, v string) { c.FixVersionWildcards = config.ParseWildcards(v) }},
	{Use, kindString, "flag.use", func(c *config.Config, v string) { c.Use = models.Source(v) }},
	{Language, kindString, "flag.lang", func(c *config.Config, v string) { c.Language = config.GetLocaleConfig(v) }},
	{SentryDSN, kindString, "flag.sentry_dsn", func(c *config.Config, v string) { c.SentryDSN = v }},
}

// Named returns the flag definitions for the given option names, in order.
func Named(t *i18n.Translations, names ...string) []cli.Flag {
	byName := make(map[string]option)
	for _, o := range options {
		byName[o.name] = o
	}

	out := make([]cli.Flag, 0, len(names))
	for _, n := range names {
		o, ok := byName[n]
		if !ok {
			continue
		}
		usage := t.GetMessage(o.usage, 0, nil)
		switch o.kind {
		case kindBool:
			out = append(out, &cli.BoolFlag{Name: o.name, Usage: usage})
		default:
			out = append(out, &cli.StringFlag{Name: o.name, Usage: usage})
		}
	}
	return out
}

// All returns every option as a flag.
func All(t *i18n.Translations) []cli.Flag {
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = o.name
	}
	return Named(t, names...)
}

// Apply overlays cfg with, per option, the command line value when the flag
// was given, else the non-empty action input. Options declared on cmd are
// the only ones read from the command line.
func Apply(cmd *cli.Command, input InputFunc, cfg *config.Config) {
	for _, o := range options {
		if cmd != nil && hasFlag(cmd, o.name) && cmd.IsSet(o.name) {
			if o.kind == kindBool {
				o.apply(cfg, strconv.FormatBool(cmd.Bool(o.name)))
			} else {
				o.apply(cfg, cmd.String(o.name))
			}
			continue
		}
		if input == nil {
			continue
		}
		if v := input(o.name); v != "" {
			o.apply(cfg, v)
		}
	}
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}
