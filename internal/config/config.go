package config

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/fixversion"
	"github.com/thomas-vilte/jiralink/internal/issuekey"
	"github.com/thomas-vilte/jiralink/internal/models"
)

type (
	Config struct {
		JiraToken   string `toml:"jira_token"`
		JiraBaseURL string `toml:"jira_base_url"`
		GitHubToken string `toml:"github_token"`

		Use                     models.Source `toml:"use"`
		BranchIgnorePattern     string        `toml:"skip_branches"`
		CustomIssueNumberRegexp string        `toml:"custom_issue_number_regexp"`
		JiraProjectKey          string        `toml:"jira_project_key"`

		FailWhenJiraIssueNotFound bool `toml:"fail_when_jira_issue_not_found"`
		SkipTicketTitle           bool `toml:"skip_ticket_title"`

		CompareFixVersion   string   `toml:"compare_fix_version"`
		FixVersionRegex     string   `toml:"fix_version_regex"`
		FixVersionWildcards []string `toml:"fix_version_wildcards"`

		Language  string `toml:"language"`
		Debug     bool   `toml:"debug"`
		SentryDSN string `toml:"sentry_dsn"`

		PathFile string `toml:"-"`
	}

	// FixVersionOptions configures the fix version gate. The gate is off
	// when Expected is empty.
	FixVersionOptions struct {
		Expected  string
		Pattern   string
		Wildcards []string
	}
)

const (
	defaultLang = LangEN
	defaultUse  = models.SourcePRTitle
)

// Default returns a Config with every option at its default.
func Default() *Config {
	return &Config{
		Use:      defaultUse,
		Language: defaultLang,
	}
}

// Clone returns a deep copy, so per-run overrides never leak into c.
func (c *Config) Clone() *Config {
	out := *c
	out.FixVersionWildcards = append([]string(nil), c.FixVersionWildcards...)
	return &out
}

// LoadConfig reads the TOML file at path on top of the defaults. An empty
// path or a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.PathFile = path
		return cfg, nil
	}
	if err != nil {
		return nil, domainErrors.ErrConfigFile.WithError(err).WithContext("path", path)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, domainErrors.ErrConfigFile.
			WithError(err).
			WithContext("path", path).
			WithSuggestion("Check the TOML syntax of the configuration file")
	}

	cfg.PathFile = path
	cfg.JiraBaseURL = NormalizeBaseURL(cfg.JiraBaseURL)
	cfg.FixVersionWildcards = cleanWildcards(cfg.FixVersionWildcards)
	return cfg, nil
}

// NormalizeBaseURL drops one trailing slash.
func NormalizeBaseURL(u string) string {
	return strings.TrimSuffix(u, "/")
}

// ParseWildcards splits a comma separated list, trimming entries and
// dropping the empty ones.
func ParseWildcards(raw string) []string {
	return cleanWildcards(strings.Split(raw, ","))
}

func cleanWildcards(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Validate checks the options needed to link a pull request.
func (c *Config) Validate() error {
	if c.JiraToken == "" {
		return domainErrors.ErrJiraTokenMissing
	}
	if c.JiraBaseURL == "" {
		return domainErrors.ErrJiraBaseURLMissing
	}
	if c.GitHubToken == "" {
		return domainErrors.ErrGitHubTokenMissing
	}
	if c.Use != "" && !c.Use.Valid() {
		return domainErrors.ErrInvalidSource.WithContext("use", string(c.Use))
	}
	return c.ValidatePatterns()
}

// ValidatePatterns compiles every configured pattern once so bad input is
// reported before any network call.
func (c *Config) ValidatePatterns() error {
	if err := compile(c.BranchIgnorePattern, "", "skip-branches"); err != nil {
		return err
	}
	if err := compile(c.CustomIssueNumberRegexp, "(?i)", "custom-issue-number-regexp"); err != nil {
		return err
	}
	if c.FixVersionRegex != "" {
		if _, err := fixversion.NewExtractor(c.FixVersionRegex); err != nil {
			return err
		}
	}
	return nil
}

func compile(pattern, prefix, option string) error {
	if pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(prefix + pattern); err != nil {
		return domainErrors.ErrPatternCompilation.
			WithError(err).
			WithContext("pattern", pattern).
			WithContext("option", option)
	}
	return nil
}

func (c *Config) IssueKeyOptions() issuekey.Options {
	source := c.Use
	if source == "" {
		source = defaultUse
	}
	return issuekey.Options{
		Source:        source,
		CustomPattern: c.CustomIssueNumberRegexp,
		ProjectKey:    c.JiraProjectKey,
	}
}

func (c *Config) FixVersionOptions() FixVersionOptions {
	wildcards := make([]string, len(c.FixVersionWildcards))
	copy(wildcards, c.FixVersionWildcards)
	return FixVersionOptions{
		Expected:  c.CompareFixVersion,
		Pattern:   c.FixVersionRegex,
		Wildcards: wildcards,
	}
}

// Enabled reports whether the fix version gate should run.
func (o FixVersionOptions) Enabled() bool {
	return o.Expected != ""
}
