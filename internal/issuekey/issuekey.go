// Package issuekey extracts Jira issue keys from branch names and PR titles.
package issuekey

import (
	"regexp"
	"strings"

	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/models"
	"github.com/thomas-vilte/jiralink/internal/regex"
)

// Options selects where and how keys are looked up.
type Options struct {
	Source        models.Source
	CustomPattern string
	ProjectKey    string
}

// Match is a key together with the text it came from.
type Match struct {
	Key    string
	Source models.Source
}

// extractLast returns the last capture group of the first match, or the
// whole match when re has no groups. Unmatched or empty results give "".
func extractLast(input string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(input)
	if m == nil {
		return ""
	}
	return m[len(m)-1]
}

// ByDefaultPattern returns the first PROJECT-123 shaped key in input, upper-cased.
func ByDefaultPattern(input string) string {
	return strings.ToUpper(extractLast(input, regex.JiraTicket))
}

// ByCustomPattern matches pattern case-insensitively against input. A captured
// reference is prefixed with projectKey when one is given.
func ByCustomPattern(input, pattern, projectKey string) (string, error) {
	re, err := compile(pattern)
	if err != nil {
		return "", err
	}
	return byRegexp(input, re, projectKey), nil
}

func byRegexp(input string, re *regexp.Regexp, projectKey string) string {
	ref := extractLast(input, re)
	if ref == "" {
		return ""
	}
	if projectKey != "" {
		ref = projectKey + "-" + ref
	}
	return strings.ToUpper(ref)
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, domainErrors.ErrPatternCompilation.
			WithError(err).
			WithContext("pattern", pattern).
			WithContext("option", "custom-issue-number-regexp")
	}
	return re, nil
}

// Resolve looks for a key in the PR title, the branch name or both (title
// first), as selected by opts.Source.
func Resolve(pr models.PRData, opts Options) (Match, bool, error) {
	extract := ByDefaultPattern
	if opts.CustomPattern != "" {
		re, err := compile(opts.CustomPattern)
		if err != nil {
			return Match{}, false, err
		}
		extract = func(input string) string {
			return byRegexp(input, re, opts.ProjectKey)
		}
	}

	type candidate struct {
		text   string
		source models.Source
	}
	title := candidate{text: pr.Title, source: models.SourcePRTitle}
	branch := candidate{text: pr.BranchName, source: models.SourceBranch}

	var candidates []candidate
	switch opts.Source {
	case models.SourcePRTitle, "":
		candidates = []candidate{title}
	case models.SourceBranch:
		candidates = []candidate{branch}
	case models.SourceBoth:
		candidates = []candidate{title, branch}
	default:
		return Match{}, false, domainErrors.ErrInvalidSource.WithContext("use", string(opts.Source))
	}

	for _, c := range candidates {
		if key := extract(c.text); key != "" {
			return Match{Key: key, Source: c.source}, true, nil
		}
	}
	return Match{}, false, nil
}
