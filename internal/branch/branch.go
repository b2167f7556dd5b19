// Package branch decides whether a branch is exempt from issue linking.
package branch

import (
	"regexp"

	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/regex"
)

// Reason names the matcher that exempted a branch.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonBot           Reason = "bot"
	ReasonDefaultBranch Reason = "default-branch"
	ReasonIgnorePattern Reason = "ignore-pattern"
)

// Decision is the outcome of Evaluate. Pattern is the source of the regexp
// that matched.
type Decision struct {
	Skip    bool
	Reason  Reason
	Pattern string
}

type matcher struct {
	reason   Reason
	patterns []*regexp.Regexp
}

var builtin = []matcher{
	{reason: ReasonBot, patterns: regex.BotBranches},
	{reason: ReasonDefaultBranch, patterns: regex.DefaultBranches},
}

// Evaluate runs the bot, default-branch and extra-pattern matchers in order
// and stops at the first hit. An empty extraPattern is not compiled at all.
func Evaluate(branch, extraPattern string) (Decision, error) {
	for _, m := range builtin {
		for _, re := range m.patterns {
			if re.MatchString(branch) {
				return Decision{Skip: true, Reason: m.reason, Pattern: re.String()}, nil
			}
		}
	}

	if extraPattern == "" {
		return Decision{}, nil
	}

	re, err := regexp.Compile(extraPattern)
	if err != nil {
		return Decision{}, domainErrors.ErrPatternCompilation.
			WithError(err).
			WithContext("pattern", extraPattern).
			WithContext("option", "skip-branches")
	}
	if re.MatchString(branch) {
		return Decision{Skip: true, Reason: ReasonIgnorePattern, Pattern: extraPattern}, nil
	}

	return Decision{}, nil
}

// ShouldSkip reports whether branch is exempt from issue linking.
func ShouldSkip(branch, extraPattern string) (bool, error) {
	d, err := Evaluate(branch, extraPattern)
	if err != nil {
		return false, err
	}
	return d.Skip, nil
}
