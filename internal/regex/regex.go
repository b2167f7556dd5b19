package regex

import "regexp"

var (
	// Issue key patterns
	JiraTicket = regexp.MustCompile(`([A-Za-z][A-Za-z0-9]*-\d+)`)

	// Branches that never get a ticket: dependency bots and long-lived branches
	BotBranches = []*regexp.Regexp{
		regexp.MustCompile(`^dependabot/`),
		regexp.MustCompile(`^all-contributors/`),
		regexp.MustCompile(`^renovate/`),
	}
	DefaultBranches = []*regexp.Regexp{
		regexp.MustCompile(`^(master|main|production|gh-pages)$`),
	}

	// Leading "v" on an extracted release version
	VersionPrefix = regexp.MustCompile(`^[vV]`)
)

// DefaultFixVersion matches a semver-like token, optionally after a platform
// prefix separated by whitespace, '-' or '_' ("android 4.17.0", "web-1.0.0").
const DefaultFixVersion = `(?:^|[\s\-_])(v?\d+\.\d+(?:\.\d+)?(?:-[\w\.\-]*)?(?:\+[\w\.\-]*)?)`
