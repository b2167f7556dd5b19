package fixversion

import (
	"regexp"

	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/regex"
)

// DefaultPattern captures the first semver-like token of a release label.
const DefaultPattern = regex.DefaultFixVersion

// Extractor pulls a version token (capture group 1) out of release labels.
type Extractor struct {
	re *regexp.Regexp
}

// NewExtractor compiles pattern case-insensitively; an empty pattern selects
// DefaultPattern.
func NewExtractor(pattern string) (*Extractor, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, domainErrors.ErrPatternCompilation.
			WithError(err).
			WithContext("pattern", pattern).
			WithContext("option", "fix-version-regex")
	}
	return &Extractor{re: re}, nil
}

// Extract returns group 1 of the first match without its leading v/V, or ""
// when the text holds no version.
func (e *Extractor) Extract(text string) string {
	m := e.re.FindStringSubmatch(text)
	if len(m) < 2 || m[1] == "" {
		return ""
	}
	return regex.VersionPrefix.ReplaceAllString(m[1], "")
}

// ExtractVersion is a one-shot NewExtractor(pattern).Extract(text).
func ExtractVersion(text, pattern string) (string, error) {
	e, err := NewExtractor(pattern)
	if err != nil {
		return "", err
	}
	return e.Extract(text), nil
}
