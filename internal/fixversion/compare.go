// Package fixversion checks a ticket's fix versions against the release a PR
// is expected to ship in.
package fixversion

import (
	"strings"

	"github.com/thomas-vilte/jiralink/internal/models"
)

// Result is the outcome of a comparison. Empty JiraVersion means the ticket
// has no fix versions; empty ExtractedVersion means nothing could be extracted.
type Result struct {
	Matches          bool   `json:"matches"`
	JiraVersion      string `json:"jiraVersion,omitempty"`
	ExtractedVersion string `json:"extractedVersion,omitempty"`
}

// Strategy is one rule of the comparison table. Match returns the value to
// report as the extracted version when a label satisfies expected.
type Strategy interface {
	Name() string
	Match(expected string, versions []models.FixVersion) (string, bool)
}

// Matcher applies its strategies in order; the first hit wins. When none
// hits, fallback picks the version reported alongside the mismatch.
type Matcher struct {
	strategies []Strategy
	fallback   func(versions []models.FixVersion) string
}

// NewMatcher builds the comparison table: wildcards first (when any), then
// exact comparison when pattern is empty or regexp extraction otherwise.
func NewMatcher(pattern string, wildcards []string) (*Matcher, error) {
	m := &Matcher{}

	if w := newWildcardStrategy(wildcards); w != nil {
		m.strategies = append(m.strategies, w)
	}

	if pattern == "" {
		m.strategies = append(m.strategies, directStrategy{})
		m.fallback = func(versions []models.FixVersion) string {
			return versions[0].Name
		}
		return m, nil
	}

	extractor, err := NewExtractor(pattern)
	if err != nil {
		return nil, err
	}
	m.strategies = append(m.strategies, extractStrategy{extractor: extractor})
	m.fallback = func(versions []models.FixVersion) string {
		return extractor.Extract(versions[0].Name)
	}
	return m, nil
}

// Strategies lists the strategy names in evaluation order.
func (m *Matcher) Strategies() []string {
	names := make([]string, len(m.strategies))
	for i, s := range m.strategies {
		names[i] = s.Name()
	}
	return names
}

// Compare checks expected against the ticket's fix versions.
func (m *Matcher) Compare(expected string, versions []models.FixVersion) Result {
	if len(versions) == 0 {
		return Result{}
	}

	jiraVersion := joinNames(versions)
	for _, s := range m.strategies {
		if extracted, ok := s.Match(expected, versions); ok {
			return Result{Matches: true, JiraVersion: jiraVersion, ExtractedVersion: extracted}
		}
	}

	return Result{JiraVersion: jiraVersion, ExtractedVersion: m.fallback(versions)}
}

func joinNames(versions []models.FixVersion) string {
	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = v.Name
	}
	return strings.Join(names, ", ")
}

// Compare is the one-shot form of NewMatcher(pattern, wildcards).Compare.
// A wildcard hit is reported before pattern is compiled, so an invalid
// pattern only fails comparisons that actually need it.
func Compare(expected string, versions []models.FixVersion, pattern string, wildcards []string) (Result, error) {
	if w := newWildcardStrategy(wildcards); w != nil && len(versions) > 0 {
		if name, ok := w.Match(expected, versions); ok {
			return Result{Matches: true, JiraVersion: joinNames(versions), ExtractedVersion: name}, nil
		}
	}

	m, err := NewMatcher(pattern, wildcards)
	if err != nil {
		return Result{}, err
	}
	return m.Compare(expected, versions), nil
}

type wildcardStrategy struct {
	set map[string]struct{}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func newWildcardStrategy(wildcards []string) *wildcardStrategy {
	set := make(map[string]struct{}, len(wildcards))
	for _, w := range wildcards {
		if n := normalize(w); n != "" {
			set[n] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return &wildcardStrategy{set: set}
}

func (wildcardStrategy) Name() string { return "wildcard" }

func (s *wildcardStrategy) Match(_ string, versions []models.FixVersion) (string, bool) {
	for _, v := range versions {
		if _, ok := s.set[normalize(v.Name)]; ok {
			return v.Name, true
		}
	}
	return "", false
}

type directStrategy struct{}

func (directStrategy) Name() string { return "direct" }

func (directStrategy) Match(expected string, versions []models.FixVersion) (string, bool) {
	for _, v := range versions {
		if v.Name == expected {
			return v.Name, true
		}
	}
	return "", false
}

type extractStrategy struct {
	extractor *Extractor
}

func (extractStrategy) Name() string { return "extract" }

func (s extractStrategy) Match(expected string, versions []models.FixVersion) (string, bool) {
	for _, v := range versions {
		if extracted := s.extractor.Extract(v.Name); extracted != "" && extracted == expected {
			return extracted, true
		}
	}
	return "", false
}
