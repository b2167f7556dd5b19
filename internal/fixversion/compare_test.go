package fixversion

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/models"
)

func versions(names ...string) []models.FixVersion {
	out := make([]models.FixVersion, len(names))
	for i, n := range names {
		out[i] = models.FixVersion{Name: n, ID: strconv.Itoa(10000 + i)}
	}
	return out
}

func mustCompare(t *testing.T, expected string, fv []models.FixVersion, pattern string, wildcards []string) Result {
	t.Helper()
	r, err := Compare(expected, fv, pattern, wildcards)
	require.NoError(t, err)
	return r
}

func TestCompare_Direct(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		labels   []models.FixVersion
		want     Result
	}{
		{
			name:     "exact match",
			expected: "4.17.0",
			labels:   versions("4.17.0"),
			want:     Result{Matches: true, JiraVersion: "4.17.0", ExtractedVersion: "4.17.0"},
		},
		{
			name:     "platform prefix is not normalized",
			expected: "4.17.0",
			labels:   versions("android 4.17.0"),
			want:     Result{JiraVersion: "android 4.17.0", ExtractedVersion: "android 4.17.0"},
		},
		{
			name:     "same prefix on both sides",
			expected: "android 4.17.0",
			labels:   versions("android 4.17.0"),
			want:     Result{Matches: true, JiraVersion: "android 4.17.0", ExtractedVersion: "android 4.17.0"},
		},
		{
			name:     "v prefix is not stripped",
			expected: "4.17.0",
			labels:   versions("v4.17.0"),
			want:     Result{JiraVersion: "v4.17.0", ExtractedVersion: "v4.17.0"},
		},
		{
			name:     "v prefix on both sides",
			expected: "v4.17.0",
			labels:   versions("v4.17.0"),
			want:     Result{Matches: true, JiraVersion: "v4.17.0", ExtractedVersion: "v4.17.0"},
		},
		{
			name:     "no trimming",
			expected: "4.17.0",
			labels:   versions(" 4.17.0"),
			want:     Result{JiraVersion: " 4.17.0", ExtractedVersion: " 4.17.0"},
		},
		{
			name:     "match among many",
			expected: "4.17.0",
			labels:   versions("4.16.0", "4.17.0", "4.18.0"),
			want:     Result{Matches: true, JiraVersion: "4.16.0, 4.17.0, 4.18.0", ExtractedVersion: "4.17.0"},
		},
		{
			name:     "mismatch falls back to the first label",
			expected: "4.17.0",
			labels:   versions("4.18.0", "4.19.0"),
			want:     Result{JiraVersion: "4.18.0, 4.19.0", ExtractedVersion: "4.18.0"},
		},
		{
			name:     "no labels",
			expected: "4.17.0",
			labels:   []models.FixVersion{},
			want:     Result{},
		},
		{
			name:     "nil labels",
			expected: "4.17.0",
			labels:   nil,
			want:     Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustCompare(t, tt.expected, tt.labels, "", nil))
		})
	}

	t.Run("other platform prefixes do not match", func(t *testing.T) {
		assert.False(t, mustCompare(t, "2.3.1", versions("ios 2.3.1"), "", nil).Matches)
		assert.False(t, mustCompare(t, "1.0.0", versions("web-1.0.0"), "", nil).Matches)
		assert.False(t, mustCompare(t, "3.5.2", versions("backend_3.5.2"), "", nil).Matches)
	})
}

func TestCompare_DefaultPattern(t *testing.T) {
	t.Run("extracts the version behind a platform prefix", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("android 4.17.0"), DefaultPattern, nil)
		assert.Equal(t, Result{Matches: true, JiraVersion: "android 4.17.0", ExtractedVersion: "4.17.0"}, r)
	})

	t.Run("strips the v prefix", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("v4.17.0"), DefaultPattern, nil)
		assert.True(t, r.Matches)
		assert.Equal(t, "4.17.0", r.ExtractedVersion)
	})

	t.Run("different platform prefixes", func(t *testing.T) {
		assert.True(t, mustCompare(t, "2.3.1", versions("ios 2.3.1"), DefaultPattern, nil).Matches)
		assert.True(t, mustCompare(t, "1.0.0", versions("web-1.0.0"), DefaultPattern, nil).Matches)
		assert.True(t, mustCompare(t, "3.5.2", versions("backend_3.5.2"), DefaultPattern, nil).Matches)
	})

	t.Run("mismatch reports the first extracted version", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("android 4.18.0"), DefaultPattern, nil)
		assert.Equal(t, Result{JiraVersion: "android 4.18.0", ExtractedVersion: "4.18.0"}, r)
	})

	t.Run("match among many", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("android 4.16.0", "android 4.17.0", "android 4.18.0"), DefaultPattern, nil)
		assert.Equal(t, Result{Matches: true, JiraVersion: "android 4.16.0, android 4.17.0, android 4.18.0", ExtractedVersion: "4.17.0"}, r)
	})

	t.Run("no match among many", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("android 4.16.0", "android 4.18.0"), DefaultPattern, nil)
		assert.False(t, r.Matches)
		assert.Equal(t, "android 4.16.0, android 4.18.0", r.JiraVersion)
		assert.Equal(t, "4.16.0", r.ExtractedVersion)
	})

	t.Run("label without version number", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("Next Release"), DefaultPattern, nil)
		assert.Equal(t, Result{JiraVersion: "Next Release"}, r)
	})

	t.Run("fallback only looks at the first label", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("Next Release", "android 4.18.0"), DefaultPattern, nil)
		assert.False(t, r.Matches)
		assert.Empty(t, r.ExtractedVersion)
	})

	t.Run("two part and pre-release versions", func(t *testing.T) {
		r := mustCompare(t, "4.17", versions("android 4.17"), DefaultPattern, nil)
		assert.True(t, r.Matches)
		assert.Equal(t, "4.17", r.ExtractedVersion)

		r = mustCompare(t, "4.17.0-beta", versions("android 4.17.0-beta"), DefaultPattern, nil)
		assert.True(t, r.Matches)
		assert.Equal(t, "4.17.0-beta", r.ExtractedVersion)
	})

	t.Run("pre-release with build metadata", func(t *testing.T) {
		r := mustCompare(t, "2.0.0-rc.1+build.5", versions("android 2.0.0-rc.1+build.5"), DefaultPattern, nil)
		assert.True(t, r.Matches)
		assert.Equal(t, "2.0.0-rc.1+build.5", r.ExtractedVersion)

		r = mustCompare(t, "2.0.0-rc.1", versions("android 2.0.0-rc.1+build.5"), DefaultPattern, nil)
		assert.False(t, r.Matches)
		assert.Equal(t, "2.0.0-rc.1+build.5", r.ExtractedVersion)
	})
}

func TestCompare_CustomPattern(t *testing.T) {
	t.Run("release prefix", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("Release-4.17.0"), `Release-(\d+\.\d+\.\d+)`, nil)
		assert.True(t, r.Matches)
		assert.Equal(t, "4.17.0", r.ExtractedVersion)
	})

	t.Run("pattern does not fit the label", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("android 4.17.0"), `Release-(\d+\.\d+\.\d+)`, nil)
		assert.False(t, r.Matches)
		assert.Empty(t, r.ExtractedVersion)
		assert.Equal(t, "android 4.17.0", r.JiraVersion)
	})

	t.Run("many labels", func(t *testing.T) {
		r := mustCompare(t, "4.17", versions("v4.16", "v4.17"), `v(\d+\.\d+)`, nil)
		assert.True(t, r.Matches)
		assert.Equal(t, "4.17", r.ExtractedVersion)
	})

	t.Run("sprint naming convention", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("Sprint 42 - 4.17.0"), `Sprint \d+ - (\d+\.\d+\.\d+)`, nil)
		assert.True(t, r.Matches)
		assert.Equal(t, "4.17.0", r.ExtractedVersion)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Compare("4.17.0", versions("4.17.0"), `(?P<v`, nil)
		assert.True(t, errors.Is(err, domainErrors.ErrPatternCompilation))
	})
}

func TestCompare_Wildcards(t *testing.T) {
	t.Run("wildcard wins over extraction", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("Next Release"), DefaultPattern, []string{"next release"})
		assert.Equal(t, Result{Matches: true, JiraVersion: "Next Release", ExtractedVersion: "Next Release"}, r)
	})

	t.Run("wildcard wins over direct comparison", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("4.17.0", "Backlog"), "", []string{" BACKLOG "})
		assert.True(t, r.Matches)
		assert.Equal(t, "Backlog", r.ExtractedVersion)
	})

	t.Run("labels are normalized before lookup", func(t *testing.T) {
		r := mustCompare(t, "1.0.0", versions("  Next Release  "), "", []string{"next release"})
		assert.True(t, r.Matches)
		assert.Equal(t, "  Next Release  ", r.ExtractedVersion)
	})

	t.Run("blank wildcards are ignored", func(t *testing.T) {
		m, err := NewMatcher("", []string{"", "  "})
		require.NoError(t, err)
		assert.Equal(t, []string{"direct"}, m.Strategies())

		r := m.Compare("1.0.0", versions(""))
		assert.False(t, r.Matches)
	})

	t.Run("wildcard hit does not need a valid pattern", func(t *testing.T) {
		r, err := Compare("x", versions("Next Release"), "(x", []string{"next release"})
		require.NoError(t, err)
		assert.Equal(t, Result{Matches: true, JiraVersion: "Next Release", ExtractedVersion: "Next Release"}, r)
	})

	t.Run("invalid pattern still fails without a wildcard hit", func(t *testing.T) {
		_, err := Compare("x", versions("android 1.0.0"), "(x", []string{"next release"})
		assert.True(t, errors.Is(err, domainErrors.ErrPatternCompilation))
	})

	t.Run("no wildcard hit falls through", func(t *testing.T) {
		r := mustCompare(t, "4.17.0", versions("android 4.17.0"), DefaultPattern, []string{"next release"})
		assert.True(t, r.Matches)
		assert.Equal(t, "4.17.0", r.ExtractedVersion)
	})
}

func TestMatcher_Strategies(t *testing.T) {
	m, err := NewMatcher("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"direct"}, m.Strategies())

	m, err = NewMatcher(DefaultPattern, []string{"next"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wildcard", "extract"}, m.Strategies())
}
