package extractkey

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/jiralink/internal/config"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/i18n"
)

func runExtractKey(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	cmd := NewExtractKeyCommand().CreateCommand(translations, cfg)
	var buf bytes.Buffer
	cmd.Writer = &buf

	err = cmd.Run(context.Background(), append([]string{"extract-key"}, args...))
	return buf.String(), err
}

func TestExtractKeyCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default pattern upper-cases the key",
			args: []string{"--text", "feature/es-43-login"},
			want: "ES-43\n",
		},
		{
			name: "custom pattern with project key",
			args: []string{"--text", "fix/1234-crash", "--custom-issue-number-regexp", `^\w+/(\d+)`, "--jira-project-key", "law"},
			want: "LAW-1234\n",
		},
		{
			name: "custom pattern without groups uses the whole match",
			args: []string{"--text", "[abc-9] title", "--custom-issue-number-regexp", `abc-\d+`},
			want: "ABC-9\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runExtractKey(t, config.Default(), tt.args...)

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	t.Run("uses the configured pattern when no flag is given", func(t *testing.T) {
		cfg := config.Default()
		cfg.CustomIssueNumberRegexp = `#(\d+)`
		cfg.JiraProjectKey = "ES"

		out, err := runExtractKey(t, cfg, "--text", "Fix #77")

		require.NoError(t, err)
		assert.Equal(t, "ES-77\n", out)
	})

	t.Run("fails when no key is found", func(t *testing.T) {
		out, err := runExtractKey(t, config.Default(), "--text", "no key here")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrIssueKeyNotFound))
		assert.Contains(t, err.Error(), "no key here")
		assert.Empty(t, out)
	})

	t.Run("fails with an invalid custom pattern", func(t *testing.T) {
		_, err := runExtractKey(t, config.Default(), "--text", "x", "--custom-issue-number-regexp", "(")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrPatternCompilation))
	})
}
