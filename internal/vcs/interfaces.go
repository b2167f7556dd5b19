package vcs

import (
	"context"

	"github.com/thomas-vilte/jiralink/internal/models"
)

// PullRequestClient reads and annotates pull requests on a hosting provider.
type PullRequestClient interface {
	// GetPR returns the current title, head branch and body of a pull request.
	GetPR(ctx context.Context, prNumber int) (models.PRData, error)
	// UpdatePRBody replaces the pull request description.
	UpdatePRBody(ctx context.Context, prNumber int, body string) error
}
