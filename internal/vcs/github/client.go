package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/logger"
	"github.com/thomas-vilte/jiralink/internal/models"
	"github.com/thomas-vilte/jiralink/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.PullRequestClient = (*GitHubClient)(nil)

// DefaultAPIURL is the public GitHub REST endpoint. Any other value passed
// to NewGitHubClient is treated as a GitHub Enterprise Server instance.
const DefaultAPIURL = "https://api.github.com"

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	Edit(ctx context.Context, owner, repo string, number int, pr *github.PullRequest) (*github.PullRequest, *github.Response, error)
}

type GitHubClient struct {
	prService PullRequestsService
	owner     string
	repo      string
}

// NewGitHubClient authenticates with token against apiURL. An empty apiURL
// means github.com.
func NewGitHubClient(owner, repo, token, apiURL string) (*GitHubClient, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	apiURL = strings.TrimSuffix(apiURL, "/")
	if apiURL != "" && apiURL != DefaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "invalid GitHub API URL", err).
				WithContext("api_url", apiURL)
		}
	}

	return NewGitHubClientWithServices(client.PullRequests, owner, repo), nil
}

func NewGitHubClientWithServices(prService PullRequestsService, owner, repo string) *GitHubClient {
	return &GitHubClient{
		prService: prService,
		owner:     owner,
		repo:      repo,
	}
}

func (ghc *GitHubClient) fullName() string {
	return fmt.Sprintf("%s/%s", ghc.owner, ghc.repo)
}

func (ghc *GitHubClient) GetPR(ctx context.Context, prNumber int) (models.PRData, error) {
	log := logger.FromContext(ctx)

	log.Debug("fetching github pull request",
		"repo", ghc.fullName(),
		"pr_number", prNumber)

	pr, resp, err := ghc.prService.Get(ctx, ghc.owner, ghc.repo, prNumber)
	if err != nil {
		return models.PRData{}, ghc.mapError(resp, err, "get PR", prNumber)
	}

	return models.PRData{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		BranchName: pr.GetHead().GetRef(),
		Body:       pr.GetBody(),
	}, nil
}

func (ghc *GitHubClient) UpdatePRBody(ctx context.Context, prNumber int, body string) error {
	log := logger.FromContext(ctx)

	pr := &github.PullRequest{
		Body: github.Ptr(body),
	}

	_, resp, err := ghc.prService.Edit(ctx, ghc.owner, ghc.repo, prNumber, pr)
	if err != nil {
		return ghc.mapError(resp, err, "update PR", prNumber)
	}

	log.Debug("github pull request body updated",
		"repo", ghc.fullName(),
		"pr_number", prNumber,
		"size", len(body))
	return nil
}

func (ghc *GitHubClient) mapError(resp *github.Response, err error, operation string, prNumber int) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("operation", operation)
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.
				WithContext("operation", operation)
		case http.StatusForbidden:
			return domainErrors.ErrGitHubInsufficientPerms.
				WithContext("operation", operation).
				WithContext("pr_number", prNumber).
				WithContext("repo", ghc.fullName())
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation)
		case http.StatusNotFound:
			return domainErrors.ErrPullRequestNotFound.
				WithContext("operation", operation).
				WithContext("pr_number", prNumber).
				WithContext("repo", ghc.fullName())
		}
	}

	return domainErrors.NewAppError(domainErrors.TypeVCS, fmt.Sprintf("failed to %s #%d", operation, prNumber), err).
		WithContext("repo", ghc.fullName())
}
