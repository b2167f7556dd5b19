package factory

import (
	"context"

	"github.com/thomas-vilte/jiralink/internal/action"
	"github.com/thomas-vilte/jiralink/internal/config"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/jira"
	"github.com/thomas-vilte/jiralink/internal/services"
	"github.com/thomas-vilte/jiralink/internal/vcs/github"
)

type LinkServiceFactoryInterface interface {
	CreateLinkService(ctx context.Context, cfg *config.Config, ev action.Event) (services.Linker, error)
}

type LinkServiceFactory struct {
	trans      *i18n.Translations
	httpClient jira.HTTPClient
}

// NewLinkServiceFactory builds link services backed by Jira Cloud and the
// GitHub REST API. httpClient may be nil.
func NewLinkServiceFactory(trans *i18n.Translations, httpClient jira.HTTPClient) *LinkServiceFactory {
	return &LinkServiceFactory{
		trans:      trans,
		httpClient: httpClient,
	}
}

func (f *LinkServiceFactory) CreateLinkService(_ context.Context, cfg *config.Config, ev action.Event) (services.Linker, error) {
	if ev.Owner == "" || ev.Repo == "" {
		return nil, domainErrors.NewAppError(domainErrors.TypeVCS, "repository owner and name are required", nil).
			WithSuggestion("Run inside a GitHub Actions job or set GITHUB_REPOSITORY=owner/repo")
	}

	ghClient, err := github.NewGitHubClient(ev.Owner, ev.Repo, cfg.GitHubToken, ev.APIURL)
	if err != nil {
		return nil, err
	}

	return services.NewLinkService(
		services.WithLinkTicketProvider(jira.NewClient(cfg.JiraBaseURL, cfg.JiraToken, f.httpClient)),
		services.WithLinkPRClient(ghClient),
		services.WithLinkConfig(cfg),
		services.WithLinkTranslations(f.trans),
	), nil
}
