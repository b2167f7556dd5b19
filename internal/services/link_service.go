package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thomas-vilte/jiralink/internal/branch"
	"github.com/thomas-vilte/jiralink/internal/config"
	"github.com/thomas-vilte/jiralink/internal/description"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/fixversion"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/issuekey"
	"github.com/thomas-vilte/jiralink/internal/logger"
	"github.com/thomas-vilte/jiralink/internal/models"
	"github.com/thomas-vilte/jiralink/internal/tickets"
	"github.com/thomas-vilte/jiralink/internal/vcs"
	"golang.org/x/sync/errgroup"
)

// Outcome describes what a Link run did. Version is nil when the fix
// version gate is disabled.
type Outcome struct {
	Skipped    bool
	SkipReason branch.Reason

	Key     string
	Source  models.Source
	Ticket  *models.TicketSummary
	Updated bool

	Version  *fixversion.Result
	Mismatch string
}

// Outputs converts the outcome into the values published to the workflow.
func (o Outcome) Outputs() models.Outputs {
	if o.Key == "" {
		return models.Outputs{}
	}
	return models.Outputs{Key: o.Key, Found: true, Source: o.Source}
}

// Linker is what the link command needs from LinkService.
type Linker interface {
	Link(ctx context.Context, pr models.PRData) (Outcome, error)
}

type LinkService struct {
	tickets tickets.TicketProvider
	prs     vcs.PullRequestClient
	config  *config.Config
	trans   *i18n.Translations
}

type LinkOption func(*LinkService)

func WithLinkTicketProvider(p tickets.TicketProvider) LinkOption {
	return func(s *LinkService) {
		s.tickets = p
	}
}

func WithLinkPRClient(c vcs.PullRequestClient) LinkOption {
	return func(s *LinkService) {
		s.prs = c
	}
}

func WithLinkConfig(cfg *config.Config) LinkOption {
	return func(s *LinkService) {
		s.config = cfg
	}
}

func WithLinkTranslations(t *i18n.Translations) LinkOption {
	return func(s *LinkService) {
		s.trans = t
	}
}

func NewLinkService(opts ...LinkOption) *LinkService {
	s := &LinkService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.Default()
	}
	return s
}

var _ Linker = (*LinkService)(nil)

// Link annotates pr with its Jira ticket. Branch exemptions return a
// skipped Outcome and no error. A fix version mismatch returns the filled
// Outcome together with ErrFixVersionMismatch.
func (s *LinkService) Link(ctx context.Context, pr models.PRData) (Outcome, error) {
	log := logger.FromContext(ctx)

	if s.tickets == nil || s.prs == nil {
		return Outcome{}, domainErrors.NewAppError(domainErrors.TypeInternal, "link service is missing its ticket provider or PR client", nil)
	}

	decision, err := branch.Evaluate(pr.BranchName, s.config.BranchIgnorePattern)
	if err != nil {
		return Outcome{}, err
	}
	if decision.Skip {
		log.Info("branch skipped",
			"branch", pr.BranchName,
			"reason", decision.Reason,
			"pattern", decision.Pattern)
		return Outcome{Skipped: true, SkipReason: decision.Reason}, nil
	}

	opts := s.config.IssueKeyOptions()
	match, found, err := issuekey.Resolve(pr, opts)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return Outcome{}, domainErrors.ErrIssueKeyNotFound.
			WithContext("source", string(opts.Source)).
			WithContext("pr_number", pr.Number)
	}

	out := Outcome{Key: match.Key, Source: match.Source}
	log = log.With("issue_key", match.Key, "source", match.Source)
	ctx = logger.WithLogger(ctx, log)

	log.Debug("issue key resolved")

	var (
		ticket  models.TicketSummary
		current = pr
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tickets.GetTicketDetails(gctx, match.Key)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if pr.Number > 0 {
		g.Go(func() error {
			fresh, err := s.prs.GetPR(gctx, pr.Number)
			if err != nil {
				return err
			}
			current = fresh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to load ticket or pull request", "error", err)
		return Outcome{}, err
	}
	out.Ticket = &ticket

	body := description.Merge(current.Body, description.BuildInfoBlock(ticket, s.config.SkipTicketTitle))
	switch {
	case pr.Number <= 0:
		log.Debug("no pull request number, description left untouched")
	case body != current.Body:
		if err := s.prs.UpdatePRBody(ctx, pr.Number, body); err != nil {
			log.Error("failed to update pull request", "error", err, "pr_number", pr.Number)
			return Outcome{}, err
		}
		out.Updated = true
		log.Info("pull request description updated", "pr_number", pr.Number)
	default:
		log.Info("pull request description already up to date", "pr_number", pr.Number)
	}

	fv := s.config.FixVersionOptions()
	if !fv.Enabled() {
		return out, nil
	}

	result, err := fixversion.Compare(fv.Expected, ticket.FixVersions, fv.Pattern, fv.Wildcards)
	if err != nil {
		return out, err
	}
	out.Version = &result

	if result.Matches {
		log.Info("fix version matches",
			"fix_version", fv.Expected,
			"jira_version", result.JiraVersion)
		return out, nil
	}

	out.Mismatch = MismatchMessage(s.trans, fv.Expected, result)
	log.Warn("fix version mismatch",
		"expected", fv.Expected,
		"jira_version", result.JiraVersion,
		"extracted", result.ExtractedVersion)
	return out, domainErrors.ErrFixVersionMismatch.
		WithError(errors.New(out.Mismatch)).
		WithContext("expected", fv.Expected).
		WithContext("jira_version", result.JiraVersion)
}

// MismatchMessage explains a failed fix version comparison. t may be nil.
func MismatchMessage(t *i18n.Translations, expected string, r fixversion.Result) string {
	data := map[string]interface{}{
		"Expected":    expected,
		"JiraVersion": r.JiraVersion,
		"Extracted":   r.ExtractedVersion,
	}

	var id, fallback string
	switch {
	case r.JiraVersion == "":
		id = "fix_version_missing"
		fallback = fmt.Sprintf("Version mismatch: Expected version `%s` but JIRA ticket has no fix version set.", expected)
	case r.ExtractedVersion == "":
		id = "fix_version_mismatch"
		fallback = fmt.Sprintf("Version mismatch: Expected version `%s` but JIRA ticket has fix version `%s`.", expected, r.JiraVersion)
	default:
		id = "fix_version_mismatch_extracted"
		fallback = fmt.Sprintf("Version mismatch: Expected version `%s` but JIRA ticket has fix version `%s` (extracted: %s).",
			expected, r.JiraVersion, r.ExtractedVersion)
	}

	if t == nil {
		return fallback
	}
	return t.GetMessage(id, 0, data)
}
