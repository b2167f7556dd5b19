// Package action adapts the GitHub Actions runner environment: event
// payload, step outputs, annotations and the job summary.
package action

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/go-github/v80/github"
	"github.com/sethvargo/go-githubactions"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/models"
)

// Output names published by the link command.
const (
	OutputIssueKey    = "jira-issue-key"
	OutputIssueFound  = "jira-issue-found"
	OutputIssueSource = "jira-issue-source"
)

// nullSource is written to jira-issue-source when no key was found.
const nullSource = "null"

var pullRequestEvents = map[string]bool{
	"pull_request":        true,
	"pull_request_target": true,
}

// Event is the pull request that triggered the workflow run.
type Event struct {
	PR     models.PRData
	Owner  string
	Repo   string
	APIURL string
}

type Runtime struct {
	gha *githubactions.Action
}

func New(opts ...githubactions.Option) *Runtime {
	return &Runtime{gha: githubactions.New(opts...)}
}

func (r *Runtime) Input(name string) string {
	return r.gha.GetInput(name)
}

// PullRequest decodes the event payload. Events other than pull_request and
// pull_request_target yield ErrNotPullRequest.
func (r *Runtime) PullRequest() (Event, error) {
	ghCtx, err := r.gha.Context()
	if err != nil {
		return Event{}, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to read the workflow context", err)
	}

	if !pullRequestEvents[ghCtx.EventName] {
		return Event{}, domainErrors.ErrNotPullRequest.WithContext("event", ghCtx.EventName)
	}

	raw, err := json.Marshal(ghCtx.Event)
	if err != nil {
		return Event{}, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to encode the event payload", err)
	}
	var payload github.PullRequestEvent
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Event{}, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to decode the event payload", err)
	}
	if payload.PullRequest == nil {
		return Event{}, domainErrors.ErrNotPullRequest.
			WithContext("event", ghCtx.EventName).
			WithContext("reason", "payload has no pull_request")
	}

	pr := payload.GetPullRequest()
	number := pr.GetNumber()
	if number == 0 {
		number = payload.GetNumber()
	}

	owner, repo, _ := strings.Cut(ghCtx.Repository, "/")
	if owner == "" || repo == "" {
		owner = payload.GetRepo().GetOwner().GetLogin()
		repo = payload.GetRepo().GetName()
	}

	return Event{
		PR: models.PRData{
			Number:     number,
			Title:      pr.GetTitle(),
			BranchName: pr.GetHead().GetRef(),
			Body:       pr.GetBody(),
		},
		Owner:  owner,
		Repo:   repo,
		APIURL: ghCtx.APIURL,
	}, nil
}

// SetOutputs publishes the three step outputs. An empty key is reported as
// not found with source "null".
func (r *Runtime) SetOutputs(o models.Outputs) {
	source := string(o.Source)
	if o.Key == "" || source == "" {
		source = nullSource
	}
	r.gha.SetOutput(OutputIssueKey, o.Key)
	r.gha.SetOutput(OutputIssueFound, strconv.FormatBool(o.Key != ""))
	r.gha.SetOutput(OutputIssueSource, source)
}

func (r *Runtime) Errorf(msg string, args ...any) {
	r.gha.Errorf(msg, args...)
}

func (r *Runtime) Warningf(msg string, args ...any) {
	r.gha.Warningf(msg, args...)
}

func (r *Runtime) Noticef(msg string, args ...any) {
	r.gha.Noticef(msg, args...)
}

// Summary appends markdown to the job summary. It does nothing outside a
// runner.
func (r *Runtime) Summary(markdown string) {
	r.gha.AddStepSummary(markdown)
}
