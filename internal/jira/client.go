package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/jiralink/internal/logger"
	"github.com/thomas-vilte/jiralink/internal/models"
	"github.com/thomas-vilte/jiralink/internal/tickets"
)

var _ tickets.TicketProvider = (*Client)(nil)

const defaultTimeout = 30 * time.Second

// ticketFields is the field list requested from the issue endpoint.
const ticketFields = "project,summary,issuetype,fixVersions"

type HTTPClient = httpclient.HTTPClient

// Client reads ticket summaries from the Jira Cloud REST API v3.
type Client struct {
	baseURL string
	token   string
	client  HTTPClient
}

type (
	issueResponse struct {
		Key    string      `json:"key"`
		Fields issueFields `json:"fields"`
	}

	issueFields struct {
		Summary     string          `json:"summary"`
		IssueType   issueType       `json:"issuetype"`
		Project     project         `json:"project"`
		FixVersions []fixVersionRef `json:"fixVersions"`
	}

	issueType struct {
		Name    string `json:"name"`
		IconURL string `json:"iconUrl"`
	}

	project struct {
		Name string `json:"name"`
		Key  string `json:"key"`
	}

	fixVersionRef struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
)

// NewClient builds a client for baseURL. token is either a raw
// "email:api-token" pair or an already base64 encoded credential. A nil
// httpClient gets a default client with a timeout.
func NewClient(baseURL, token string, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  httpClient,
	}
}

// BrowseURL is the web address of a ticket or project.
func (c *Client) BrowseURL(key string) string {
	return fmt.Sprintf("%s/browse/%s", c.baseURL, key)
}

func (c *Client) authorization() string {
	if strings.Contains(c.token, ":") {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.token))
	}
	return "Basic " + c.token
}

// GetTicketDetails fetches the summary, type, project and fix versions of key.
func (c *Client) GetTicketDetails(ctx context.Context, key string) (models.TicketSummary, error) {
	log := logger.FromContext(ctx)

	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?fields=%s", c.baseURL, url.PathEscape(key), ticketFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.TicketSummary{}, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to build Jira request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.authorization())

	log.Debug("fetching jira ticket", "issue_key", key)

	resp, err := c.client.Do(req)
	if err != nil {
		return models.TicketSummary{}, domainErrors.ErrJiraUnavailable.
			WithError(err).
			WithContext("key", key)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug("error closing response body", "error", err)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return models.TicketSummary{}, domainErrors.ErrTicketNotFound.WithContext("key", key)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.TicketSummary{}, domainErrors.ErrJiraUnauthorized.
			WithContext("key", key).
			WithContext("status", resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError:
		return models.TicketSummary{}, domainErrors.ErrJiraUnavailable.
			WithContext("key", key).
			WithContext("status", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.TicketSummary{}, domainErrors.ErrJiraResponse.
			WithError(fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))).
			WithContext("key", key).
			WithContext("status", resp.StatusCode)
	}

	var issue issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return models.TicketSummary{}, domainErrors.ErrJiraResponse.
			WithError(err).
			WithContext("key", key)
	}

	return c.toSummary(key, issue), nil
}

func (c *Client) toSummary(requested string, issue issueResponse) models.TicketSummary {
	key := issue.Key
	if key == "" {
		key = requested
	}

	versions := make([]models.FixVersion, 0, len(issue.Fields.FixVersions))
	for _, v := range issue.Fields.FixVersions {
		versions = append(versions, models.FixVersion{Name: v.Name, ID: v.ID})
	}

	return models.TicketSummary{
		Key:     key,
		Summary: issue.Fields.Summary,
		URL:     c.BrowseURL(key),
		Type: models.IssueType{
			Name: issue.Fields.IssueType.Name,
			Icon: issue.Fields.IssueType.IconURL,
		},
		Project: models.Project{
			Name: issue.Fields.Project.Name,
			Key:  issue.Fields.Project.Key,
			URL:  c.BrowseURL(issue.Fields.Project.Key),
		},
		FixVersions: versions,
	}
}
