package jira

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/models"
)

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

const issueJSON = `{
  "key": "ES-43",
  "fields": {
    "summary": "Add <b>login</b> page",
    "issuetype": {"name": "Story", "iconUrl": "https://example.atlassian.net/icons/story.svg"},
    "project": {"name": "Escalation", "key": "ES"},
    "fixVersions": [{"name": "android 4.17.0", "id": "10001"}, {"name": "Next Release", "id": "10002"}]
  }
}`

func TestGetTicketDetails_Success(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("fields")
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(issueJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "encoded-token", server.Client())

	ticket, err := client.GetTicketDetails(context.Background(), "ES-43")
	require.NoError(t, err)

	assert.Equal(t, "/rest/api/3/issue/ES-43", gotPath)
	assert.Equal(t, "project,summary,issuetype,fixVersions", gotQuery)
	assert.Equal(t, "Basic encoded-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)

	assert.Equal(t, models.TicketSummary{
		Key:     "ES-43",
		Summary: "Add <b>login</b> page",
		URL:     server.URL + "/browse/ES-43",
		Type:    models.IssueType{Name: "Story", Icon: "https://example.atlassian.net/icons/story.svg"},
		Project: models.Project{Name: "Escalation", Key: "ES", URL: server.URL + "/browse/ES"},
		FixVersions: []models.FixVersion{
			{Name: "android 4.17.0", ID: "10001"},
			{Name: "Next Release", ID: "10002"},
		},
	}, ticket)
}

func TestGetTicketDetails_EncodesRawCredentials(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := NewClient("https://example.atlassian.net", "me@example.com:secret", mockClient)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("me@example.com:secret"))
	mockClient.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Header.Get("Authorization") == want &&
			r.URL.String() == "https://example.atlassian.net/rest/api/3/issue/ES-1?fields=project,summary,issuetype,fixVersions"
	})).Return(response(http.StatusOK, `{"fields":{"summary":"s","project":{"key":"ES"}}}`), nil).Once()

	ticket, err := client.GetTicketDetails(context.Background(), "ES-1")
	require.NoError(t, err)
	assert.Equal(t, "ES-1", ticket.Key)
	assert.Equal(t, "https://example.atlassian.net/browse/ES-1", ticket.URL)
	assert.Empty(t, ticket.FixVersions)
	mockClient.AssertExpectations(t)
}

func TestGetTicketDetails_Errors(t *testing.T) {
	tests := []struct {
		name   string
		resp   *http.Response
		err    error
		expect *domainErrors.AppError
	}{
		{"not found", response(http.StatusNotFound, ""), nil, domainErrors.ErrTicketNotFound},
		{"unauthorized", response(http.StatusUnauthorized, ""), nil, domainErrors.ErrJiraUnauthorized},
		{"forbidden", response(http.StatusForbidden, ""), nil, domainErrors.ErrJiraUnauthorized},
		{"server error", response(http.StatusBadGateway, ""), nil, domainErrors.ErrJiraUnavailable},
		{"unexpected status", response(http.StatusBadRequest, `{"errorMessages":["bad"]}`), nil, domainErrors.ErrJiraResponse},
		{"malformed body", response(http.StatusOK, `{"fields":`), nil, domainErrors.ErrJiraResponse},
		{"transport failure", nil, errors.New("connection refused"), domainErrors.ErrJiraUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := new(MockHTTPClient)
			mockClient.On("Do", mock.Anything).Return(tt.resp, tt.err).Once()

			client := NewClient("https://example.atlassian.net", "token", mockClient)
			_, err := client.GetTicketDetails(context.Background(), "ES-404")

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expect), "got %v", err)

			var appErr *domainErrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "ES-404", appErr.Context["key"])
			mockClient.AssertExpectations(t)
		})
	}
}

func TestGetTicketDetails_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(issueJSON))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL, "token", nil).GetTicketDetails(ctx, "ES-43")
	assert.True(t, errors.Is(err, domainErrors.ErrJiraUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))
}
