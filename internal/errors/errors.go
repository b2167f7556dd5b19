package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypePattern       ErrorType = "PATTERN"
	TypeTicket        ErrorType = "TICKET"
	TypeVCS           ErrorType = "VCS"
	TypeVersion       ErrorType = "VERSION"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if pattern, ok := e.Context["pattern"].(string); ok && pattern != "" {
			msg += fmt.Sprintf(" - pattern %q", pattern)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors of the same type and message, so derived errors
// (WithError, WithContext...) still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Pattern errors
var (
	ErrPatternCompilation = NewAppError(TypePattern, "invalid regular expression", nil).
		WithSuggestion("Patterns use RE2 syntax: lookarounds and backreferences are not supported")
)

// Configuration errors
var (
	ErrJiraTokenMissing = NewAppError(TypeConfiguration, "Jira token is missing", nil).
				WithSuggestion("Set the jira-token input (base64 of email:api_token, or email:api_token)")

	ErrJiraBaseURLMissing = NewAppError(TypeConfiguration, "Jira base URL is missing", nil).
				WithSuggestion("Set the jira-base-url input, e.g. https://your-domain.atlassian.net")

	ErrGitHubTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
				WithSuggestion("Pass github-token: ${{ secrets.GITHUB_TOKEN }}")

	ErrInvalidSource = NewAppError(TypeConfiguration, "unsupported issue key source", nil).
				WithSuggestion("Use one of: pr-title, branch, both")

	ErrConfigFile = NewAppError(TypeConfiguration, "failed to read configuration file", nil)
)

// Ticket errors
var (
	ErrIssueKeyNotFound = NewAppError(TypeTicket, "Jira issue key not found", nil).
				WithSuggestion("Put the key (e.g. ABC-123) in the PR title or branch name, or configure custom-issue-number-regexp")

	ErrTicketNotFound = NewAppError(TypeTicket, "Jira ticket not found", nil)

	ErrJiraUnauthorized = NewAppError(TypeTicket, "Jira rejected the credentials", nil).
				WithSuggestion("Check the jira-token input and that the user can browse the project")

	ErrJiraUnavailable = NewAppError(TypeTicket, "Jira API is unavailable", nil)

	ErrJiraResponse = NewAppError(TypeTicket, "unexpected Jira API response", nil)
)

// VCS errors
var (
	ErrNotPullRequest = NewAppError(TypeVCS, "event is not a pull request", nil)

	ErrPullRequestNotFound = NewAppError(TypeVCS, "pull request not found", nil).
				WithSuggestion("Check the repository and PR number, and that the token can read it")

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Pass a valid token through the github-token input")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Grant the workflow `pull-requests: write` permission")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes and re-run the job")
)

// Version errors
var (
	ErrFixVersionMismatch = NewAppError(TypeVersion, "fix version mismatch", nil)
)
