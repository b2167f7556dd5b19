package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("missing closing )")
	appErr := ErrPatternCompilation.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypePattern {
		t.Errorf("Expected type %s, got %s", TypePattern, appErr.Type)
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("Expected errors.Is to reach the wrapped error")
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrTicketNotFound.WithContext("key", "ABC-1").WithContext("status", 404)

	if appErr.Context["key"] != "ABC-1" {
		t.Errorf("Expected key context 'ABC-1', got %v", appErr.Context["key"])
	}

	if appErr.Context["status"] != 404 {
		t.Errorf("Expected status context 404, got %v", appErr.Context["status"])
	}

	if ErrTicketNotFound.Context != nil {
		t.Error("WithContext must not mutate the sentinel")
	}
}

func TestAppError_Is(t *testing.T) {
	derived := ErrIssueKeyNotFound.WithContext("source", "branch").WithError(errors.New("boom"))
	wrapped := fmt.Errorf("link failed: %w", derived)

	if !errors.Is(wrapped, ErrIssueKeyNotFound) {
		t.Error("Expected derived error to match its sentinel")
	}

	if errors.Is(wrapped, ErrTicketNotFound) {
		t.Error("Expected derived error not to match another sentinel of the same type")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name: "Simple error without underlying error",
			err:  ErrIssueKeyNotFound,
			contains: []string{
				"TICKET",
				"Jira issue key not found",
			},
		},
		{
			name: "Error with underlying error",
			err:  ErrJiraUnavailable.WithError(errors.New("502 Bad Gateway")),
			contains: []string{
				"TICKET",
				"Jira API is unavailable",
				"502 Bad Gateway",
			},
		},
		{
			name: "Error with pattern context",
			err:  ErrPatternCompilation.WithContext("pattern", "(?<=x)"),
			contains: []string{
				"PATTERN",
				`pattern "(?<=x)"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("Expected error message to contain %q, got %q", s, msg)
				}
			}
		})
	}
}

func TestAppError_WithSuggestion(t *testing.T) {
	appErr := ErrFixVersionMismatch.WithSuggestion("bump the ticket")

	if appErr.Suggestion != "bump the ticket" {
		t.Errorf("Expected suggestion to be set, got %q", appErr.Suggestion)
	}
	if ErrFixVersionMismatch.Suggestion != "" {
		t.Error("WithSuggestion must not mutate the sentinel")
	}
}
