package tickets

import (
	"context"

	"github.com/thomas-vilte/jiralink/internal/models"
)

// TicketProvider resolves an issue key into the ticket snapshot shown on the PR.
type TicketProvider interface {
	GetTicketDetails(ctx context.Context, key string) (models.TicketSummary, error)
}
