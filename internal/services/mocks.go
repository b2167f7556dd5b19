package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/jiralink/internal/models"
)

type (
	MockTicketProvider struct {
		mock.Mock
	}

	MockPRClient struct {
		mock.Mock
	}
)

func (m *MockTicketProvider) GetTicketDetails(ctx context.Context, key string) (models.TicketSummary, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(models.TicketSummary), args.Error(1)
}

func (m *MockPRClient) GetPR(ctx context.Context, prNumber int) (models.PRData, error) {
	args := m.Called(ctx, prNumber)
	return args.Get(0).(models.PRData), args.Error(1)
}

func (m *MockPRClient) UpdatePRBody(ctx context.Context, prNumber int, body string) error {
	args := m.Called(ctx, prNumber, body)
	return args.Error(0)
}
