package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/voltway/weaver/pkg/models"
)

// MockPersistence is a mock implementation of persistence.Persistence.
type MockPersistence struct {
	mock.Mock
}

func (m *MockPersistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	args := m.Called(ctx)

	workflows, _ := args.Get(0).([]*models.Workflow)

	return workflows, args.Error(1)
}

func (m *MockPersistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	args := m.Called(ctx, workflow)

	return args.Error(0)
}

func (m *MockPersistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	args := m.Called(ctx, id)

	workflow, _ := args.Get(0).(*models.Workflow)

	return workflow, args.Error(1)
}

func (m *MockPersistence) DeleteWorkflow(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockPersistence) WebhookByID(ctx context.Context, id string) (*models.Webhook, error) {
	args := m.Called(ctx, id)

	webhook, _ := args.Get(0).(*models.Webhook)

	return webhook, args.Error(1)
}

func (m *MockPersistence) SaveWebhook(ctx context.Context, webhook *models.Webhook) error {
	args := m.Called(ctx, webhook)

	return args.Error(0)
}

func (m *MockPersistence) RecordWebhookTrigger(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)

	return args.Error(0)
}

func (m *MockPersistence) SaveRun(ctx context.Context, run *models.Run) error {
	args := m.Called(ctx, run)

	return args.Error(0)
}

func (m *MockPersistence) RunByID(ctx context.Context, id string) (*models.Run, error) {
	args := m.Called(ctx, id)

	run, _ := args.Get(0).(*models.Run)

	return run, args.Error(1)
}

func (m *MockPersistence) RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.Run, error) {
	args := m.Called(ctx, workflowID)

	runs, _ := args.Get(0).([]*models.Run)

	return runs, args.Error(1)
}

func (m *MockPersistence) Schedules(ctx context.Context) ([]*models.Schedule, error) {
	args := m.Called(ctx)

	schedules, _ := args.Get(0).([]*models.Schedule)

	return schedules, args.Error(1)
}

func (m *MockPersistence) SaveSchedule(ctx context.Context, schedule *models.Schedule) error {
	args := m.Called(ctx, schedule)

	return args.Error(0)
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
