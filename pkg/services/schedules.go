package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// Schedules manages cron trigger records. The scheduler process picks stored
// records up on start; see pkg/schedule.
type Schedules struct {
	logger      *slog.Logger
	persistence persistence.Persistence
}

func NewSchedules(logger *slog.Logger, p persistence.Persistence) *Schedules {
	return &Schedules{
		logger:      logger.With("module", "schedules"),
		persistence: p,
	}
}

// CreateSchedule registers a cron trigger for a workflow.
func (s *Schedules) CreateSchedule(ctx context.Context, workflowID, cronExpression string, query map[string]any) (*models.Schedule, error) {
	if _, err := s.persistence.WorkflowByID(ctx, workflowID); err != nil {
		return nil, err
	}

	schedule, err := models.NewSchedule(uuid.New().String(), workflowID, cronExpression)
	if err != nil {
		return nil, &ServiceError{Op: "CreateSchedule", Err: ErrInvalidRequest, Message: err.Error()}
	}

	schedule.Query = query

	if err := s.persistence.SaveSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// ListSchedules returns every stored schedule.
func (s *Schedules) ListSchedules(ctx context.Context) ([]*models.Schedule, error) {
	return s.persistence.Schedules(ctx)
}
