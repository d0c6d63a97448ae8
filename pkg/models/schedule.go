package models

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSchedule is returned when schedule validation fails.
var ErrInvalidSchedule = errors.New("invalid schedule configuration")

// Schedule triggers runs of a stored workflow on a cron expression.
// Uses standard 5-field cron format (minute hour day month weekday).
type Schedule struct {
	ID             string         `json:"id"              validate:"required"`
	WorkflowID     string         `json:"workflow_id"     validate:"required"`
	CronExpression string         `json:"cron_expression" validate:"required"`
	Query          map[string]any `json:"query,omitempty"`
	Active         bool           `json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewSchedule creates an active schedule after validating the cron expression.
func NewSchedule(id, workflowID, cronExpression string) (*Schedule, error) {
	now := time.Now().UTC()
	schedule := &Schedule{
		ID:             id,
		WorkflowID:     workflowID,
		CronExpression: cronExpression,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Validate performs validation on the schedule fields.
func (s *Schedule) Validate() error {
	if s.ID == "" || s.WorkflowID == "" || s.CronExpression == "" {
		return ErrInvalidSchedule
	}

	if _, err := cron.ParseStandard(s.CronExpression); err != nil {
		return err
	}

	return nil
}
