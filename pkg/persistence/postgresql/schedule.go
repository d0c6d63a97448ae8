package postgresql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// Schedules returns every stored schedule.
func (p *Persistence) Schedules(ctx context.Context) ([]*models.Schedule, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT data FROM schedules ORDER BY updated_at DESC`)
	if err != nil {
		return nil, persistence.NewStoreError("Schedules", "schedule", "", err)
	}
	defer rows.Close()

	schedules := make([]*models.Schedule, 0)

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, persistence.NewStoreError("Schedules", "schedule", "", err)
		}

		var schedule models.Schedule
		if err := json.Unmarshal(raw, &schedule); err != nil {
			return nil, persistence.NewStoreError("Schedules", "schedule", "", err)
		}

		schedules = append(schedules, &schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewStoreError("Schedules", "schedule", "", err)
	}

	return schedules, nil
}

// SaveSchedule upserts a schedule after validating its cron expression.
func (p *Persistence) SaveSchedule(ctx context.Context, schedule *models.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return persistence.NewStoreError("SaveSchedule", "schedule", schedule.ID, err)
	}

	schedule.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(schedule)
	if err != nil {
		return persistence.NewStoreError("SaveSchedule", "schedule", schedule.ID, err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO schedules (id, workflow_id, data, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET workflow_id = $2, data = $3, updated_at = $4`,
		schedule.ID, schedule.WorkflowID, data, schedule.UpdatedAt)
	if err != nil {
		return persistence.NewStoreError("SaveSchedule", "schedule", schedule.ID, err)
	}

	return nil
}
