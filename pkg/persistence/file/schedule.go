package file

import (
	"context"
	"time"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// Schedules returns every stored schedule.
func (fp *Persistence) Schedules(_ context.Context) ([]*models.Schedule, error) {
	ids, err := fp.listIDs(schedulesDir)
	if err != nil {
		return nil, persistence.NewStoreError("Schedules", "schedule", "", err)
	}

	schedules := make([]*models.Schedule, 0, len(ids))

	for _, id := range ids {
		var schedule models.Schedule
		if err := fp.readDocument(schedulesDir, id, &schedule); err != nil {
			return nil, persistence.NewStoreError("Schedules", "schedule", id, err)
		}

		schedules = append(schedules, &schedule)
	}

	return schedules, nil
}

// SaveSchedule stores a schedule after validating its cron expression.
func (fp *Persistence) SaveSchedule(_ context.Context, schedule *models.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return persistence.NewStoreError("SaveSchedule", "schedule", schedule.ID, err)
	}

	schedule.UpdatedAt = time.Now().UTC()

	if err := fp.writeDocument(schedulesDir, schedule.ID, schedule); err != nil {
		return persistence.NewStoreError("SaveSchedule", "schedule", schedule.ID, err)
	}

	return nil
}
