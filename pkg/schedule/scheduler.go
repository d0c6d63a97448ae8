// Package schedule starts runs of stored workflows on cron expressions. It is
// a trigger adapter like the webhook handler: it owns no execution logic
// beyond handing the run service a start request on every tick.
package schedule

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
	"github.com/voltway/weaver/pkg/services"
)

type Scheduler struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	runs        *services.Runs
	cron        *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewScheduler(logger *slog.Logger, p persistence.Persistence, runs *services.Runs) *Scheduler {
	return &Scheduler{
		logger:      logger.With("module", "scheduler"),
		persistence: p,
		runs:        runs,
		cron:        cron.New(),
		entries:     make(map[string]cron.EntryID),
	}
}

// Start loads every active schedule and begins ticking. Invalid stored
// schedules are logged and skipped rather than blocking the rest.
func (s *Scheduler) Start(ctx context.Context) error {
	schedules, err := s.persistence.Schedules(ctx)
	if err != nil {
		return err
	}

	for _, schedule := range schedules {
		if !schedule.Active {
			continue
		}

		if err := s.register(schedule); err != nil {
			s.logger.Error("Failed to register schedule", "schedule_id", schedule.ID, "error", err)
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", "schedules", len(s.entries))

	return nil
}

// Register adds or replaces a schedule at runtime.
func (s *Scheduler) Register(schedule *models.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	s.Unregister(schedule.ID)

	return s.register(schedule)
}

func (s *Scheduler) register(schedule *models.Schedule) error {
	scheduleID := schedule.ID
	workflowID := schedule.WorkflowID
	query := schedule.Query

	entryID, err := s.cron.AddFunc(schedule.CronExpression, func() {
		s.trigger(scheduleID, workflowID, query)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[scheduleID] = entryID
	s.mu.Unlock()

	return nil
}

// Unregister removes a schedule's cron entry.
func (s *Scheduler) Unregister(scheduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[scheduleID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, scheduleID)
	}
}

func (s *Scheduler) trigger(scheduleID, workflowID string, query map[string]any) {
	logger := s.logger.With("schedule_id", scheduleID, "workflow_id", workflowID)

	handle, err := s.runs.StartRun(context.Background(), services.StartRunRequest{
		WorkflowID:  workflowID,
		TriggeredBy: "schedule:" + scheduleID,
		Query:       query,
	})
	if err != nil {
		logger.Error("Failed to start scheduled run", "error", err)

		return
	}

	logger.Info("Scheduled run started", "run_id", handle.RunID)
}

// Stop halts ticking. Runs already started keep executing.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
