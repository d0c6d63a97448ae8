package schedule

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voltway/weaver/pkg/engine"
	"github.com/voltway/weaver/pkg/mocks"
	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/registry"
	"github.com/voltway/weaver/pkg/services"
	"github.com/voltway/weaver/pkg/testutil"
)

func newTestScheduler(t *testing.T, persist *mocks.MockPersistence) *Scheduler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes(&mocks.MockModelClient{}, &mocks.MockToolDispatcher{})

	executor := engine.NewExecutor(logger, reg)
	runs := services.NewRuns(logger, persist, executor, nil)

	return NewScheduler(logger, persist, runs)
}

func TestScheduler_Start_RegistersActiveSchedules(t *testing.T) {
	active, err := models.NewSchedule("active", "wf-1", "*/5 * * * *")
	require.NoError(t, err)

	inactive, err := models.NewSchedule("inactive", "wf-1", "0 * * * *")
	require.NoError(t, err)
	inactive.Active = false

	// Stored before validation tightened; must be skipped, not fatal.
	broken := &models.Schedule{
		ID:             "broken",
		WorkflowID:     "wf-1",
		CronExpression: "not a cron expression",
		Active:         true,
	}

	persist := &mocks.MockPersistence{}
	persist.On("Schedules", mock.Anything).Return([]*models.Schedule{active, inactive, broken}, nil)

	scheduler := newTestScheduler(t, persist)
	require.NoError(t, scheduler.Start(t.Context()))

	defer scheduler.Stop()

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	assert.Len(t, scheduler.entries, 1)
	assert.Contains(t, scheduler.entries, "active")
}

func TestScheduler_Register_ReplacesExistingEntry(t *testing.T) {
	scheduler := newTestScheduler(t, &mocks.MockPersistence{})

	schedule, err := models.NewSchedule("sched-1", "wf-1", "*/5 * * * *")
	require.NoError(t, err)
	require.NoError(t, scheduler.Register(schedule))

	schedule.CronExpression = "0 * * * *"
	require.NoError(t, scheduler.Register(schedule))

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	assert.Len(t, scheduler.entries, 1)
}

func TestScheduler_Register_RejectsInvalidCron(t *testing.T) {
	scheduler := newTestScheduler(t, &mocks.MockPersistence{})

	err := scheduler.Register(&models.Schedule{
		ID:             "sched-1",
		WorkflowID:     "wf-1",
		CronExpression: "every full moon",
	})
	require.Error(t, err)
}

func TestScheduler_Unregister(t *testing.T) {
	scheduler := newTestScheduler(t, &mocks.MockPersistence{})

	schedule, err := models.NewSchedule("sched-1", "wf-1", "*/5 * * * *")
	require.NoError(t, err)
	require.NoError(t, scheduler.Register(schedule))

	scheduler.Unregister("sched-1")

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	assert.Empty(t, scheduler.entries)
}

func TestScheduler_TriggerStartsRun(t *testing.T) {
	wf := testutil.CreateTestWorkflow("scheduled",
		[]*models.Node{
			testutil.CreateTestNode("in", models.NodeKindInput),
			testutil.CreateTestNode("out", models.NodeKindOutput, testutil.WithConfig(map[string]any{
				"fields": map[string]any{"echo": testutil.Mention("in", "text")},
			})),
		},
		[]*models.Edge{testutil.Edge("in", "out")})

	saved := make(chan *models.Run, 1)

	persist := &mocks.MockPersistence{}
	persist.On("WorkflowByID", mock.Anything, wf.ID).Return(wf, nil)
	persist.On("SaveRun", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		run, _ := args.Get(1).(*models.Run)
		saved <- run
	}).Return(nil)

	scheduler := newTestScheduler(t, persist)
	scheduler.trigger("sched-1", wf.ID, map[string]any{"text": "tick"})

	select {
	case run := <-saved:
		assert.Equal(t, "schedule:sched-1", run.TriggeredBy)
		assert.Equal(t, models.RunStatusCompleted, run.Status)
		assert.Equal(t, "tick", run.Output["echo"])
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run never completed")
	}
}
