package file_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
	"github.com/voltway/weaver/pkg/persistence/file"
	"github.com/voltway/weaver/pkg/testutil"
)

func setupPersistence(t *testing.T) persistence.Persistence {
	t.Helper()

	return file.NewPersistence(t.TempDir())
}

func TestFilePersistence_WorkflowRoundTrip(t *testing.T) {
	persist := setupPersistence(t)

	wf := testutil.CreateTestWorkflow("round trip",
		[]*models.Node{
			testutil.CreateTestNode("in", models.NodeKindInput),
			testutil.CreateTestNode("out", models.NodeKindOutput, testutil.WithConfig(map[string]any{
				"fields": map[string]any{"echo": testutil.Mention("in", "text")},
			})),
		},
		[]*models.Edge{testutil.Edge("in", "out")})
	wf.Variables = map[string]any{"env": "test"}

	require.NoError(t, persist.SaveWorkflow(t.Context(), wf))

	loaded, err := persist.WorkflowByID(t.Context(), wf.ID)
	require.NoError(t, err)

	assert.Equal(t, wf.ID, loaded.ID)
	assert.Equal(t, wf.Name, loaded.Name)
	assert.Len(t, loaded.Nodes, 2)
	assert.Len(t, loaded.Edges, 1)
	assert.Equal(t, "test", loaded.Variables["env"])

	// Mentions survive serialization as tagged maps.
	mentions := models.CollectMentions(loaded.Nodes[1].Config)
	require.Len(t, mentions, 1)
	assert.Equal(t, "in", mentions[0].NodeID)
}

func TestFilePersistence_Workflows_ListsAll(t *testing.T) {
	persist := setupPersistence(t)

	for range 3 {
		wf := testutil.CreateTestWorkflow("listed",
			[]*models.Node{
				testutil.CreateTestNode("in", models.NodeKindInput),
				testutil.CreateTestNode("out", models.NodeKindOutput),
			},
			[]*models.Edge{testutil.Edge("in", "out")})
		require.NoError(t, persist.SaveWorkflow(t.Context(), wf))
	}

	workflows, err := persist.Workflows(t.Context())
	require.NoError(t, err)
	assert.Len(t, workflows, 3)
}

func TestFilePersistence_WorkflowByID_NotFound(t *testing.T) {
	persist := setupPersistence(t)

	_, err := persist.WorkflowByID(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestFilePersistence_DeleteWorkflow(t *testing.T) {
	persist := setupPersistence(t)

	wf := testutil.CreateTestWorkflow("deleted",
		[]*models.Node{
			testutil.CreateTestNode("in", models.NodeKindInput),
			testutil.CreateTestNode("out", models.NodeKindOutput),
		},
		[]*models.Edge{testutil.Edge("in", "out")})

	require.NoError(t, persist.SaveWorkflow(t.Context(), wf))
	require.NoError(t, persist.DeleteWorkflow(t.Context(), wf.ID))

	_, err := persist.WorkflowByID(t.Context(), wf.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestFilePersistence_WebhookRoundTrip(t *testing.T) {
	persist := setupPersistence(t)

	webhook, err := models.NewWebhook("wf-1", "s3cret")
	require.NoError(t, err)
	require.NoError(t, persist.SaveWebhook(t.Context(), webhook))

	loaded, err := persist.WebhookByID(t.Context(), webhook.ID)
	require.NoError(t, err)

	assert.Equal(t, webhook.ID, loaded.ID)
	assert.Equal(t, "wf-1", loaded.WorkflowID)
	assert.True(t, loaded.RequiresSignature())
	assert.True(t, loaded.IsActive)
}

func TestFilePersistence_WebhookByID_NotFound(t *testing.T) {
	persist := setupPersistence(t)

	_, err := persist.WebhookByID(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWebhookNotFound(err))
}

func TestFilePersistence_RecordWebhookTrigger(t *testing.T) {
	persist := setupPersistence(t)

	webhook, err := models.NewWebhook("wf-1", "")
	require.NoError(t, err)
	require.NoError(t, persist.SaveWebhook(t.Context(), webhook))

	at := time.Now().UTC()
	require.NoError(t, persist.RecordWebhookTrigger(t.Context(), webhook.ID, at))
	require.NoError(t, persist.RecordWebhookTrigger(t.Context(), webhook.ID, at.Add(time.Second)))

	loaded, err := persist.WebhookByID(t.Context(), webhook.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), loaded.TriggerCount)
	require.NotNil(t, loaded.LastTriggeredAt)
	assert.Equal(t, at.Add(time.Second).Unix(), loaded.LastTriggeredAt.Unix())
}

func TestFilePersistence_RunRoundTrip(t *testing.T) {
	persist := setupPersistence(t)

	endedAt := time.Now().UTC()
	run := &models.Run{
		ID:          "run-1",
		WorkflowID:  "wf-1",
		TriggeredBy: "api",
		Status:      models.RunStatusCompleted,
		Output:      map[string]any{"result": "done"},
		NodeResults: map[string]*models.NodeResult{
			"in": {NodeID: "in", Status: models.NodeStatusCompleted, Output: map[string]any{"text": "x"}},
		},
		StartedAt: endedAt.Add(-time.Second),
		EndedAt:   &endedAt,
	}

	require.NoError(t, persist.SaveRun(t.Context(), run))

	loaded, err := persist.RunByID(t.Context(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, loaded.Status)
	assert.Equal(t, "done", loaded.Output["result"])
	require.Contains(t, loaded.NodeResults, "in")
	assert.Equal(t, models.NodeStatusCompleted, loaded.NodeResults["in"].Status)
}

func TestFilePersistence_RunsByWorkflow_NewestFirst(t *testing.T) {
	persist := setupPersistence(t)

	base := time.Now().UTC()

	for i := range 3 {
		run := &models.Run{
			ID:         string(rune('a' + i)),
			WorkflowID: "wf-1",
			Status:     models.RunStatusCompleted,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, persist.SaveRun(t.Context(), run))
	}

	other := &models.Run{ID: "other", WorkflowID: "wf-2", Status: models.RunStatusCompleted, StartedAt: base}
	require.NoError(t, persist.SaveRun(t.Context(), other))

	runs, err := persist.RunsByWorkflow(t.Context(), "wf-1")
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, "a", runs[2].ID)
}

func TestFilePersistence_RunByID_NotFound(t *testing.T) {
	persist := setupPersistence(t)

	_, err := persist.RunByID(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestFilePersistence_ScheduleRoundTrip(t *testing.T) {
	persist := setupPersistence(t)

	schedule, err := models.NewSchedule("sched-1", "wf-1", "*/5 * * * *")
	require.NoError(t, err)
	require.NoError(t, persist.SaveSchedule(t.Context(), schedule))

	schedules, err := persist.Schedules(t.Context())
	require.NoError(t, err)
	require.Len(t, schedules, 1)

	assert.Equal(t, "sched-1", schedules[0].ID)
	assert.Equal(t, "*/5 * * * *", schedules[0].CronExpression)
	assert.True(t, schedules[0].Active)
}

func TestFilePersistence_HealthCheck(t *testing.T) {
	persist := setupPersistence(t)
	assert.NoError(t, persist.HealthCheck(t.Context()))

	missing := file.NewPersistence("/nonexistent/weaver-test-root")
	assert.Error(t, missing.HealthCheck(t.Context()))
}
