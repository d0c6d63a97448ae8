package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedule(t *testing.T) {
	schedule, err := NewSchedule("sched-1", "wf-1", "*/10 * * * *")
	require.NoError(t, err)

	assert.True(t, schedule.Active)
	assert.False(t, schedule.CreatedAt.IsZero())
}

func TestNewSchedule_InvalidCronRejected(t *testing.T) {
	_, err := NewSchedule("sched-1", "wf-1", "every tuesday-ish")
	require.Error(t, err)
}

func TestSchedule_Validate_RequiredFields(t *testing.T) {
	cases := []Schedule{
		{WorkflowID: "wf-1", CronExpression: "* * * * *"},
		{ID: "sched-1", CronExpression: "* * * * *"},
		{ID: "sched-1", WorkflowID: "wf-1"},
	}

	for _, schedule := range cases {
		assert.Error(t, schedule.Validate())
	}
}

func TestSchedule_Validate_StandardFiveFieldFormat(t *testing.T) {
	valid := Schedule{ID: "s", WorkflowID: "w", CronExpression: "30 4 * * 1"}
	assert.NoError(t, valid.Validate())

	sixField := Schedule{ID: "s", WorkflowID: "w", CronExpression: "0 30 4 * * 1"}
	assert.Error(t, sixField.Validate())
}
