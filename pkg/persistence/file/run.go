package file

import (
	"context"
	"os"
	"sort"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// SaveRun stores a run record. Runs are written once, after the run reaches a
// terminal status.
func (fp *Persistence) SaveRun(_ context.Context, run *models.Run) error {
	if err := fp.writeDocument(runsDir, run.ID, run); err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	return nil
}

// RunByID retrieves a run record by its id.
func (fp *Persistence) RunByID(_ context.Context, id string) (*models.Run, error) {
	var run models.Run

	if err := fp.readDocument(runsDir, id, &run); err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewStoreError("RunByID", "run", id, persistence.ErrRunNotFound)
		}

		return nil, persistence.NewStoreError("RunByID", "run", id, err)
	}

	return &run, nil
}

// RunsByWorkflow returns the stored runs of one workflow, newest first.
func (fp *Persistence) RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.Run, error) {
	ids, err := fp.listIDs(runsDir)
	if err != nil {
		return nil, persistence.NewStoreError("RunsByWorkflow", "run", "", err)
	}

	runs := make([]*models.Run, 0)

	for _, id := range ids {
		run, err := fp.RunByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if run.WorkflowID == workflowID {
			runs = append(runs, run)
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}
