package file

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// Workflows returns every stored workflow sorted by creation time, newest
// first.
func (fp *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	ids, err := fp.listIDs(workflowsDir)
	if err != nil {
		return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := fp.WorkflowByID(ctx, id)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

// WorkflowByID retrieves a workflow by its ID.
func (fp *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	var workflow models.Workflow

	if err := fp.readDocument(workflowsDir, id, &workflow); err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, err)
	}

	return &workflow, nil
}

// SaveWorkflow stores a workflow, stamping creation and update times.
func (fp *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if err := fp.writeDocument(workflowsDir, workflow.ID, workflow); err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	return nil
}

// DeleteWorkflow removes a workflow by its ID. Deleting a missing workflow is
// not an error.
func (fp *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	if err := fp.deleteDocument(workflowsDir, id); err != nil {
		return persistence.NewStoreError("DeleteWorkflow", "workflow", id, err)
	}

	return nil
}
