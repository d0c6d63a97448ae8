package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// Workflows returns every stored workflow, newest first.
func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT data FROM workflows ORDER BY created_at DESC`)
	if err != nil {
		return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
	}
	defer rows.Close()

	var workflows []*models.Workflow

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
		}

		var workflow models.Workflow
		if err := json.Unmarshal(raw, &workflow); err != nil {
			return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
		}

		workflows = append(workflows, &workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
	}

	return workflows, nil
}

// WorkflowByID retrieves a workflow by its ID.
func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	var raw []byte

	err := p.db.QueryRowContext(ctx, `SELECT data FROM workflows WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, persistence.ErrWorkflowNotFound)
	}

	if err != nil {
		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(raw, &workflow); err != nil {
		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, err)
	}

	return &workflow, nil
}

// SaveWorkflow upserts a workflow, stamping creation and update times.
func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	data, err := json.Marshal(workflow)
	if err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO workflows (id, data, created_at, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET data = $2, updated_at = $4`,
		workflow.ID, data, workflow.CreatedAt, workflow.UpdatedAt)
	if err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	return nil
}

// DeleteWorkflow removes a workflow by its ID. Deleting a missing workflow is
// not an error.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id); err != nil {
		return persistence.NewStoreError("DeleteWorkflow", "workflow", id, err)
	}

	return nil
}
