package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// SaveRun upserts a run record.
func (p *Persistence) SaveRun(ctx context.Context, run *models.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO runs (id, workflow_id, data, started_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET data = $3`,
		run.ID, run.WorkflowID, data, run.StartedAt)
	if err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	return nil
}

// RunByID retrieves a run record by its id.
func (p *Persistence) RunByID(ctx context.Context, id string) (*models.Run, error) {
	var raw []byte

	err := p.db.QueryRowContext(ctx, `SELECT data FROM runs WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewStoreError("RunByID", "run", id, persistence.ErrRunNotFound)
	}

	if err != nil {
		return nil, persistence.NewStoreError("RunByID", "run", id, err)
	}

	var run models.Run
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, persistence.NewStoreError("RunByID", "run", id, err)
	}

	return &run, nil
}

// RunsByWorkflow returns the stored runs of one workflow, newest first.
func (p *Persistence) RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.Run, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT data FROM runs WHERE workflow_id = $1 ORDER BY started_at DESC`, workflowID)
	if err != nil {
		return nil, persistence.NewStoreError("RunsByWorkflow", "run", "", err)
	}
	defer rows.Close()

	runs := make([]*models.Run, 0)

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, persistence.NewStoreError("RunsByWorkflow", "run", "", err)
		}

		var run models.Run
		if err := json.Unmarshal(raw, &run); err != nil {
			return nil, persistence.NewStoreError("RunsByWorkflow", "run", "", err)
		}

		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewStoreError("RunsByWorkflow", "run", "", err)
	}

	return runs, nil
}
