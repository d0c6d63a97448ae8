package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/voltway/weaver/pkg/graph"
	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

type Workflow struct {
	persistence persistence.Persistence
	validator   *validator.Validate
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(p persistence.Persistence) *Workflow {
	return &Workflow{
		persistence: p,
		validator:   validator.New(),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListWorkflows returns every stored workflow.
func (w *Workflow) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.Workflows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// WorkflowByID retrieves a single workflow.
func (w *Workflow) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return workflow, nil
}

// CreateWorkflow validates and stores a new workflow. The graph must already
// be a well-formed DAG; invalid structures are rejected before anything is
// written.
func (w *Workflow) CreateWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, &ServiceError{Op: "CreateWorkflow", Err: ErrInvalidRequest, Message: "workflow cannot be nil"}
	}

	if err := w.validator.Struct(workflow); err != nil {
		return nil, &ServiceError{Op: "CreateWorkflow", Err: ErrInvalidRequest, Message: err.Error()}
	}

	if _, err := graph.Validate(workflow); err != nil {
		return nil, &ServiceError{Op: "CreateWorkflow", Err: ErrInvalidRequest, Message: err.Error()}
	}

	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	if err := w.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

// DeleteWorkflow removes a workflow.
func (w *Workflow) DeleteWorkflow(ctx context.Context, id string) error {
	return w.persistence.DeleteWorkflow(ctx, id)
}
