package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/voltway/weaver/pkg/engine"
	"github.com/voltway/weaver/pkg/eventbus"
	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// Runs orchestrates workflow executions: it loads the stored graph, starts the
// engine, tracks in-flight runs for cancellation, relays run events onto the
// platform bus, and persists the run record on completion.
type Runs struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	executor    *engine.Executor
	bus         eventbus.EventPublisher

	mu     sync.Mutex
	active map[string]*engine.Handle
}

// NewRuns creates the run service. The platform bus is optional; when nil,
// events stay on the per-run stream only.
func NewRuns(logger *slog.Logger, p persistence.Persistence, executor *engine.Executor, bus eventbus.EventPublisher) *Runs {
	return &Runs{
		logger:      logger.With("module", "runs"),
		persistence: p,
		executor:    executor,
		bus:         bus,
		active:      make(map[string]*engine.Handle),
	}
}

// StartRunRequest carries everything a trigger supplies to launch a run.
type StartRunRequest struct {
	WorkflowID  string
	TriggeredBy string
	Query       map[string]any
	Timeout     time.Duration

	// DisableHistory skips persisting the run record on completion. Webhook
	// triggers default to disabled history.
	DisableHistory bool
}

// StartRun loads the workflow and launches its execution. The run outlives
// the caller's context: cancellation happens through the returned handle or
// the run timeout, not through request teardown.
func (s *Runs) StartRun(ctx context.Context, req StartRunRequest) (*engine.Handle, error) {
	workflow, err := s.persistence.WorkflowByID(ctx, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	handle, err := s.executor.Start(context.WithoutCancel(ctx), workflow, engine.RunOptions{
		TriggeredBy: req.TriggeredBy,
		Query:       req.Query,
		Timeout:     req.Timeout,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.active[handle.RunID] = handle
	s.mu.Unlock()

	if s.bus != nil {
		go func() {
			if err := eventbus.Relay(context.WithoutCancel(ctx), s.bus, handle.RunID, handle.Events); err != nil {
				s.logger.Warn("Platform bus relay failed", "run_id", handle.RunID, "error", err)
			}
		}()
	}

	go s.finalize(handle, req.DisableHistory)

	return handle, nil
}

// finalize waits for the run to end, persists its record and releases the
// active-run slot.
func (s *Runs) finalize(handle *engine.Handle, disableHistory bool) {
	run, err := handle.Wait(context.Background())

	s.mu.Lock()
	delete(s.active, handle.RunID)
	s.mu.Unlock()

	if err != nil || run == nil {
		return
	}

	if disableHistory {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.persistence.SaveRun(ctx, run); err != nil {
		s.logger.Error("Failed to persist run record", "run_id", run.ID, "error", err)
	}
}

// CancelRun requests early termination of an in-flight run.
func (s *Runs) CancelRun(_ context.Context, runID string) error {
	s.mu.Lock()
	handle, ok := s.active[runID]
	s.mu.Unlock()

	if !ok {
		return &ServiceError{Op: "CancelRun", Err: ErrRunNotActive, Message: "run " + runID + " is not active"}
	}

	handle.Cancel()

	return nil
}

// ActiveRun returns the handle of an in-flight run.
func (s *Runs) ActiveRun(runID string) (*engine.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.active[runID]

	return handle, ok
}

// RunByID retrieves a stored run record.
func (s *Runs) RunByID(ctx context.Context, runID string) (*models.Run, error) {
	return s.persistence.RunByID(ctx, runID)
}

// RunsByWorkflow returns the stored run history of one workflow, newest first.
func (s *Runs) RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.Run, error) {
	return s.persistence.RunsByWorkflow(ctx, workflowID)
}
