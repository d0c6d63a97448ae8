// Package engine executes validated workflow graphs. The scheduler walks the
// graph in dependency order, dispatching ready nodes to a bounded worker pool
// and recording results as the single writer of run state. Node failures stay
// local: downstream nodes are skipped while independent branches keep running.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/voltway/weaver/pkg/eventbus"
	"github.com/voltway/weaver/pkg/events"
	"github.com/voltway/weaver/pkg/graph"
	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/otelhelper"
	"github.com/voltway/weaver/pkg/registry"
	"github.com/voltway/weaver/pkg/resolver"
)

const (
	DefaultMaxConcurrency = 4
	DefaultRunTimeout     = 5 * time.Minute
)

// branchOutputKey is the conditional output field that names the selected
// branch; it must match the SourceHandle of the surviving edge.
const branchOutputKey = "branch"

type Executor struct {
	logger         *slog.Logger
	registry       *registry.Registry
	tracer         trace.Tracer
	maxConcurrency int
	defaultTimeout time.Duration
}

type Option func(*Executor)

// WithMaxConcurrency bounds how many node behaviors execute simultaneously
// within a single run.
func WithMaxConcurrency(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithDefaultTimeout sets the run deadline applied when RunOptions carries
// none.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.defaultTimeout = d
		}
	}
}

// WithTracer enables per-run and per-node tracing spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Executor) {
		e.tracer = tracer
	}
}

func NewExecutor(logger *slog.Logger, reg *registry.Registry, opts ...Option) *Executor {
	executor := &Executor{
		logger:         logger.With("module", "engine"),
		registry:       reg,
		maxConcurrency: DefaultMaxConcurrency,
		defaultTimeout: DefaultRunTimeout,
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor
}

// RunOptions carries per-run parameters supplied by the trigger.
type RunOptions struct {
	// RunID overrides the generated run id when set.
	RunID string

	TriggeredBy string
	Query       map[string]any
	Timeout     time.Duration
}

// completion is a worker's report back to the scheduler loop.
type completion struct {
	nodeID  string
	output  map[string]any
	err     error
	endedAt time.Time
}

// Start validates the workflow and launches its execution. It returns as soon
// as the run is admitted; progress is observed through the handle's event
// stream or by waiting on it.
func (e *Executor) Start(ctx context.Context, wf *models.Workflow, opts RunOptions) (*Handle, error) {
	vg, err := graph.Validate(wf)
	if err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	run := &models.Run{
		ID:          runID,
		WorkflowID:  wf.ID,
		TriggeredBy: opts.TriggeredBy,
		Status:      models.RunStatusRunning,
		NodeResults: make(map[string]*models.NodeResult, len(wf.Nodes)),
		StartedAt:   time.Now().UTC(),
	}

	for _, node := range wf.Nodes {
		run.NodeResults[node.ID] = &models.NodeResult{
			NodeID: node.ID,
			Status: models.NodeStatusWaiting,
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)

	handle := &Handle{
		RunID:      runID,
		WorkflowID: wf.ID,
		Events:     eventbus.NewStream(),
		cancel:     cancel,
		done:       make(chan struct{}),
		run:        run,
	}

	execCtx := models.ExecutionContext{
		RunID:       runID,
		WorkflowID:  wf.ID,
		TriggeredBy: opts.TriggeredBy,
		Query:       opts.Query,
		Variables:   wf.Variables,
	}

	go e.schedule(runCtx, cancel, vg, run, execCtx, handle)

	return handle, nil
}

// schedule is the run's main loop and the only goroutine that mutates the run
// record or publishes to the handle's stream. Workers report back over a
// channel sized to the node count so a worker finishing after finalization
// never blocks.
func (e *Executor) schedule(ctx context.Context, cancel context.CancelFunc, vg *graph.ValidatedGraph, run *models.Run, execCtx models.ExecutionContext, handle *Handle) {
	defer cancel()

	logger := e.logger.With("run_id", run.ID, "workflow_id", run.WorkflowID)
	logger.Info("Run started", "triggered_by", run.TriggeredBy, "nodes", len(vg.NodesByID))

	if e.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.run",
			attribute.String(otelhelper.WorkflowIDKey, run.WorkflowID),
			attribute.String(otelhelper.RunIDKey, run.ID))
		defer span.End()
	}

	handle.Events.Publish(events.WorkflowStart{
		BaseEvent:   events.NewBaseEvent(events.WorkflowStartEvent, run.WorkflowID, run.ID),
		TriggeredBy: run.TriggeredBy,
		Query:       execCtx.Query,
	})

	indeg := make(map[string]int, len(vg.InDegrees))
	for id, d := range vg.InDegrees {
		indeg[id] = d
	}

	// Every source node seeds the ready set. The validator admits graphs with
	// zero-in-degree nodes besides the input node, and a join below one of
	// them only drains once its whole frontier has been dispatched.
	ready := make([]string, 0, 1)
	for _, id := range vg.Order {
		if indeg[id] == 0 {
			ready = append(ready, id)
		}
	}

	deselected := make(map[string]bool)
	completions := make(chan completion, len(vg.NodesByID))
	sem := make(chan struct{}, e.maxConcurrency)

	pending := len(vg.NodesByID)
	executed := 0

	finish := func(id string, status models.NodeRunStatus, output map[string]any, errInfo *models.ErrorInfo, endedAt time.Time) {
		result := run.NodeResults[id]
		result.Status = status
		result.Output = output
		result.Error = errInfo
		result.EndedAt = &endedAt
		pending--

		var durationMs int64
		if result.StartedAt != nil {
			durationMs = endedAt.Sub(*result.StartedAt).Milliseconds()
		}

		handle.Events.Publish(events.NodeEnd{
			BaseEvent:  events.NewBaseEvent(events.NodeEndEvent, run.WorkflowID, run.ID),
			NodeID:     id,
			Status:     status,
			Output:     output,
			Error:      errInfo,
			DurationMs: durationMs,
		})

		// Branch selection: out-edges whose handle disagrees with the
		// chosen branch have their targets deselected.
		if status == models.NodeStatusCompleted {
			if branch, ok := output[branchOutputKey].(string); ok {
				for _, edge := range vg.BranchEdges[id] {
					if edge.SourceHandle != branch {
						deselected[edge.Target] = true
					}
				}
			}
		}

		for _, succ := range vg.Successors[id] {
			indeg[succ]--
			if indeg[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}

	for pending > 0 {
		// Dispatch everything ready. Nodes with a failed, skipped or
		// cancelled dependency, and branch-deselected nodes, settle as
		// skipped without executing.
		for len(ready) > 0 {
			id := ready[0]
			ready = ready[1:]

			node := vg.NodesByID[id]
			now := time.Now().UTC()

			if deselected[id] || e.hasDeadDependency(vg, run, id) {
				finish(id, models.NodeStatusSkipped, nil, nil, now)

				continue
			}

			config, err := resolver.ResolveConfig(node.Config, run.NodeResults)
			if err != nil {
				logger.Error("Node config resolution failed", "node_id", id, "error", err)
				finish(id, models.NodeStatusFailed, nil, normalizeError(err), time.Now().UTC())

				continue
			}

			behavior, err := e.registry.CreateBehavior(ctx, node.Kind, id, config)
			if err != nil {
				logger.Error("Node behavior creation failed", "node_id", id, "error", err)
				finish(id, models.NodeStatusFailed, nil, normalizeError(err), time.Now().UTC())

				continue
			}

			result := run.NodeResults[id]
			result.Status = models.NodeStatusRunning
			result.StartedAt = &now
			executed++

			handle.Events.Publish(events.NodeStart{
				BaseEvent: events.NewBaseEvent(events.NodeStartEvent, run.WorkflowID, run.ID),
				NodeID:    id,
				NodeKind:  node.Kind,
				NodeName:  node.Name,
			})

			go func(id string, kind models.NodeKind) {
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					completions <- completion{nodeID: id, err: ctx.Err(), endedAt: time.Now().UTC()}

					return
				}
				defer func() { <-sem }()

				nodeCtx := ctx

				var span trace.Span

				if e.tracer != nil {
					nodeCtx, span = otelhelper.StartSpan(ctx, e.tracer, "node.execute",
						attribute.String(otelhelper.RunIDKey, run.ID),
						attribute.String(otelhelper.NodeIDKey, id),
						attribute.String(otelhelper.NodeKindKey, string(kind)))
					defer span.End()
				}

				output, execErr := behavior.Execute(nodeCtx, execCtx)
				if execErr != nil && span != nil {
					otelhelper.SetError(span, execErr, attribute.String(otelhelper.NodeIDKey, id))
				}

				completions <- completion{nodeID: id, output: output, err: execErr, endedAt: time.Now().UTC()}
			}(id, node.Kind)
		}

		if pending == 0 {
			break
		}

		select {
		case done := <-completions:
			if done.err != nil {
				status := models.NodeStatusFailed
				if errors.Is(done.err, context.Canceled) || errors.Is(done.err, context.DeadlineExceeded) {
					status = models.NodeStatusCancelled
				}

				finish(done.nodeID, status, nil, normalizeError(done.err), done.endedAt)
			} else {
				finish(done.nodeID, models.NodeStatusCompleted, done.output, nil, done.endedAt)
			}
		case <-ctx.Done():
			e.finalizeCancelled(ctx, vg, run, handle, executed)

			return
		}
	}

	e.finalize(vg, run, handle, executed, nil)
}

// hasDeadDependency reports whether any direct dependency settled without
// completing. All dependencies are terminal by the time a node becomes ready.
func (e *Executor) hasDeadDependency(vg *graph.ValidatedGraph, run *models.Run, id string) bool {
	for _, pred := range vg.Predecessors[id] {
		if run.NodeResults[pred].Status != models.NodeStatusCompleted {
			return true
		}
	}

	return false
}

// finalizeCancelled settles every non-terminal node as cancelled and closes
// the run. Workers still executing report into a buffered channel nobody
// reads; their results are discarded.
func (e *Executor) finalizeCancelled(ctx context.Context, vg *graph.ValidatedGraph, run *models.Run, handle *Handle, executed int) {
	now := time.Now().UTC()

	for _, id := range vg.Order {
		result := run.NodeResults[id]
		if result.Status.Terminal() {
			continue
		}

		result.Status = models.NodeStatusCancelled
		result.EndedAt = &now

		var durationMs int64
		if result.StartedAt != nil {
			durationMs = now.Sub(*result.StartedAt).Milliseconds()
		}

		handle.Events.Publish(events.NodeEnd{
			BaseEvent:  events.NewBaseEvent(events.NodeEndEvent, run.WorkflowID, run.ID),
			NodeID:     id,
			Status:     models.NodeStatusCancelled,
			DurationMs: durationMs,
		})
	}

	errInfo := &models.ErrorInfo{Name: "CancelledError", Message: "run was cancelled"}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		errInfo = &models.ErrorInfo{Name: "TimeoutError", Message: "run exceeded its deadline"}
	}

	e.finalize(vg, run, handle, executed, errInfo)
}

// finalize computes the run's terminal status, merges the output node results
// and emits the single WORKFLOW_END event before closing the stream.
func (e *Executor) finalize(vg *graph.ValidatedGraph, run *models.Run, handle *Handle, executed int, cancelErr *models.ErrorInfo) {
	now := time.Now().UTC()
	run.EndedAt = &now

	switch {
	case cancelErr != nil:
		run.Status = models.RunStatusCancelled
		run.Error = cancelErr
	case e.outputsCompleted(vg, run):
		run.Status = models.RunStatusCompleted
	default:
		run.Status = models.RunStatusFailed
		run.Error = firstFailure(vg, run)
	}

	if run.Status == models.RunStatusCompleted {
		run.Output = e.mergeOutputs(vg, run)
	}

	handle.Events.Publish(events.WorkflowEnd{
		BaseEvent:     events.NewBaseEvent(events.WorkflowEndEvent, run.WorkflowID, run.ID),
		Status:        run.Status,
		Output:        run.Output,
		Error:         run.Error,
		DurationMs:    now.Sub(run.StartedAt).Milliseconds(),
		NodesExecuted: executed,
	})
	handle.Events.Close()

	e.logger.Info("Run finished",
		"run_id", run.ID,
		"workflow_id", run.WorkflowID,
		"status", run.Status,
		"nodes_executed", executed,
		"duration_ms", now.Sub(run.StartedAt).Milliseconds())

	close(handle.done)
}

// outputsCompleted reports whether every output node completed; that is the
// success criterion for the whole run.
func (e *Executor) outputsCompleted(vg *graph.ValidatedGraph, run *models.Run) bool {
	for _, id := range vg.OutputNodeIDs {
		if run.NodeResults[id].Status != models.NodeStatusCompleted {
			return false
		}
	}

	return true
}

// mergeOutputs folds completed output node results into the run output in
// topological order, later nodes overwriting earlier ones key by key.
func (e *Executor) mergeOutputs(vg *graph.ValidatedGraph, run *models.Run) map[string]any {
	merged := make(map[string]any)

	for _, id := range vg.Order {
		if vg.NodesByID[id].Kind != models.NodeKindOutput {
			continue
		}

		result := run.NodeResults[id]
		if result.Status != models.NodeStatusCompleted {
			continue
		}

		for key, value := range result.Output {
			merged[key] = value
		}
	}

	return merged
}

// firstFailure returns the error of the earliest failed node in topological
// order, falling back to a generic error when everything merely skipped.
func firstFailure(vg *graph.ValidatedGraph, run *models.Run) *models.ErrorInfo {
	for _, id := range vg.Order {
		result := run.NodeResults[id]
		if result.Status == models.NodeStatusFailed && result.Error != nil {
			return result.Error
		}
	}

	return &models.ErrorInfo{Name: "RunError", Message: "one or more output nodes did not complete"}
}

// normalizeError maps internal errors onto the {name, message} shape consumers
// parse. Behaviors that already classified their failure pass through.
func normalizeError(err error) *models.ErrorInfo {
	var info *models.ErrorInfo
	if errors.As(err, &info) {
		return info
	}

	var resErr *resolver.ResolutionError
	if errors.As(err, &resErr) {
		return &models.ErrorInfo{Name: "ResolutionError", Message: resErr.Error()}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &models.ErrorInfo{Name: "TimeoutError", Message: "node execution exceeded the run deadline"}
	}

	if errors.Is(err, context.Canceled) {
		return &models.ErrorInfo{Name: "CancelledError", Message: "node execution was cancelled"}
	}

	return &models.ErrorInfo{Name: "BehaviorError", Message: err.Error()}
}
