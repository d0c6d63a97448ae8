package models

import "time"

// RunStatus is the lifecycle state of one execution instance of a workflow.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// NodeRunStatus is the per-node state within a run.
type NodeRunStatus string

const (
	NodeStatusWaiting   NodeRunStatus = "waiting"
	NodeStatusRunning   NodeRunStatus = "running"
	NodeStatusCompleted NodeRunStatus = "completed"
	NodeStatusFailed    NodeRunStatus = "failed"
	NodeStatusSkipped   NodeRunStatus = "skipped"
	NodeStatusCancelled NodeRunStatus = "cancelled"
)

// Terminal reports whether the status is final for the node.
func (s NodeRunStatus) Terminal() bool {
	switch s {
	case NodeStatusCompleted, NodeStatusFailed, NodeStatusSkipped, NodeStatusCancelled:
		return true
	default:
		return false
	}
}

// ErrorInfo is the normalized {name, message} error shape attached to node
// results and run failures. Automation consumers parse this instead of
// internal error types.
type ErrorInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *ErrorInfo) Error() string {
	return e.Name + ": " + e.Message
}

// NodeResult records the outcome of a single node execution. It is never
// mutated once the node reaches a terminal status.
type NodeResult struct {
	NodeID    string         `json:"node_id"`
	Status    NodeRunStatus  `json:"status"`
	Output    map[string]any `json:"output,omitempty"`
	Error     *ErrorInfo     `json:"error,omitempty"`
	StartedAt *time.Time     `json:"started_at,omitempty"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
}

// Run is one execution instance of a workflow graph, from trigger to terminal
// status. Only the executor goroutine driving the run mutates it.
type Run struct {
	ID          string                 `json:"id"`
	WorkflowID  string                 `json:"workflow_id"`
	TriggeredBy string                 `json:"triggered_by"`
	Status      RunStatus              `json:"status"`
	NodeResults map[string]*NodeResult `json:"node_results"`
	Output      map[string]any         `json:"output,omitempty"`
	Error       *ErrorInfo             `json:"error,omitempty"`
	StartedAt   time.Time              `json:"started_at"`
	EndedAt     *time.Time             `json:"ended_at,omitempty"`
}

// ExecutionContext carries run-scoped data into node behaviors. Behaviors see
// their configuration fully resolved before Execute; the context only exposes
// identity and the run's initial payload.
type ExecutionContext struct {
	RunID       string         `json:"run_id"`
	WorkflowID  string         `json:"workflow_id"`
	TriggeredBy string         `json:"triggered_by"`
	Query       map[string]any `json:"query,omitempty"`
	Variables   map[string]any `json:"variables,omitempty"`
}
