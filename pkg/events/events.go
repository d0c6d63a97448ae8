// Package events defines the lifecycle events emitted while executing a
// workflow run. Event type values are the wire names streamed to webhook and
// interactive consumers.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/voltway/weaver/pkg/models"
)

type EventType string

const (
	WorkflowStartEvent EventType = "WORKFLOW_START"
	NodeStartEvent     EventType = "NODE_START"
	NodeEndEvent       EventType = "NODE_END"
	WorkflowEndEvent   EventType = "WORKFLOW_END"
)

// Platform bus topic for cross-process fan-out of run lifecycle events.
const Topic = "weaver.runs"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

// Event is implemented by every lifecycle event.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id"`
	RunID      string    `json:"run_id"`
}

// WorkflowStart is the first event of every run.
type WorkflowStart struct {
	BaseEvent

	TriggeredBy string         `json:"triggered_by"`
	Query       map[string]any `json:"query,omitempty"`
}

func (e WorkflowStart) GetType() EventType {
	return WorkflowStartEvent
}

// NodeStart is emitted immediately before a node's behavior executes. Skipped
// nodes never produce a NodeStart.
type NodeStart struct {
	BaseEvent

	NodeID   string          `json:"node_id"`
	NodeKind models.NodeKind `json:"node_kind"`
	NodeName string          `json:"node_name,omitempty"`
}

func (e NodeStart) GetType() EventType {
	return NodeStartEvent
}

// NodeEnd is emitted when a node reaches a terminal status, including skipped
// and cancelled nodes. Failures are embedded as a normalized {name, message}
// error rather than surfaced as transport-level errors.
type NodeEnd struct {
	BaseEvent

	NodeID     string               `json:"node_id"`
	Status     models.NodeRunStatus `json:"status"`
	Output     map[string]any       `json:"output,omitempty"`
	Error      *models.ErrorInfo    `json:"error,omitempty"`
	DurationMs int64                `json:"duration_ms"`
}

func (e NodeEnd) GetType() EventType {
	return NodeEndEvent
}

// WorkflowEnd is always the last event of a run; exactly one is emitted per
// run regardless of outcome.
type WorkflowEnd struct {
	BaseEvent

	Status        models.RunStatus  `json:"status"`
	Output        map[string]any    `json:"output,omitempty"`
	Error         *models.ErrorInfo `json:"error,omitempty"`
	DurationMs    int64             `json:"duration_ms"`
	NodesExecuted int               `json:"nodes_executed"`
}

func (e WorkflowEnd) GetType() EventType {
	return WorkflowEndEvent
}

func NewBaseEvent(eventType EventType, workflowID, runID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		RunID:      runID,
	}
}
