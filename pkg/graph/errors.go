package graph

import (
	"errors"
	"fmt"
)

// Validation failures. All are terminal: a workflow that fails validation is
// never partially executed.
var (
	ErrCycleDetected        = errors.New("workflow graph contains a cycle")
	ErrDanglingEdge         = errors.New("edge references a node that does not exist")
	ErrInvalidMentionTarget = errors.New("mention references a node that is not an ancestor")
	ErrMissingInputNode     = errors.New("workflow requires exactly one input node with no incoming edges")
	ErrMissingOutputNode    = errors.New("workflow requires at least one output node")
	ErrDuplicateNodeID      = errors.New("duplicate node id")
	ErrDisconnectedGraph    = errors.New("workflow graph is not connected")
	ErrUnknownNodeKind      = errors.New("unknown node kind")
)

// ValidationError pins a validation failure to the node or edge that caused it.
type ValidationError struct {
	NodeID string
	EdgeID string
	Err    error
}

func (e *ValidationError) Error() string {
	switch {
	case e.NodeID != "":
		return fmt.Sprintf("node %s: %v", e.NodeID, e.Err)
	case e.EdgeID != "":
		return fmt.Sprintf("edge %s: %v", e.EdgeID, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
