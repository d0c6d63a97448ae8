// Package protocol defines the contracts between the execution engine, node
// behaviors and the external collaborators they depend on. Behaviors are pure
// with respect to the graph: every side effect goes through an injected
// collaborator, so the engine itself has no direct external dependency.
package protocol

import (
	"context"

	"github.com/voltway/weaver/pkg/models"
)

// Behavior executes one node with its configuration already resolved. The
// returned map is the node's output, the structure mentions from downstream
// nodes are resolved against. Errors are caught at the node boundary by the
// engine and converted into the node's terminal result; they never abort the
// run directly.
type Behavior interface {
	Execute(ctx context.Context, execCtx models.ExecutionContext) (map[string]any, error)
}

// NodeFactory creates behavior instances for one node kind and provides its
// metadata. A fresh behavior is created per node execution from the node's
// resolved config.
type NodeFactory interface {
	// Create builds a behavior from a node's resolved configuration.
	Create(ctx context.Context, nodeID string, config map[string]any) (Behavior, error)

	// Kind returns the node kind this factory serves.
	Kind() models.NodeKind

	// Name returns the human-readable name for this node kind.
	Name() string

	// Description returns what this node kind does.
	Description() string

	// Schema returns the JSON schema describing this kind's configuration.
	Schema() *models.JSONSchema
}
