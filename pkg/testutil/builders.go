// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/google/uuid"

	"github.com/voltway/weaver/pkg/models"
)

// CreateTestNode creates a node with default values that can be overridden.
func CreateTestNode(id string, kind models.NodeKind, overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:     id,
		Kind:   kind,
		Name:   "Test " + string(kind),
		Config: map[string]any{},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithConfig sets the node configuration.
func WithConfig(config map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Config = config
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.Node) {
	return func(n *models.Node) {
		n.Name = name
	}
}

// Edge creates an edge between two nodes.
func Edge(source, target string) *models.Edge {
	return &models.Edge{
		ID:     uuid.New().String(),
		Source: source,
		Target: target,
	}
}

// BranchEdge creates a conditional branch edge with the given handle.
func BranchEdge(source, target, handle string) *models.Edge {
	return &models.Edge{
		ID:           uuid.New().String(),
		Source:       source,
		Target:       target,
		SourceHandle: handle,
	}
}

// CreateTestWorkflow assembles a workflow from nodes and edges.
func CreateTestWorkflow(name string, nodes []*models.Node, edges []*models.Edge) *models.Workflow {
	return &models.Workflow{
		ID:    uuid.New().String(),
		Name:  name,
		Nodes: nodes,
		Edges: edges,
		Owner: "test",
	}
}

// Mention builds the tagged mention config value for a node output path.
func Mention(nodeID, path string) map[string]any {
	return map[string]any{
		"kind":   models.ValueKindMention,
		"nodeId": nodeID,
		"path":   path,
	}
}

// Literal builds the tagged literal config value.
func Literal(value any) map[string]any {
	return map[string]any{
		"kind":  models.ValueKindLiteral,
		"value": value,
	}
}
