// Package models defines the core domain models for DAG-based workflow execution.
package models

import "time"

// NodeKind identifies the behavior a node executes. The set is closed: the
// registry rejects workflows that reference kinds outside of it.
type NodeKind string

const (
	NodeKindInput       NodeKind = "input"       // Produces the run's initial query payload
	NodeKindOutput      NodeKind = "output"      // Gathers the run's externally visible result
	NodeKindLLM         NodeKind = "llm"         // Invokes the model-generation collaborator
	NodeKindTool        NodeKind = "tool"        // Dispatches a named tool call
	NodeKindConditional NodeKind = "conditional" // Selects downstream branches
)

// Node represents a vertex in the workflow graph. Nodes are immutable during a
// single run; many runs may reference the same node definition.
type Node struct {
	ID          string         `json:"id"          validate:"required"`
	Kind        NodeKind       `json:"kind"        validate:"required"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Config      map[string]any `json:"config"`
	// OutputSchema declares the shape of the value this node produces. It is
	// display metadata plus reference-validation input; the executor never
	// coerces outputs to it.
	OutputSchema map[string]any `json:"output_schema,omitempty"`
}

// Edge is a directed dependency: Target may not execute before Source reached a
// terminal status. SourceHandle is only meaningful on edges leaving a
// conditional node, where it names the branch ("true"/"false") that activates
// the edge; everywhere else it is UI metadata.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"source_handle,omitempty"`
}

// Workflow represents a stored workflow graph.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description,omitempty"`
	Nodes       []*Node        `json:"nodes"`
	Edges       []*Edge        `json:"edges"`
	Variables   map[string]any `json:"variables,omitempty"`
	Owner       string         `json:"owner"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NodeByID returns the node with the given id, or nil.
func (w *Workflow) NodeByID(id string) *Node {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n
		}
	}

	return nil
}
