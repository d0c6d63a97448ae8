// Package output provides the sink node of a workflow graph: it gathers
// resolved mentions into the run's externally visible result payload.
package output

import (
	"context"

	"github.com/voltway/weaver/pkg/models"
)

type OutputNode struct {
	id     string
	fields map[string]any
}

func NewOutputNode(id string, config map[string]any) (*OutputNode, error) {
	fields, _ := config["fields"].(map[string]any)
	if fields == nil {
		fields = map[string]any{}
	}

	return &OutputNode{id: id, fields: fields}, nil
}

// Execute returns the resolved field map as-is. Mentions inside the fields
// were already substituted before this behavior was created.
func (n *OutputNode) Execute(_ context.Context, _ models.ExecutionContext) (map[string]any, error) {
	return n.fields, nil
}
