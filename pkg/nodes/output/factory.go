package output

import (
	"context"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
)

type OutputNodeFactory struct{}

func NewOutputNodeFactory() *OutputNodeFactory {
	return &OutputNodeFactory{}
}

func (f *OutputNodeFactory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Behavior, error) {
	return NewOutputNode(nodeID, config)
}

func (f *OutputNodeFactory) Kind() models.NodeKind {
	return models.NodeKindOutput
}

func (f *OutputNodeFactory) Name() string {
	return "Output"
}

func (f *OutputNodeFactory) Description() string {
	return "Gathers resolved values into the run's externally visible result"
}

func (f *OutputNodeFactory) Schema() *models.JSONSchema {
	return &models.JSONSchema{
		Type:  "object",
		Title: "Output Node Configuration",
		Properties: map[string]*models.Property{
			"fields": {
				Type:        "object",
				Description: "Field map assembled into the run output; values may be mentions",
			},
		},
		Required: []string{"fields"},
	}
}
