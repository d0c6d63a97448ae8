package input

import (
	"context"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
)

type InputNodeFactory struct{}

func NewInputNodeFactory() *InputNodeFactory {
	return &InputNodeFactory{}
}

func (f *InputNodeFactory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Behavior, error) {
	return NewInputNode(nodeID, config)
}

func (f *InputNodeFactory) Kind() models.NodeKind {
	return models.NodeKindInput
}

func (f *InputNodeFactory) Name() string {
	return "Input"
}

func (f *InputNodeFactory) Description() string {
	return "Produces the run's initial query payload, validated against the declared schema"
}

func (f *InputNodeFactory) Schema() *models.JSONSchema {
	return &models.JSONSchema{
		Type:  "object",
		Title: "Input Node Configuration",
		Properties: map[string]*models.Property{
			"schema": {
				Type:        "object",
				Description: "JSON schema the query payload must satisfy",
			},
		},
	}
}
