package tool

import (
	"context"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
)

type ToolNodeFactory struct {
	dispatcher protocol.ToolDispatcher
}

func NewToolNodeFactory(dispatcher protocol.ToolDispatcher) *ToolNodeFactory {
	return &ToolNodeFactory{dispatcher: dispatcher}
}

func (f *ToolNodeFactory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Behavior, error) {
	return NewToolNode(nodeID, config, f.dispatcher)
}

func (f *ToolNodeFactory) Kind() models.NodeKind {
	return models.NodeKindTool
}

func (f *ToolNodeFactory) Name() string {
	return "Tool Call"
}

func (f *ToolNodeFactory) Description() string {
	return "Dispatches a named tool call through the tool-registry collaborator"
}

func (f *ToolNodeFactory) Schema() *models.JSONSchema {
	return &models.JSONSchema{
		Type:  "object",
		Title: "Tool Node Configuration",
		Properties: map[string]*models.Property{
			"tool": {
				Type:        "string",
				Description: "Registered tool name",
			},
			"input": {
				Type:        "object",
				Description: "Tool input; values may be mentions",
			},
		},
		Required: []string{"tool"},
	}
}
