// Package tool provides the tool-call node: it dispatches a named tool
// through the injected tool-registry collaborator. Tool-level failures become
// node failures, never run crashes.
package tool

import (
	"context"
	"errors"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
)

type ToolNode struct {
	id         string
	toolName   string
	input      map[string]any
	dispatcher protocol.ToolDispatcher
}

func NewToolNode(id string, config map[string]any, dispatcher protocol.ToolDispatcher) (*ToolNode, error) {
	if dispatcher == nil {
		return nil, errors.New("tool node requires a tool dispatcher")
	}

	toolName, _ := config["tool"].(string)
	if toolName == "" {
		return nil, errors.New("tool node requires a 'tool' name")
	}

	input, _ := config["input"].(map[string]any)
	if input == nil {
		input = map[string]any{}
	}

	return &ToolNode{
		id:         id,
		toolName:   toolName,
		input:      input,
		dispatcher: dispatcher,
	}, nil
}

func (n *ToolNode) Execute(ctx context.Context, _ models.ExecutionContext) (map[string]any, error) {
	output, err := n.dispatcher.CallTool(ctx, n.toolName, n.input)
	if err != nil {
		return nil, &models.ErrorInfo{Name: "ToolError", Message: err.Error()}
	}

	if output == nil {
		output = map[string]any{}
	}

	return output, nil
}
