package llm

import (
	"context"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
)

type LLMNodeFactory struct {
	client protocol.ModelClient
}

func NewLLMNodeFactory(client protocol.ModelClient) *LLMNodeFactory {
	return &LLMNodeFactory{client: client}
}

func (f *LLMNodeFactory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Behavior, error) {
	return NewLLMNode(nodeID, config, f.client)
}

func (f *LLMNodeFactory) Kind() models.NodeKind {
	return models.NodeKindLLM
}

func (f *LLMNodeFactory) Name() string {
	return "Language Model"
}

func (f *LLMNodeFactory) Description() string {
	return "Renders a prompt template and invokes the model-generation collaborator"
}

func (f *LLMNodeFactory) Schema() *models.JSONSchema {
	return &models.JSONSchema{
		Type:  "object",
		Title: "LLM Node Configuration",
		Properties: map[string]*models.Property{
			"model": {
				Type:        "string",
				Description: "Model selector passed through to the provider abstraction",
			},
			"system_prompt": {
				Type:        "string",
				Description: "Optional system prompt",
			},
			"prompt": {
				Type:        "array",
				Description: "Prompt template: literal segments interleaved with mentions",
				Items:       &models.Property{Type: "object"},
			},
			"response_schema": {
				Type:        "object",
				Description: "When set, the model returns a structured object shaped by this schema",
			},
		},
		Required: []string{"prompt"},
	}
}
