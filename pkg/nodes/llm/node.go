// Package llm provides the language-model node: it renders a prompt template
// of literal segments and resolved mention values, invokes the injected
// model-generation collaborator, and shapes the response onto the node output.
package llm

import (
	"context"
	"errors"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
	"github.com/voltway/weaver/pkg/resolver"
)

type LLMNode struct {
	id             string
	model          string
	systemPrompt   string
	prompt         []any
	responseSchema map[string]any
	client         protocol.ModelClient
}

func NewLLMNode(id string, config map[string]any, client protocol.ModelClient) (*LLMNode, error) {
	if client == nil {
		return nil, errors.New("llm node requires a model client")
	}

	node := &LLMNode{
		id:     id,
		client: client,
	}

	node.model, _ = config["model"].(string)
	node.systemPrompt, _ = config["system_prompt"].(string)
	node.responseSchema, _ = config["response_schema"].(map[string]any)

	switch prompt := config["prompt"].(type) {
	case string:
		node.prompt = []any{prompt}
	case []any:
		node.prompt = prompt
	default:
		return nil, errors.New("llm node requires a 'prompt' string or segment list")
	}

	return node, nil
}

func (n *LLMNode) Execute(ctx context.Context, _ models.ExecutionContext) (map[string]any, error) {
	result, err := n.client.Generate(ctx, protocol.GenerateRequest{
		Model:          n.model,
		SystemPrompt:   n.systemPrompt,
		Prompt:         n.renderPrompt(),
		ResponseSchema: n.responseSchema,
	})
	if err != nil {
		return nil, &models.ErrorInfo{Name: "ModelError", Message: err.Error()}
	}

	if result.Object != nil {
		return result.Object, nil
	}

	return map[string]any{"content": result.Text}, nil
}

// renderPrompt concatenates the prompt segments. Mentions were substituted
// with concrete values during config resolution; anything non-string is
// stringified without coercing the underlying output.
func (n *LLMNode) renderPrompt() string {
	var out string
	for _, segment := range n.prompt {
		out += resolver.RenderValue(segment)
	}

	return out
}
