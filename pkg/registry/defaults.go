package registry

import (
	"github.com/voltway/weaver/pkg/nodes/conditional"
	"github.com/voltway/weaver/pkg/nodes/input"
	"github.com/voltway/weaver/pkg/nodes/llm"
	"github.com/voltway/weaver/pkg/nodes/output"
	"github.com/voltway/weaver/pkg/nodes/tool"
	"github.com/voltway/weaver/pkg/protocol"
)

// RegisterDefaultNodes registers the built-in node kinds. The model client and
// tool dispatcher are the only collaborators behaviors may touch.
func (r *Registry) RegisterDefaultNodes(model protocol.ModelClient, tools protocol.ToolDispatcher) {
	r.RegisterNode(input.NewInputNodeFactory())
	r.RegisterNode(output.NewOutputNodeFactory())
	r.RegisterNode(llm.NewLLMNodeFactory(model))
	r.RegisterNode(tool.NewToolNodeFactory(tools))
	r.RegisterNode(conditional.NewConditionalNodeFactory())
}
