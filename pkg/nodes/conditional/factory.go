package conditional

import (
	"context"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
)

type ConditionalNodeFactory struct{}

func NewConditionalNodeFactory() *ConditionalNodeFactory {
	return &ConditionalNodeFactory{}
}

func (f *ConditionalNodeFactory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Behavior, error) {
	return NewConditionalNode(nodeID, config)
}

func (f *ConditionalNodeFactory) Kind() models.NodeKind {
	return models.NodeKindConditional
}

func (f *ConditionalNodeFactory) Name() string {
	return "Conditional"
}

func (f *ConditionalNodeFactory) Description() string {
	return "Evaluates a condition and selects the true or false branch"
}

func (f *ConditionalNodeFactory) Schema() *models.JSONSchema {
	return &models.JSONSchema{
		Type:  "object",
		Title: "Conditional Node Configuration",
		Properties: map[string]*models.Property{
			"value": {
				Description: "Value under test; may be a mention",
			},
			"operator": {
				Type:        "string",
				Description: "Optional comparison operator (eq, ne, gt, gte, lt, lte, contains); truthiness when omitted",
			},
			"compare_to": {
				Description: "Right-hand operand for comparison operators",
			},
		},
	}
}
