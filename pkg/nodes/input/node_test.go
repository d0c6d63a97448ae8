package input

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltway/weaver/pkg/models"
)

func TestInputNode_PassesQueryThrough(t *testing.T) {
	node, err := NewInputNode("in", map[string]any{})
	require.NoError(t, err)

	query := map[string]any{"text": "hello", "count": float64(3)}

	output, err := node.Execute(context.Background(), models.ExecutionContext{Query: query})
	require.NoError(t, err)
	assert.Equal(t, query, output)
}

func TestInputNode_NilQueryBecomesEmptyMap(t *testing.T) {
	node, err := NewInputNode("in", map[string]any{})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), models.ExecutionContext{})
	require.NoError(t, err)
	assert.NotNil(t, output)
	assert.Empty(t, output)
}

func TestInputNode_SchemaAcceptsValidPayload(t *testing.T) {
	node, err := NewInputNode("in", map[string]any{
		"schema": map[string]any{
			"type":     "object",
			"required": []any{"text"},
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
		},
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), models.ExecutionContext{
		Query: map[string]any{"text": "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", output["text"])
}

func TestInputNode_SchemaRejectsInvalidPayload(t *testing.T) {
	node, err := NewInputNode("in", map[string]any{
		"schema": map[string]any{
			"type":     "object",
			"required": []any{"text"},
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
		},
	})
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), models.ExecutionContext{
		Query: map[string]any{"other": "value"},
	})
	require.Error(t, err)

	var info *models.ErrorInfo
	require.ErrorAs(t, err, &info)
	assert.Equal(t, "SchemaValidationError", info.Name)
}

func TestInputNode_NoSchemaSkipsValidation(t *testing.T) {
	node, err := NewInputNode("in", map[string]any{})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), models.ExecutionContext{
		Query: map[string]any{"anything": []any{float64(1), "two"}},
	})
	require.NoError(t, err)
	assert.Contains(t, output, "anything")
}
