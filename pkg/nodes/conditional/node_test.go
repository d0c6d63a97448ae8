package conditional

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltway/weaver/pkg/models"
)

func evaluateConfig(t *testing.T, config map[string]any) map[string]any {
	t.Helper()

	node, err := NewConditionalNode("cond", config)
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), models.ExecutionContext{})
	require.NoError(t, err)

	return output
}

func TestConditionalNode_Operators(t *testing.T) {
	cases := []struct {
		name   string
		config map[string]any
		want   bool
	}{
		{"eq strings match", map[string]any{"value": "a", "operator": "eq", "compare_to": "a"}, true},
		{"eq strings differ", map[string]any{"value": "a", "operator": "eq", "compare_to": "b"}, false},
		{"eq numeric cross-type", map[string]any{"value": float64(5), "operator": "eq", "compare_to": "5"}, true},
		{"ne", map[string]any{"value": "a", "operator": "ne", "compare_to": "b"}, true},
		{"gt true", map[string]any{"value": float64(10), "operator": "gt", "compare_to": float64(3)}, true},
		{"gt false", map[string]any{"value": float64(2), "operator": "gt", "compare_to": float64(3)}, false},
		{"gte boundary", map[string]any{"value": float64(3), "operator": "gte", "compare_to": float64(3)}, true},
		{"lt", map[string]any{"value": float64(1), "operator": "lt", "compare_to": float64(2)}, true},
		{"lte boundary", map[string]any{"value": float64(2), "operator": "lte", "compare_to": float64(2)}, true},
		{"contains", map[string]any{"value": "hello world", "operator": "contains", "compare_to": "world"}, true},
		{"contains miss", map[string]any{"value": "hello", "operator": "contains", "compare_to": "bye"}, false},
		{"symbol alias ==", map[string]any{"value": "a", "operator": "==", "compare_to": "a"}, true},
		{"symbol alias >", map[string]any{"value": float64(4), "operator": ">", "compare_to": float64(1)}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			output := evaluateConfig(t, tc.config)
			assert.Equal(t, tc.want, output["result"])
		})
	}
}

func TestConditionalNode_BranchMatchesResult(t *testing.T) {
	output := evaluateConfig(t, map[string]any{"value": float64(10), "operator": "gt", "compare_to": float64(3)})
	assert.Equal(t, true, output["result"])
	assert.Equal(t, "true", output["branch"])

	output = evaluateConfig(t, map[string]any{"value": float64(1), "operator": "gt", "compare_to": float64(3)})
	assert.Equal(t, false, output["result"])
	assert.Equal(t, "false", output["branch"])
}

func TestConditionalNode_TruthinessWithoutOperator(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"false string", "false", false},
		{"non-empty string", "yes", true},
		{"zero", float64(0), false},
		{"non-zero", float64(7), true},
		{"empty list", []any{}, false},
		{"non-empty list", []any{"x"}, true},
		{"empty map", map[string]any{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			node, err := NewConditionalNode("cond", map[string]any{"value": tc.value})
			require.NoError(t, err)

			output, err := node.Execute(context.Background(), models.ExecutionContext{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, output["result"])
		})
	}
}

func TestConditionalNode_NestedConditionShape(t *testing.T) {
	output := evaluateConfig(t, map[string]any{
		"condition": map[string]any{
			"left":     "abc",
			"operator": "contains",
			"right":    "b",
		},
	})

	assert.Equal(t, true, output["result"])
}

func TestConditionalNode_MissingConfigRejected(t *testing.T) {
	_, err := NewConditionalNode("cond", map[string]any{})
	require.Error(t, err)
}

func TestConditionalNode_UnknownOperatorFails(t *testing.T) {
	node, err := NewConditionalNode("cond", map[string]any{
		"value": "a", "operator": "almost", "compare_to": "b",
	})
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), models.ExecutionContext{})
	require.Error(t, err)

	var info *models.ErrorInfo
	require.ErrorAs(t, err, &info)
	assert.Equal(t, "BehaviorError", info.Name)
}

func TestConditionalNode_NonNumericComparisonFails(t *testing.T) {
	node, err := NewConditionalNode("cond", map[string]any{
		"value": map[string]any{"not": "a number"}, "operator": "gt", "compare_to": float64(1),
	})
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), models.ExecutionContext{})
	require.Error(t, err)
}

func TestConditionalNode_NumericStringsCompare(t *testing.T) {
	output := evaluateConfig(t, map[string]any{
		"value": "12", "operator": "gt", "compare_to": "3",
	})

	assert.Equal(t, true, output["result"])
}
