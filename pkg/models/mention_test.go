package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentionFromValue(t *testing.T) {
	mention, ok := MentionFromValue(map[string]any{
		"kind":   "mention",
		"nodeId": "n1",
		"path":   "text",
	})
	require.True(t, ok)
	assert.Equal(t, "n1", mention.NodeID)
	assert.Equal(t, "text", mention.Path)
}

func TestMentionFromValue_RejectsNonMentions(t *testing.T) {
	cases := map[string]any{
		"plain string":   "mention",
		"missing kind":   map[string]any{"nodeId": "n1"},
		"wrong kind":     map[string]any{"kind": "literal", "nodeId": "n1"},
		"empty node id":  map[string]any{"kind": "mention", "nodeId": ""},
		"nil value":      nil,
		"numeric value":  float64(3),
		"list value":     []any{"mention"},
	}

	for name, value := range cases {
		_, ok := MentionFromValue(value)
		assert.False(t, ok, name)
	}
}

func TestLiteralFromValue(t *testing.T) {
	value, ok := LiteralFromValue(map[string]any{"kind": "literal", "value": float64(42)})
	require.True(t, ok)
	assert.Equal(t, float64(42), value)
}

func TestLiteralFromValue_TextFallback(t *testing.T) {
	value, ok := LiteralFromValue(map[string]any{"kind": "literal", "text": "hello"})
	require.True(t, ok)
	assert.Equal(t, "hello", value)
}

func TestLiteralFromValue_RejectsNonLiterals(t *testing.T) {
	_, ok := LiteralFromValue(map[string]any{"kind": "mention", "nodeId": "n1"})
	assert.False(t, ok)

	_, ok = LiteralFromValue("literal")
	assert.False(t, ok)
}

func TestCollectMentions_FindsAllNestedMentions(t *testing.T) {
	config := map[string]any{
		"a": map[string]any{"kind": "mention", "nodeId": "n1", "path": "x"},
		"b": []any{
			"plain",
			map[string]any{"kind": "mention", "nodeId": "n2", "path": "y.z"},
		},
		"c": map[string]any{
			"deep": map[string]any{"kind": "mention", "nodeId": "n3"},
		},
	}

	mentions := CollectMentions(config)

	ids := make([]string, 0, len(mentions))
	for _, m := range mentions {
		ids = append(ids, m.NodeID)
	}

	assert.ElementsMatch(t, []string{"n1", "n2", "n3"}, ids)
}

func TestCollectMentions_EmptyConfig(t *testing.T) {
	assert.Empty(t, CollectMentions(nil))
	assert.Empty(t, CollectMentions(map[string]any{"plain": "value"}))
}

func TestNodeRunStatus_Terminal(t *testing.T) {
	terminal := []NodeRunStatus{NodeStatusCompleted, NodeStatusFailed, NodeStatusSkipped, NodeStatusCancelled}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), string(s))
	}

	for _, s := range []NodeRunStatus{NodeStatusWaiting, NodeStatusRunning} {
		assert.False(t, s.Terminal(), string(s))
	}
}
