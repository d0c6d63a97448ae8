package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voltway/weaver/pkg/mocks"
	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
)

func TestLLMNode_TextResponseBecomesContent(t *testing.T) {
	client := &mocks.MockModelClient{}
	client.On("Generate", mock.Anything, protocol.GenerateRequest{
		Model:  "gpt-test",
		Prompt: "Say hi",
	}).Return(&protocol.GenerateResult{Text: "hi"}, nil)

	node, err := NewLLMNode("l1", map[string]any{
		"model":  "gpt-test",
		"prompt": "Say hi",
	}, client)
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), models.ExecutionContext{})
	require.NoError(t, err)
	assert.Equal(t, "hi", output["content"])

	client.AssertExpectations(t)
}

func TestLLMNode_StructuredResponsePassesThrough(t *testing.T) {
	structured := map[string]any{"sentiment": "positive", "score": float64(0.9)}

	client := &mocks.MockModelClient{}
	client.On("Generate", mock.Anything, mock.Anything).
		Return(&protocol.GenerateResult{Object: structured}, nil)

	node, err := NewLLMNode("l1", map[string]any{
		"prompt": "Classify",
		"response_schema": map[string]any{
			"type": "object",
		},
	}, client)
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), models.ExecutionContext{})
	require.NoError(t, err)
	assert.Equal(t, structured, output)
}

func TestLLMNode_SegmentsConcatenateIntoPrompt(t *testing.T) {
	client := &mocks.MockModelClient{}
	client.On("Generate", mock.Anything, mock.MatchedBy(func(req protocol.GenerateRequest) bool {
		return req.Prompt == "Summarize: resolved text, score 7"
	})).Return(&protocol.GenerateResult{Text: "done"}, nil)

	// Mentions were already substituted with concrete values during config
	// resolution; the node only concatenates segments.
	node, err := NewLLMNode("l1", map[string]any{
		"prompt": []any{"Summarize: ", "resolved text", ", score ", float64(7)},
	}, client)
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), models.ExecutionContext{})
	require.NoError(t, err)

	client.AssertExpectations(t)
}

func TestLLMNode_SystemPromptForwarded(t *testing.T) {
	client := &mocks.MockModelClient{}
	client.On("Generate", mock.Anything, mock.MatchedBy(func(req protocol.GenerateRequest) bool {
		return req.SystemPrompt == "You are terse."
	})).Return(&protocol.GenerateResult{Text: "ok"}, nil)

	node, err := NewLLMNode("l1", map[string]any{
		"prompt":        "Go",
		"system_prompt": "You are terse.",
	}, client)
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), models.ExecutionContext{})
	require.NoError(t, err)
}

func TestLLMNode_GenerateErrorBecomesModelError(t *testing.T) {
	client := &mocks.MockModelClient{}
	client.On("Generate", mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))

	node, err := NewLLMNode("l1", map[string]any{"prompt": "Go"}, client)
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), models.ExecutionContext{})
	require.Error(t, err)

	var info *models.ErrorInfo
	require.ErrorAs(t, err, &info)
	assert.Equal(t, "ModelError", info.Name)
}

func TestNewLLMNode_RequiresPrompt(t *testing.T) {
	_, err := NewLLMNode("l1", map[string]any{}, &mocks.MockModelClient{})
	require.Error(t, err)
}

func TestNewLLMNode_RequiresClient(t *testing.T) {
	_, err := NewLLMNode("l1", map[string]any{"prompt": "Go"}, nil)
	require.Error(t, err)
}
