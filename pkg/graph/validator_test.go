package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/testutil"
)

func validWorkflow() *models.Workflow {
	return testutil.CreateTestWorkflow("valid",
		[]*models.Node{
			testutil.CreateTestNode("in", models.NodeKindInput),
			testutil.CreateTestNode("step", models.NodeKindTool, testutil.WithConfig(map[string]any{"tool": "echo"})),
			testutil.CreateTestNode("out", models.NodeKindOutput),
		},
		[]*models.Edge{
			testutil.Edge("in", "step"),
			testutil.Edge("step", "out"),
		})
}

func TestValidate_Success(t *testing.T) {
	vg, err := Validate(validWorkflow())
	require.NoError(t, err)

	assert.Equal(t, "in", vg.InputNodeID)
	assert.Equal(t, []string{"out"}, vg.OutputNodeIDs)
	assert.Equal(t, []string{"in", "step", "out"}, vg.Order)
	assert.Equal(t, 0, vg.InDegrees["in"])
	assert.Equal(t, 1, vg.InDegrees["step"])
	assert.Equal(t, []string{"step"}, vg.Successors["in"])
	assert.Equal(t, []string{"step"}, vg.Predecessors["out"])
}

func TestValidate_AncestorsAccumulateTransitively(t *testing.T) {
	vg, err := Validate(validWorkflow())
	require.NoError(t, err)

	assert.Empty(t, vg.Ancestors["in"])
	assert.True(t, vg.Ancestors["step"]["in"])
	assert.True(t, vg.Ancestors["out"]["in"])
	assert.True(t, vg.Ancestors["out"]["step"])
	assert.False(t, vg.Ancestors["step"]["out"])
}

func TestValidate_DuplicateNodeID(t *testing.T) {
	wf := validWorkflow()
	wf.Nodes = append(wf.Nodes, testutil.CreateTestNode("step", models.NodeKindTool))

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateNodeID)
}

func TestValidate_UnknownNodeKind(t *testing.T) {
	wf := validWorkflow()
	wf.Nodes[1].Kind = "teleport"

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownNodeKind)
}

func TestValidate_DanglingEdge(t *testing.T) {
	wf := validWorkflow()
	wf.Edges = append(wf.Edges, testutil.Edge("step", "ghost"))

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingEdge)
}

func TestValidate_MissingInputNode(t *testing.T) {
	wf := testutil.CreateTestWorkflow("no-input",
		[]*models.Node{
			testutil.CreateTestNode("a", models.NodeKindTool),
			testutil.CreateTestNode("out", models.NodeKindOutput),
		},
		[]*models.Edge{testutil.Edge("a", "out")})

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInputNode)
}

func TestValidate_TwoInputNodes(t *testing.T) {
	wf := validWorkflow()
	wf.Nodes = append(wf.Nodes, testutil.CreateTestNode("in2", models.NodeKindInput))
	wf.Edges = append(wf.Edges, testutil.Edge("in2", "step"))

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInputNode)
}

func TestValidate_InputWithIncomingEdgeRejected(t *testing.T) {
	wf := validWorkflow()
	wf.Edges = append(wf.Edges, testutil.Edge("step", "in"))

	// A fed input node breaks the source invariant.
	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInputNode)
}

func TestValidate_MissingOutputNode(t *testing.T) {
	wf := testutil.CreateTestWorkflow("no-output",
		[]*models.Node{
			testutil.CreateTestNode("in", models.NodeKindInput),
			testutil.CreateTestNode("step", models.NodeKindTool),
		},
		[]*models.Edge{testutil.Edge("in", "step")})

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingOutputNode)
}

func TestValidate_CycleDetected(t *testing.T) {
	wf := validWorkflow()
	wf.Nodes = append(wf.Nodes,
		testutil.CreateTestNode("a", models.NodeKindTool),
		testutil.CreateTestNode("b", models.NodeKindTool))
	wf.Edges = append(wf.Edges,
		testutil.Edge("step", "a"),
		testutil.Edge("a", "b"),
		testutil.Edge("b", "a"))

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestValidate_DisconnectedGraph(t *testing.T) {
	wf := validWorkflow()
	wf.Nodes = append(wf.Nodes,
		testutil.CreateTestNode("island-a", models.NodeKindTool),
		testutil.CreateTestNode("island-b", models.NodeKindTool))
	wf.Edges = append(wf.Edges, testutil.Edge("island-a", "island-b"))

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisconnectedGraph)
}

func TestValidate_MentionMustTargetAncestor(t *testing.T) {
	wf := validWorkflow()

	// "step" and "sibling" are parallel branches; neither is an ancestor of
	// the other.
	wf.Nodes = append(wf.Nodes, testutil.CreateTestNode("sibling", models.NodeKindTool, testutil.WithConfig(map[string]any{
		"tool":  "echo",
		"input": map[string]any{"text": testutil.Mention("step", "value")},
	})))
	wf.Edges = append(wf.Edges,
		testutil.Edge("in", "sibling"),
		testutil.Edge("sibling", "out"))

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMentionTarget)
}

func TestValidate_MentionSelfReferenceRejected(t *testing.T) {
	wf := validWorkflow()
	wf.Nodes[1].Config = map[string]any{
		"tool":  "echo",
		"input": map[string]any{"text": testutil.Mention("step", "value")},
	}

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMentionTarget)
}

func TestValidate_MentionUnknownNodeRejected(t *testing.T) {
	wf := validWorkflow()
	wf.Nodes[2].Config = map[string]any{
		"fields": map[string]any{"result": testutil.Mention("ghost", "value")},
	}

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMentionTarget)
}

func TestValidate_BranchEdgesCollectedForConditionals(t *testing.T) {
	wf := testutil.CreateTestWorkflow("branches",
		[]*models.Node{
			testutil.CreateTestNode("in", models.NodeKindInput),
			testutil.CreateTestNode("decide", models.NodeKindConditional, testutil.WithConfig(map[string]any{"value": true})),
			testutil.CreateTestNode("yes", models.NodeKindTool),
			testutil.CreateTestNode("no", models.NodeKindTool),
			testutil.CreateTestNode("out", models.NodeKindOutput),
		},
		[]*models.Edge{
			testutil.Edge("in", "decide"),
			testutil.BranchEdge("decide", "yes", "true"),
			testutil.BranchEdge("decide", "no", "false"),
			testutil.Edge("yes", "out"),
			testutil.Edge("no", "out"),
		})

	vg, err := Validate(wf)
	require.NoError(t, err)

	require.Len(t, vg.BranchEdges["decide"], 2)

	handles := []string{vg.BranchEdges["decide"][0].SourceHandle, vg.BranchEdges["decide"][1].SourceHandle}
	assert.ElementsMatch(t, []string{"true", "false"}, handles)
}

func TestValidate_IsIdempotent(t *testing.T) {
	wf := validWorkflow()

	first, err := Validate(wf)
	require.NoError(t, err)

	second, err := Validate(wf)
	require.NoError(t, err)

	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, first.InDegrees, second.InDegrees)
	assert.Equal(t, first.Ancestors, second.Ancestors)
}

func TestValidate_SingleNodeWorkflowNeedsOutput(t *testing.T) {
	wf := testutil.CreateTestWorkflow("lonely",
		[]*models.Node{testutil.CreateTestNode("in", models.NodeKindInput)},
		nil)

	_, err := Validate(wf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingOutputNode)
}
