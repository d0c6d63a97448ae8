package registry

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltway/weaver/pkg/mocks"
	"github.com/voltway/weaver/pkg/models"
)

func newDefaultRegistry() *Registry {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	reg := NewRegistry(logger)
	reg.RegisterDefaultNodes(&mocks.MockModelClient{}, &mocks.MockToolDispatcher{})

	return reg
}

func TestRegistry_DefaultKindsRegistered(t *testing.T) {
	reg := newDefaultRegistry()

	for _, kind := range []models.NodeKind{
		models.NodeKindInput,
		models.NodeKindOutput,
		models.NodeKindLLM,
		models.NodeKindTool,
		models.NodeKindConditional,
	} {
		assert.True(t, reg.IsRegistered(kind), string(kind))
	}

	assert.False(t, reg.IsRegistered("teleport"))
}

func TestRegistry_CreateBehavior(t *testing.T) {
	reg := newDefaultRegistry()

	behavior, err := reg.CreateBehavior(t.Context(), models.NodeKindInput, "in", map[string]any{})
	require.NoError(t, err)
	assert.NotNil(t, behavior)
}

func TestRegistry_CreateBehavior_UnknownKind(t *testing.T) {
	reg := newDefaultRegistry()

	_, err := reg.CreateBehavior(t.Context(), "teleport", "n1", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestRegistry_CreateBehavior_InvalidConfig(t *testing.T) {
	reg := newDefaultRegistry()

	// Tool nodes require a tool name.
	_, err := reg.CreateBehavior(t.Context(), models.NodeKindTool, "t1", map[string]any{})
	require.Error(t, err)
}

func TestRegistry_RegisteredKinds_CarryMetadata(t *testing.T) {
	reg := newDefaultRegistry()

	kinds := reg.RegisteredKinds()
	require.Len(t, kinds, 5)

	for _, kind := range kinds {
		assert.NotEmpty(t, kind.Kind)
		assert.NotEmpty(t, kind.Name)
		assert.NotEmpty(t, kind.Description)
		assert.NotNil(t, kind.Schema, string(kind.Kind))
	}
}
