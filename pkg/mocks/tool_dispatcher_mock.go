package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockToolDispatcher is a mock implementation of protocol.ToolDispatcher.
type MockToolDispatcher struct {
	mock.Mock
}

func (m *MockToolDispatcher) CallTool(ctx context.Context, name string, input map[string]any) (map[string]any, error) {
	args := m.Called(ctx, name, input)

	output, _ := args.Get(0).(map[string]any)

	return output, args.Error(1)
}
