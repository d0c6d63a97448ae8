// Package mocks provides testify-based mocks for the collaborator and
// persistence interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/voltway/weaver/pkg/protocol"
)

// MockModelClient is a mock implementation of protocol.ModelClient.
type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) Generate(ctx context.Context, req protocol.GenerateRequest) (*protocol.GenerateResult, error) {
	args := m.Called(ctx, req)

	result, _ := args.Get(0).(*protocol.GenerateResult)

	return result, args.Error(1)
}
