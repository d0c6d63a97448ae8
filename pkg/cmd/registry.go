// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"log/slog"

	"github.com/voltway/weaver/pkg/protocol"
	"github.com/voltway/weaver/pkg/registry"
)

// NewRegistry builds a node registry with the built-in kinds wired to the
// given collaborators.
func NewRegistry(logger *slog.Logger, model protocol.ModelClient, tools protocol.ToolDispatcher) *registry.Registry {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes(model, tools)

	return reg
}
