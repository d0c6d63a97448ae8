// Package registry maps node kinds to the factories that build their
// executable behaviors. It is the leaf dependency of the execution engine:
// everything that runs a node goes through here.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[models.NodeKind]protocol.NodeFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[models.NodeKind]protocol.NodeFactory),
	}
}

// RegisterNode registers a factory, replacing any previous factory for the
// same kind.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.factories[factory.Kind()] = factory
}

// CreateBehavior builds a behavior for the node from its resolved config.
func (r *Registry) CreateBehavior(ctx context.Context, kind models.NodeKind, nodeID string, config map[string]any) (protocol.Behavior, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("node kind %q not registered", kind)
	}

	return factory.Create(ctx, nodeID, config)
}

// IsRegistered reports whether a factory exists for the kind.
func (r *Registry) IsRegistered(kind models.NodeKind) bool {
	_, ok := r.factories[kind]

	return ok
}

// RegisteredKinds returns metadata for every registered kind, for authoring
// clients.
func (r *Registry) RegisteredKinds() []*models.RegisteredNodeKind {
	kinds := make([]*models.RegisteredNodeKind, 0, len(r.factories))

	for _, factory := range r.factories {
		kinds = append(kinds, &models.RegisteredNodeKind{
			Kind:        factory.Kind(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return kinds
}
