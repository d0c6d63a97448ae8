package engine

import (
	"context"

	"github.com/voltway/weaver/pkg/eventbus"
	"github.com/voltway/weaver/pkg/models"
)

// Handle is the caller's view of a running workflow. The run proceeds on its
// own goroutines; the handle exposes the live event stream, cancellation and
// completion.
type Handle struct {
	RunID      string
	WorkflowID string

	// Events carries the run's lifecycle events. The stream closes after the
	// final WORKFLOW_END event.
	Events *eventbus.Stream

	cancel context.CancelFunc
	done   chan struct{}
	run    *models.Run
}

// Cancel requests early termination. Nodes already executing observe the
// cancellation through their context; the run finalizes with status cancelled.
func (h *Handle) Cancel() {
	h.cancel()
}

// Done is closed once the run reached a terminal status and the final run
// record is available.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the run finishes or the given context expires. On success
// it returns the final run record, including per-node results.
func (h *Handle) Wait(ctx context.Context) (*models.Run, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return h.run, nil
	}
}
