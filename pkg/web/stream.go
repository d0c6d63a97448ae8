package web

import (
	"bufio"
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"github.com/voltway/weaver/pkg/engine"
)

// streamRunEvents writes the run's lifecycle events to the response as
// newline-delimited JSON records, flushing after each event so consumers see
// progress live. The connection stays open until the stream closes after
// WORKFLOW_END; a client abort cancels the run.
func streamRunEvents(c fiber.Ctx, handle *engine.Handle) error {
	c.Set(fiber.HeaderContentType, "application/octet-stream")

	eventCh := handle.Events.Subscribe()

	return c.SendStreamWriter(func(w *bufio.Writer) {
		encoder := json.NewEncoder(w)

		for ev := range eventCh {
			if err := encoder.Encode(ev); err != nil {
				handle.Cancel()

				return
			}

			if err := w.Flush(); err != nil {
				handle.Cancel()

				return
			}
		}
	})
}
