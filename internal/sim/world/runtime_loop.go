package world

import (
	"context"
	"fmt"
	"time"
)

// Run drives the world at its tick rate until ctx is done or Stop is called. The
// world-ready hook fires before the first tick and the unloading hook on the way out.
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.tickInterval())
	defer ticker.Stop()

	w.Ready()
	defer w.Unload()

	var pending []func(*World)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case fn := <-w.cmds:
			pending = append(pending, fn)
		case <-ticker.C:
			for _, fn := range pending {
				fn(w)
			}
			pending = pending[:0]
			w.Step()
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// Do queues fn to run on the world goroutine at the start of the next tick.
func (w *World) Do(ctx context.Context, fn func(*World)) error {
	select {
	case w.cmds <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stop:
		return fmt.Errorf("world %s stopped", w.cfg.ID)
	}
}
