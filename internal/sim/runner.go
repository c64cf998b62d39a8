// Package sim hosts the simulation runtime: one tick loop per drone, owned
// by a supervisor that keeps the loop table in step with the registry.
package sim

import (
	"context"
	"log/slog"
	"time"

	"dronefleet/internal/core/application/usecases/commands"
	"dronefleet/internal/core/domain/model/kernel"
)

// runner drives the tick loop of a single drone. Ticks are strictly
// serialized: the next tick only fires after the previous one finished.
type runner struct {
	droneID  kernel.UUID
	interval time.Duration
	handler  commands.TickDroneCommandHandler
	logger   *slog.Logger
}

// run loops until the context is cancelled or a tick reports TickStop.
// Tick errors are logged and the loop keeps going; the next tick reloads
// the drone from the registry and retries from stored state.
//
// Cancellation only gates the ticker: a tick that already started runs to
// completion under a non-cancelled context, so its persistence is never
// aborted mid-write on teardown.
func (r *runner) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	cmd, err := commands.NewTickDroneCommand(r.droneID)
	if err != nil {
		r.logger.ErrorContext(ctx, "tick loop start failed",
			"drone_id", r.droneID.String(), "error", err)
		return
	}

	tickCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			outcome, tickErr := r.handler.Handle(tickCtx, cmd)
			if tickErr != nil {
				r.logger.ErrorContext(ctx, "tick failed",
					"drone_id", r.droneID.String(), "error", tickErr)
			}
			if outcome == commands.TickStop {
				return
			}
		}
	}
}
