package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dronefleet/internal/core/application/usecases/commands"
	"dronefleet/internal/core/domain/model/kernel"

	"golang.org/x/sync/errgroup"
)

// Supervisor owns the per-drone tick loops. It implements
// ports.SimulationControl: Ensure and Stop are idempotent, and a loop that
// reports TickStop removes itself from the table.
//
// The loop table is a derived cache over the registry; the reconciliation
// sweep repairs any divergence (missed starts after a restart, loops for
// drones that no longer need one).
type Supervisor struct {
	interval time.Duration
	handler  commands.TickDroneCommandHandler
	logger   *slog.Logger

	mu     sync.Mutex
	loops  map[string]context.CancelFunc
	closed bool

	baseCtx context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// NewSupervisor creates the simulation supervisor. Loops tick every
// interval until stopped or self-terminated.
func NewSupervisor(
	handler commands.TickDroneCommandHandler,
	interval time.Duration,
	logger *slog.Logger,
) *Supervisor {
	baseCtx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(baseCtx)

	return &Supervisor{
		interval: interval,
		handler:  handler,
		logger:   logger.With("component", "supervisor"),
		loops:    make(map[string]context.CancelFunc),
		baseCtx:  groupCtx,
		cancel:   cancel,
		group:    group,
	}
}

// Ensure starts a tick loop for the drone if none is running.
func (s *Supervisor) Ensure(droneID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := droneID.String()
	if s.closed {
		return
	}
	if _, running := s.loops[key]; running {
		return
	}

	loopCtx, loopCancel := context.WithCancel(s.baseCtx)
	s.loops[key] = loopCancel

	r := &runner{
		droneID:  droneID,
		interval: s.interval,
		handler:  s.handler,
		logger:   s.logger,
	}

	s.group.Go(func() error {
		defer s.remove(key)
		r.run(loopCtx)
		return nil
	})

	s.logger.Debug("tick loop started", "drone_id", key)
}

// Stop cancels the drone's tick loop if one is running. An in-flight tick
// finishes and persists before the loop exits.
func (s *Supervisor) Stop(droneID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := droneID.String()
	if loopCancel, running := s.loops[key]; running {
		loopCancel()
		delete(s.loops, key)
		s.logger.Debug("tick loop stopped", "drone_id", key)
	}
}

// LoopCount reports the number of running tick loops.
func (s *Supervisor) LoopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loops)
}

// Shutdown cancels every loop and waits for in-flight ticks to finish, or
// for ctx to expire.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		_ = s.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loopCancel, running := s.loops[key]; running {
		loopCancel()
		delete(s.loops, key)
	}
}
