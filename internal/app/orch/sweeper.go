package orch

import (
	"context"
	"time"

	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/rs/zerolog/log"
)

// Sweep deletes rooms that are empty and older than domain.RoomTTL.
// Normal leaves delete empty rooms immediately; this only catches leftovers.
func (o *Orchestrator) Sweep() []domain.RoomID {
	o.mu.Lock()
	defer o.mu.Unlock()

	swept := o.Rooms.SweepStale(o.now(), domain.RoomTTL)
	for _, id := range swept {
		log.Warn().Str("module", "orch.sweeper").Str("room", string(id)).Msg("stale empty room evicted")
	}
	return swept
}

// RunSweeper blocks until ctx is done.
func (o *Orchestrator) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info().Str("module", "orch.sweeper").Dur("interval", interval).Msg("sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch.sweeper").Msg("sweeper stopped")
			return nil
		case <-ticker.C:
			o.Sweep()
		}
	}
}
