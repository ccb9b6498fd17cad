package http

import (
	"context"
	"sync"

	"github.com/dkeye/voice-signal/internal/app"
	"github.com/dkeye/voice-signal/internal/app/orch"
	"github.com/dkeye/voice-signal/internal/config"
	"github.com/dkeye/voice-signal/internal/core"
	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Bootstrap wires the signaling stack once per process. The first Init builds
// the orchestrator and engine and schedules the sweeper on g; later calls return
// the same instances and schedule nothing.
type Bootstrap struct {
	once   sync.Once
	orch   *orch.Orchestrator
	engine *gin.Engine
}

func (b *Bootstrap) Init(ctx context.Context, g *errgroup.Group, cfg *config.Config) (*orch.Orchestrator, *gin.Engine) {
	first := false
	b.once.Do(func() {
		first = true
		policy, err := app.PolicyByName(cfg.Backpressure)
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("falling back to kick policy")
			policy = app.SimplePolicy{}
		}
		b.orch = orch.New(app.NewRegistry(), core.NewRoomStore(), policy)
		b.engine = SetupRouter(ctx, cfg, b.orch)
		g.Go(func() error {
			return b.orch.RunSweeper(ctx, domain.SweepInterval)
		})
	})
	if !first {
		log.Debug().Str("module", "adapters.http").Msg("bootstrap already initialized")
	}
	return b.orch, b.engine
}
