package app

import (
	"sync"
	"time"

	"github.com/dkeye/voice-signal/internal/core"
	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Signal      core.SignalConnection
	ClientToken string
	ConnectedAt time.Time
}

// Registry resolves connection ids to their live transport.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnectionID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnectionID]*connEntry)}
}

func (r *Registry) Register(conn domain.ConnectionID, sig core.SignalConnection, clientToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn] = &connEntry{Signal: sig, ClientToken: clientToken, ConnectedAt: time.Now()}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Str("client", clientToken).Msg("registered connection")
}

// Unregister reports whether the connection was known.
func (r *Registry) Unregister(conn domain.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[conn]; !ok {
		return false
	}
	delete(r.conns, conn)
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Msg("unregistered connection")
	return true
}

func (r *Registry) Signal(conn domain.ConnectionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[conn]
	if !ok {
		return nil, false
	}
	return e.Signal, true
}

func (r *Registry) ClientToken(conn domain.ConnectionID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[conn]; ok {
		return e.ClientToken
	}
	return ""
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
