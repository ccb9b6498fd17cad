package orch

import (
	"errors"
	"sync"
	"time"

	"github.com/dkeye/voice-signal/internal/app"
	"github.com/dkeye/voice-signal/internal/core"
	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/dkeye/voice-signal/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Orchestrator owns the room store. Every exported method takes mu for its whole
// run, so each client event is applied atomically with respect to the others.
// Outbound sends are non-blocking and happen under the lock.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *core.RoomStore
	Policy   app.Policy
	Now      func() time.Time

	mu sync.Mutex
}

func New(reg *app.Registry, rooms *core.RoomStore, policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Policy:   policy,
		Now:      time.Now,
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// send encodes and delivers one event to one connection. Caller holds mu.
func (o *Orchestrator) send(roomID domain.RoomID, conn domain.ConnectionID, event string, data any) {
	frame, err := protocol.Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("event", event).Msg("encode")
		return
	}
	o.deliver(roomID, conn, frame)
}

// broadcast sends to every member of room except one connection. Caller holds mu.
func (o *Orchestrator) broadcast(room *domain.Room, except domain.ConnectionID, event string, data any) {
	frame, err := protocol.Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("event", event).Msg("encode")
		return
	}
	sent := 0
	for _, p := range room.Members(except) {
		if o.deliver(room.ID, p.ConnectionID, frame) {
			sent++
		}
	}
	log.Debug().Str("module", "orch").Str("room", string(room.ID)).Str("event", event).Int("sent_to", sent).Msg("broadcast")
}

func (o *Orchestrator) deliver(roomID domain.RoomID, conn domain.ConnectionID, frame core.Frame) bool {
	sig, ok := o.Registry.Signal(conn)
	if !ok {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("no transport for connection")
		return false
	}
	err := sig.TrySend(frame)
	if err == nil {
		return true
	}
	if !errors.Is(err, core.ErrBackpressure) || o.Policy == nil {
		log.Debug().Err(err).Str("module", "orch").Str("conn", string(conn)).Msg("send failed")
		return false
	}
	switch o.Policy.OnBackPressure(roomID, conn) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("conn", string(conn)).Str("room", string(roomID)).Msg("slow consumer kicked")
		sig.Close()
	case app.DropFrame, app.NoAction:
		log.Warn().Str("module", "orch").Str("conn", string(conn)).Msg("frame dropped on backpressure")
	}
	return false
}

// RoomsInfo returns a read-only view of every room.
func (o *Orchestrator) RoomsInfo() []core.RoomInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.Snapshot()
}

func (o *Orchestrator) RoomInfo(id domain.RoomID) (core.RoomInfo, []protocol.Participant, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	info, ok := o.Rooms.Info(id)
	if !ok {
		return core.RoomInfo{}, nil, false
	}
	room, _ := o.Rooms.Room(id)
	return info, protocol.ParticipantsOf(room.Members("")), true
}
