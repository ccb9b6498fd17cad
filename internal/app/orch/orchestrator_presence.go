package orch

import (
	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/dkeye/voice-signal/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) UpdateStreamState(conn domain.ConnectionID, roomID domain.RoomID, hasAudio, hasVideo bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.Rooms.Room(roomID)
	if !ok {
		return
	}
	p, ok := room.Get(conn)
	if !ok {
		return
	}
	p.SetStream(hasAudio, hasVideo)
	log.Debug().Str("module", "orch.presence").Str("conn", string(conn)).Bool("audio", hasAudio).Bool("video", hasVideo).Msg("stream state")
	o.broadcast(room, conn, protocol.EventUserStreamUpdate, protocol.StreamUpdateOf(p))
}

// ReportSpeakingLevel hands the active speaker slot to conn when level exceeds
// the threshold. There is no release: the next loud member simply takes over.
func (o *Orchestrator) ReportSpeakingLevel(conn domain.ConnectionID, roomID domain.RoomID, level float64) {
	if level <= domain.SpeakingThreshold {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.Rooms.Room(roomID)
	if !ok || !room.SetActiveSpeaker(conn) {
		return
	}
	o.broadcast(room, conn, protocol.EventActiveSpeakerUpdate, conn)
}
