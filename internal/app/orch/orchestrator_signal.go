package orch

import (
	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/dkeye/voice-signal/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay forwards a negotiation message to its target with SenderID forced to from.
// Offers and stream updates also refresh the sender's stream flags in its room.
// Bad messages and vanished targets are logged and dropped.
func (o *Orchestrator) Relay(from domain.ConnectionID, data protocol.SignalData) {
	if err := data.Validate(); err != nil {
		log.Warn().Err(err).Str("module", "orch.signal").Str("conn", string(from)).Msg("signal dropped")
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.Registry.Signal(data.TargetID); !ok {
		log.Debug().Str("module", "orch.signal").Str("conn", string(from)).Str("target", string(data.TargetID)).Str("type", string(data.Type)).Msg("signal target not found")
		return
	}
	if data.SenderID != from {
		log.Debug().Str("module", "orch.signal").Str("conn", string(from)).Str("claimed", string(data.SenderID)).Msg("sender id rewritten")
	}
	data.SenderID = from

	room, inRoom := o.Rooms.FindRoomOf(from)
	var roomID domain.RoomID
	if inRoom {
		roomID = room.ID
	}
	o.send(roomID, data.TargetID, protocol.EventSignal, data)
	ev := log.Debug().Str("module", "orch.signal").Str("conn", string(from)).Str("target", string(data.TargetID)).Str("type", string(data.Type))
	if ci, ok := data.CandidateInit(); ok && ci.SDPMid != nil {
		ev = ev.Str("sdp_mid", *ci.SDPMid)
	}
	ev.Msg("signal relayed")

	if !data.Type.CarriesStreamState() || !inRoom {
		return
	}
	p, ok := room.Get(from)
	if !ok {
		return
	}
	applySignalStreamState(p, data)
	o.broadcast(room, from, protocol.EventUserStreamUpdate, protocol.StreamUpdateOf(p))
}

// applySignalStreamState fills absent flags. A parseable SDP decides the track flags
// and, unless hasStream was sent, whether anything is sent at all. Without SDP,
// hasStream defaults to true for an offer and to the prior value otherwise.
func applySignalStreamState(p *domain.Participant, data protocol.SignalData) {
	sdpAudio, sdpVideo, sdpOK := data.SDPMedia()

	hasStream := p.HasStream
	switch {
	case sdpOK:
		hasStream = sdpAudio || sdpVideo
	case data.Type == protocol.SignalOffer:
		hasStream = true
	}
	if data.HasStream != nil {
		hasStream = *data.HasStream
	}

	hasAudio, hasVideo := hasStream, hasStream
	if sdpOK {
		hasAudio, hasVideo = sdpAudio, sdpVideo
	}
	if data.HasAudio != nil {
		hasAudio = *data.HasAudio
	}
	if data.HasVideo != nil {
		hasVideo = *data.HasVideo
	}

	p.HasStream = hasStream
	p.HasAudio = hasAudio
	p.HasVideo = hasVideo
}
