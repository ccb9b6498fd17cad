package orch

import (
	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/dkeye/voice-signal/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Join adds conn to roomID, creating the room on first use. A connection sits in at
// most one room, so joining a different room leaves the current one first.
func (o *Orchestrator) Join(conn domain.ConnectionID, roomID domain.RoomID, uid domain.UserID, isSpeaker bool, displayName string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if prev, ok := o.Rooms.FindRoomOf(conn); ok && prev.ID != roomID {
		log.Info().Str("module", "orch").Str("conn", string(conn)).Str("from_room", string(prev.ID)).Msg("switching rooms")
		o.leaveLocked(conn, prev)
	}

	now := o.now()
	room := o.Rooms.GetOrCreateRoom(roomID, now)
	p := domain.NewParticipant(conn, uid, isSpeaker, displayName, now)
	room.Add(p)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(roomID)).Str("user", string(uid)).Bool("speaker", isSpeaker).Int("members", room.Len()).Msg("joined")

	o.broadcast(room, conn, protocol.EventUserJoined, protocol.ParticipantOf(p))
	o.send(roomID, conn, protocol.EventRoomUsers, protocol.ParticipantsOf(room.Members(conn)))
	if room.ActiveSpeaker != "" {
		o.send(roomID, conn, protocol.EventActiveSpeakerUpdate, room.ActiveSpeaker)
	}
}

// Leave is a no-op when the room is unknown or conn is not a member.
func (o *Orchestrator) Leave(conn domain.ConnectionID, roomID domain.RoomID, uid domain.UserID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.Rooms.Room(roomID)
	if !ok || !room.Has(conn) {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Str("room", string(roomID)).Msg("leave: not a member")
		return
	}
	if p, _ := room.Get(conn); uid != "" && p.UserID != uid {
		log.Warn().Str("module", "orch").Str("conn", string(conn)).Str("claimed", string(uid)).Str("user", string(p.UserID)).Msg("leave: user id mismatch")
	}
	o.leaveLocked(conn, room)
}

// Disconnect removes conn from every room it is in and forgets its transport.
func (o *Orchestrator) Disconnect(conn domain.ConnectionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	client := o.Registry.ClientToken(conn)
	for _, room := range o.Rooms.RoomsOf(conn) {
		o.leaveLocked(conn, room)
	}
	o.Registry.Unregister(conn)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("client", client).Msg("disconnected")
}

func (o *Orchestrator) leaveLocked(conn domain.ConnectionID, room *domain.Room) {
	p, ok := room.Get(conn)
	if !ok {
		return
	}
	o.broadcast(room, conn, protocol.EventUserLeft, protocol.UserLeft{ConnectionID: conn, UserID: p.UserID})
	room.Remove(conn)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room.ID)).Int("members", room.Len()).Msg("left")

	if o.Rooms.DeleteRoomIfEmpty(room.ID) {
		log.Info().Str("module", "orch").Str("room", string(room.ID)).Msg("room closed")
		return
	}
	o.broadcast(room, "", protocol.EventRoomUsers, protocol.ParticipantsOf(room.Members("")))
}
