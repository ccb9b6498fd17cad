package core

import (
	"sort"
	"time"

	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomStore is the process-wide, in-memory room table.
// It is not safe for concurrent use: the orchestrator serializes every call.
type RoomStore struct {
	rooms map[domain.RoomID]*domain.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[domain.RoomID]*domain.Room)}
}

func (s *RoomStore) GetOrCreateRoom(id domain.RoomID, now time.Time) *domain.Room {
	if room, ok := s.rooms[id]; ok {
		return room
	}
	room := domain.NewRoom(id, now)
	s.rooms[id] = room
	log.Debug().Str("module", "core.store").Str("room", string(id)).Msg("room created")
	return room
}

func (s *RoomStore) Room(id domain.RoomID) (*domain.Room, bool) {
	room, ok := s.rooms[id]
	return room, ok
}

// FindRoomOf scans every room for the connection.
// O(rooms x participants); room counts are expected to stay small.
func (s *RoomStore) FindRoomOf(conn domain.ConnectionID) (*domain.Room, bool) {
	for _, room := range s.rooms {
		if room.Has(conn) {
			return room, true
		}
	}
	return nil, false
}

// RoomsOf returns every room holding the connection, ordered by id.
func (s *RoomStore) RoomsOf(conn domain.ConnectionID) []*domain.Room {
	var out []*domain.Room
	for _, room := range s.rooms {
		if room.Has(conn) {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteRoomIfEmpty reports whether the room was removed.
func (s *RoomStore) DeleteRoomIfEmpty(id domain.RoomID) bool {
	room, ok := s.rooms[id]
	if !ok || !room.IsEmpty() {
		return false
	}
	delete(s.rooms, id)
	log.Debug().Str("module", "core.store").Str("room", string(id)).Msg("empty room deleted")
	return true
}

// SweepStale drops rooms that are empty and older than ttl.
func (s *RoomStore) SweepStale(now time.Time, ttl time.Duration) []domain.RoomID {
	var swept []domain.RoomID
	for id, room := range s.rooms {
		if room.Stale(now, ttl) {
			delete(s.rooms, id)
			swept = append(swept, id)
		}
	}
	sort.Slice(swept, func(i, j int) bool { return swept[i] < swept[j] })
	return swept
}

func (s *RoomStore) Len() int { return len(s.rooms) }

// RoomInfo is a read-only view for introspection APIs.
type RoomInfo struct {
	ID               domain.RoomID       `json:"id"`
	ParticipantCount int                 `json:"participant_count"`
	ActiveSpeaker    domain.ConnectionID `json:"active_speaker,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func infoOf(room *domain.Room) RoomInfo {
	return RoomInfo{
		ID:               room.ID,
		ParticipantCount: room.Len(),
		ActiveSpeaker:    room.ActiveSpeaker,
		CreatedAt:        room.CreatedAt,
	}
}

func (s *RoomStore) Snapshot() []RoomInfo {
	out := make([]RoomInfo, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, infoOf(room))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *RoomStore) Info(id domain.RoomID) (RoomInfo, bool) {
	room, ok := s.rooms[id]
	if !ok {
		return RoomInfo{}, false
	}
	return infoOf(room), true
}
