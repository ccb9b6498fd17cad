package domain

import (
	"sort"
	"time"
)

const (
	// SpeakingThreshold is the level a report must exceed to take the active speaker slot.
	SpeakingThreshold = 0.2
	// RoomTTL is the age after which an empty room is swept.
	RoomTTL = time.Hour
	// SweepInterval is the period of the stale-room sweep.
	SweepInterval = 60 * time.Second
)

type RoomID string

type Room struct {
	ID            RoomID
	Participants  map[ConnectionID]*Participant
	ActiveSpeaker ConnectionID
	CreatedAt     time.Time
}

func NewRoom(id RoomID, now time.Time) *Room {
	return &Room{
		ID:           id,
		Participants: make(map[ConnectionID]*Participant),
		CreatedAt:    now,
	}
}

// Add inserts or overwrites the entry keyed by the participant's connection.
func (r *Room) Add(p *Participant) {
	r.Participants[p.ConnectionID] = p
}

// Remove deletes the participant and clears the active speaker if it was them.
// It returns the removed record, or nil if the connection was not a member.
func (r *Room) Remove(conn ConnectionID) *Participant {
	p, ok := r.Participants[conn]
	if !ok {
		return nil
	}
	delete(r.Participants, conn)
	if r.ActiveSpeaker == conn {
		r.ActiveSpeaker = ""
	}
	return p
}

func (r *Room) Get(conn ConnectionID) (*Participant, bool) {
	p, ok := r.Participants[conn]
	return p, ok
}

func (r *Room) Has(conn ConnectionID) bool {
	_, ok := r.Participants[conn]
	return ok
}

// SetActiveSpeaker only accepts current members.
func (r *Room) SetActiveSpeaker(conn ConnectionID) bool {
	if !r.Has(conn) {
		return false
	}
	r.ActiveSpeaker = conn
	return true
}

func (r *Room) Len() int      { return len(r.Participants) }
func (r *Room) IsEmpty() bool { return len(r.Participants) == 0 }

// Stale reports whether the room is empty and older than ttl.
func (r *Room) Stale(now time.Time, ttl time.Duration) bool {
	return r.IsEmpty() && now.Sub(r.CreatedAt) > ttl
}

// Members returns participants ordered by join time, skipping except.
func (r *Room) Members(except ConnectionID) []*Participant {
	out := make([]*Participant, 0, len(r.Participants))
	for conn, p := range r.Participants {
		if conn == except {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].ConnectionID < out[j].ConnectionID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}
