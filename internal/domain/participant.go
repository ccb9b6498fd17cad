package domain

import "time"

// Participant is one connection's membership in one room.
// It is owned by its Room and mutated in place.
type Participant struct {
	UserID       UserID
	ConnectionID ConnectionID
	IsSpeaker    bool
	HasStream    bool
	HasAudio     bool
	HasVideo     bool
	DisplayName  string
	JoinedAt     time.Time
}

// NewParticipant avoids raw literals in the lifecycle code.
func NewParticipant(conn ConnectionID, uid UserID, isSpeaker bool, displayName string, now time.Time) *Participant {
	return &Participant{
		UserID:       uid,
		ConnectionID: conn,
		IsSpeaker:    isSpeaker,
		DisplayName:  NormalizeDisplayName(displayName, uid),
		JoinedAt:     now,
	}
}

// SetStream records published media. HasStream follows the two track flags.
func (p *Participant) SetStream(hasAudio, hasVideo bool) {
	p.HasAudio = hasAudio
	p.HasVideo = hasVideo
	p.HasStream = hasAudio || hasVideo
}
