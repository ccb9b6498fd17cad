package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/voice-signal/internal/core"
	"github.com/dkeye/voice-signal/internal/domain"
)

type outbound struct {
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Ack   *int64 `json:"ack,omitempty"`
}

func Encode(event string, data any) (core.Frame, error) {
	b, err := json.Marshal(outbound{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return b, nil
}

// EncodeAck answers an acknowledged client event with no payload.
func EncodeAck(id int64) core.Frame {
	b, _ := json.Marshal(outbound{Ack: &id})
	return b
}

// Participant is the wire view of a participant. SocketID mirrors ConnectionID
// for clients that still read the transport's name for it.
type Participant struct {
	ConnectionID domain.ConnectionID `json:"connectionId"`
	SocketID     domain.ConnectionID `json:"socketId"`
	UserID       domain.UserID       `json:"userId"`
	DisplayName  string              `json:"displayName"`
	IsSpeaker    bool                `json:"isSpeaker"`
	HasStream    bool                `json:"hasStream"`
	HasAudio     bool                `json:"hasAudio"`
	HasVideo     bool                `json:"hasVideo"`
}

func ParticipantOf(p *domain.Participant) Participant {
	return Participant{
		ConnectionID: p.ConnectionID,
		SocketID:     p.ConnectionID,
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		IsSpeaker:    p.IsSpeaker,
		HasStream:    p.HasStream,
		HasAudio:     p.HasAudio,
		HasVideo:     p.HasVideo,
	}
}

func ParticipantsOf(ps []*domain.Participant) []Participant {
	out := make([]Participant, 0, len(ps))
	for _, p := range ps {
		out = append(out, ParticipantOf(p))
	}
	return out
}

type Connected struct {
	ConnectionID domain.ConnectionID `json:"connectionId"`
}

type UserLeft struct {
	ConnectionID domain.ConnectionID `json:"connectionId"`
	UserID       domain.UserID       `json:"userId"`
}

type StreamUpdate struct {
	ConnectionID domain.ConnectionID `json:"connectionId"`
	SocketID     domain.ConnectionID `json:"socketId"`
	HasStream    bool                `json:"hasStream"`
	HasAudio     bool                `json:"hasAudio"`
	HasVideo     bool                `json:"hasVideo"`
}

func StreamUpdateOf(p *domain.Participant) StreamUpdate {
	return StreamUpdate{
		ConnectionID: p.ConnectionID,
		SocketID:     p.ConnectionID,
		HasStream:    p.HasStream,
		HasAudio:     p.HasAudio,
		HasVideo:     p.HasVideo,
	}
}
