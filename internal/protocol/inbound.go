package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/dkeye/voice-signal/internal/domain"
)

var (
	ErrMalformed    = errors.New("malformed frame")
	ErrUnknownEvent = errors.New("unknown event")
)

// Event is the closed set of client events. Handlers switch on the concrete type.
type Event interface {
	Name() string
	isEvent()
}

type JoinRoom struct {
	RoomID      domain.RoomID
	UserID      domain.UserID
	IsSpeaker   bool
	DisplayName string
}

type LeaveRoom struct {
	RoomID domain.RoomID
	UserID domain.UserID
}

type Signal struct {
	Data SignalData
}

type StreamStateUpdate struct {
	RoomID   domain.RoomID
	HasAudio bool
	HasVideo bool
}

type ActiveSpeaker struct {
	RoomID domain.RoomID
	Level  float64
}

type Ping struct{}

func (JoinRoom) Name() string          { return EventJoinRoom }
func (LeaveRoom) Name() string         { return EventLeaveRoom }
func (Signal) Name() string            { return EventSignal }
func (StreamStateUpdate) Name() string { return EventStreamStateUpdate }
func (ActiveSpeaker) Name() string     { return EventActiveSpeaker }
func (Ping) Name() string              { return EventPing }

func (JoinRoom) isEvent()          {}
func (LeaveRoom) isEvent()         {}
func (Signal) isEvent()            {}
func (StreamStateUpdate) isEvent() {}
func (ActiveSpeaker) isEvent()     {}
func (Ping) isEvent()              {}

// Message is a decoded client frame. Ack is set when the client wants an acknowledgment.
type Message struct {
	Event Event
	Ack   *int64
}

type inbound struct {
	Event string            `json:"event"`
	Args  []json.RawMessage `json:"args"`
	Ack   *int64            `json:"ack,omitempty"`
}

// Decode validates a raw client frame and turns it into a typed event.
func Decode(raw []byte) (Message, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	ev, err := decodeEvent(in.Event, in.Args)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: ev, Ack: in.Ack}, nil
}

func decodeEvent(name string, args []json.RawMessage) (Event, error) {
	switch name {
	case EventJoinRoom:
		var ev JoinRoom
		if err := decodeArgs(name, args, 2,
			roomArg(&ev.RoomID), userArg(&ev.UserID), boolArg(&ev.IsSpeaker), stringArg(&ev.DisplayName)); err != nil {
			return nil, err
		}
		return ev, nil
	case EventLeaveRoom:
		var ev LeaveRoom
		if err := decodeArgs(name, args, 1, roomArg(&ev.RoomID), claimArg(&ev.UserID)); err != nil {
			return nil, err
		}
		return ev, nil
	case EventSignal:
		var ev Signal
		if err := decodeArgs(name, args, 1, signalArg(&ev.Data)); err != nil {
			return nil, err
		}
		return ev, nil
	case EventStreamStateUpdate:
		var ev StreamStateUpdate
		if err := decodeArgs(name, args, 3, roomArg(&ev.RoomID), boolArg(&ev.HasAudio), boolArg(&ev.HasVideo)); err != nil {
			return nil, err
		}
		return ev, nil
	case EventActiveSpeaker:
		var ev ActiveSpeaker
		if err := decodeArgs(name, args, 2, roomArg(&ev.RoomID), levelArg(&ev.Level)); err != nil {
			return nil, err
		}
		return ev, nil
	case EventPing:
		return Ping{}, nil
	case "":
		return nil, fmt.Errorf("%w: missing event name", ErrMalformed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}

type argDecoder func(raw json.RawMessage) error

// decodeArgs applies decoders positionally. Args past required may be absent or null.
func decodeArgs(event string, args []json.RawMessage, required int, decoders ...argDecoder) error {
	if len(args) < required {
		return fmt.Errorf("%w: %s wants at least %d args, got %d", ErrMalformed, event, required, len(args))
	}
	for i, dec := range decoders {
		if i >= len(args) || isNull(args[i]) {
			if i < required {
				return fmt.Errorf("%w: %s arg %d is null", ErrMalformed, event, i)
			}
			continue
		}
		if err := dec(args[i]); err != nil {
			return fmt.Errorf("%w: %s arg %d: %v", ErrMalformed, event, i, err)
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func roomArg(dst *domain.RoomID) argDecoder {
	return func(raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if s == "" {
			return errors.New("empty room id")
		}
		*dst = domain.RoomID(s)
		return nil
	}
}

func userArg(dst *domain.UserID) argDecoder {
	return func(raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		uid := domain.UserID(s)
		if err := uid.Validate(); err != nil {
			return err
		}
		*dst = uid
		return nil
	}
}

// claimArg reads a user id without validating it. Leave is keyed by connection,
// so an empty or odd claim must not block it.
func claimArg(dst *domain.UserID) argDecoder {
	return func(raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*dst = domain.UserID(s)
		return nil
	}
}

func stringArg(dst *string) argDecoder {
	return func(raw json.RawMessage) error {
		return json.Unmarshal(raw, dst)
	}
}

func boolArg(dst *bool) argDecoder {
	return func(raw json.RawMessage) error {
		return json.Unmarshal(raw, dst)
	}
}

func levelArg(dst *float64) argDecoder {
	return func(raw json.RawMessage) error {
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New("level is not finite")
		}
		*dst = f
		return nil
	}
}

func signalArg(dst *SignalData) argDecoder {
	return func(raw json.RawMessage) error {
		if err := json.Unmarshal(raw, dst); err != nil {
			return err
		}
		return dst.Validate()
	}
}
