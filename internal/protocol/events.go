// Package protocol defines the event-channel wire format.
//
// Client frames look like {"event": "join-room", "args": [...], "ack": 7}.
// Server frames look like {"event": "room-users", "data": ...} or {"ack": 7}.
package protocol

// Client to server.
const (
	EventJoinRoom          = "join-room"
	EventLeaveRoom         = "leave-room"
	EventSignal            = "signal"
	EventStreamStateUpdate = "stream-state-update"
	EventActiveSpeaker     = "active-speaker"
	EventPing              = "ping"
)

// Server to client.
const (
	EventConnect             = "connect"
	EventUserJoined          = "user-joined"
	EventRoomUsers           = "room-users"
	EventActiveSpeakerUpdate = "active-speaker-update"
	EventUserLeft            = "user-left"
	EventUserStreamUpdate    = "user-stream-update"
)
