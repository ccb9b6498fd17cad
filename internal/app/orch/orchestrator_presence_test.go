package orch

import (
	"testing"

	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/dkeye/voice-signal/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStreamState(t *testing.T) {
	f, a, b := joinedPair(t)

	f.o.UpdateStreamState("A", "r1", false, true)

	updates := b.named(t, protocol.EventUserStreamUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t,
		protocol.StreamUpdate{ConnectionID: "A", SocketID: "A", HasStream: true, HasVideo: true},
		decodeInto[protocol.StreamUpdate](t, updates[0]))
	assert.Empty(t, a.received(t), "sender is not echoed")

	f.o.UpdateStreamState("A", "r1", false, false)
	room, _ := f.o.Rooms.Room("r1")
	p, _ := room.Get("A")
	assert.False(t, p.HasStream)
}

func TestUpdateStreamState_UnknownRoomIsNoop(t *testing.T) {
	f, _, b := joinedPair(t)

	f.o.UpdateStreamState("A", "elsewhere", true, true)
	f.connect("C")
	f.o.UpdateStreamState("C", "r1", true, true)

	assert.Empty(t, b.received(t))
	assert.Equal(t, 1, f.o.Rooms.Len())
}

func TestReportSpeakingLevel_Threshold(t *testing.T) {
	tests := []struct {
		name    string
		level   float64
		takes   bool
		initial domain.ConnectionID
	}{
		{"below", 0.1, false, "B"},
		{"exactly threshold", domain.SpeakingThreshold, false, "B"},
		{"above", 0.21, true, "B"},
		{"above with no prior speaker", 0.8, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _, b := joinedPair(t)
			if tt.initial != "" {
				f.o.ReportSpeakingLevel(tt.initial, "r1", 1)
			}
			b.reset()

			f.o.ReportSpeakingLevel("A", "r1", tt.level)

			room, _ := f.o.Rooms.Room("r1")
			if tt.takes {
				assert.Equal(t, domain.ConnectionID("A"), room.ActiveSpeaker)
				updates := b.named(t, protocol.EventActiveSpeakerUpdate)
				require.Len(t, updates, 1)
				assert.Equal(t, domain.ConnectionID("A"), decodeInto[domain.ConnectionID](t, updates[0]))
			} else {
				assert.Equal(t, tt.initial, room.ActiveSpeaker)
				assert.Empty(t, b.named(t, protocol.EventActiveSpeakerUpdate))
			}
		})
	}
}

func TestReportSpeakingLevel_NonMemberIgnored(t *testing.T) {
	f, _, _ := joinedPair(t)
	f.connect("C")

	f.o.ReportSpeakingLevel("C", "r1", 0.9)
	f.o.ReportSpeakingLevel("A", "missing", 0.9)

	room, _ := f.o.Rooms.Room("r1")
	assert.Equal(t, domain.ConnectionID(""), room.ActiveSpeaker)
	_, ok := f.o.Rooms.Room("missing")
	assert.False(t, ok, "speaker report must not create rooms")
}
