package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_AddOverwritesSameConnection(t *testing.T) {
	now := time.Now()
	r := NewRoom("r1", now)
	r.Add(NewParticipant("c1", "u1", true, "", now))
	r.Add(NewParticipant("c1", "u1-again", false, "", now))

	require.Equal(t, 1, r.Len())
	p, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, UserID("u1-again"), p.UserID)
	assert.False(t, p.IsSpeaker)
}

func TestRoom_RemoveClearsActiveSpeaker(t *testing.T) {
	now := time.Now()
	r := NewRoom("r1", now)
	r.Add(NewParticipant("c1", "u1", true, "", now))
	r.Add(NewParticipant("c2", "u2", false, "", now))
	require.True(t, r.SetActiveSpeaker("c1"))

	removed := r.Remove("c1")
	require.NotNil(t, removed)
	assert.Equal(t, ConnectionID(""), r.ActiveSpeaker)

	require.True(t, r.SetActiveSpeaker("c2"))
	r.Remove("missing")
	assert.Equal(t, ConnectionID("c2"), r.ActiveSpeaker)
}

func TestRoom_SetActiveSpeakerRejectsNonMember(t *testing.T) {
	r := NewRoom("r1", time.Now())
	assert.False(t, r.SetActiveSpeaker("ghost"))
	assert.Equal(t, ConnectionID(""), r.ActiveSpeaker)
}

func TestRoom_Stale(t *testing.T) {
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	r := NewRoom("r1", created)

	assert.False(t, r.Stale(created.Add(RoomTTL), RoomTTL), "exactly ttl is not stale")
	assert.True(t, r.Stale(created.Add(RoomTTL+time.Second), RoomTTL))

	r.Add(NewParticipant("c1", "u1", false, "", created))
	assert.False(t, r.Stale(created.Add(2*RoomTTL), RoomTTL), "occupied room is never stale")
}

func TestRoom_MembersOrderedAndFiltered(t *testing.T) {
	base := time.Now()
	r := NewRoom("r1", base)
	r.Add(NewParticipant("c2", "u2", false, "", base.Add(time.Second)))
	r.Add(NewParticipant("c1", "u1", false, "", base))
	r.Add(NewParticipant("c3", "u3", false, "", base.Add(2*time.Second)))

	got := r.Members("c2")
	require.Len(t, got, 2)
	assert.Equal(t, ConnectionID("c1"), got[0].ConnectionID)
	assert.Equal(t, ConnectionID("c3"), got[1].ConnectionID)
}

func TestParticipant_SetStream(t *testing.T) {
	p := NewParticipant("c1", "u1", false, "", time.Now())
	p.SetStream(false, true)
	assert.True(t, p.HasStream)
	p.SetStream(false, false)
	assert.False(t, p.HasStream)
}

func TestNormalizeDisplayName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty falls back to user id", "", "u1"},
		{"whitespace falls back to user id", "   ", "u1"},
		{"trimmed", "  Ada ", "Ada"},
		{"truncated", strings.Repeat("я", MaxDisplayNameLen+5), strings.Repeat("я", MaxDisplayNameLen)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDisplayName(tt.in, "u1"))
		})
	}
}

func TestUserID_Validate(t *testing.T) {
	assert.ErrorIs(t, UserID("").Validate(), ErrUserIDEmpty)
	assert.ErrorIs(t, UserID(strings.Repeat("x", MaxUserIDLen+1)).Validate(), ErrUserIDTooLong)
	assert.NoError(t, UserID("u1").Validate())
}
