package orch

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/voice-signal/internal/app"
	"github.com/dkeye/voice-signal/internal/core"
	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/stretchr/testify/require"
)

type received struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// fakeConn records every frame sent to it.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.ErrConnectionClosed
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) received(t *testing.T) []received {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]received, 0, len(f.frames))
	for _, fr := range f.frames {
		var r received
		require.NoError(t, json.Unmarshal(fr, &r))
		out = append(out, r)
	}
	return out
}

func (f *fakeConn) named(t *testing.T, event string) []json.RawMessage {
	t.Helper()
	var out []json.RawMessage
	for _, r := range f.received(t) {
		if r.Event == event {
			out = append(out, r.Data)
		}
	}
	return out
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

type fixture struct {
	o     *Orchestrator
	conns map[domain.ConnectionID]*fakeConn
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		conns: make(map[domain.ConnectionID]*fakeConn),
		clock: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.o = New(app.NewRegistry(), core.NewRoomStore(), app.SimplePolicy{})
	f.o.Now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) connect(id domain.ConnectionID) *fakeConn {
	c := &fakeConn{}
	f.conns[id] = c
	f.o.Registry.Register(id, c, "token-"+string(id))
	return c
}

func (f *fixture) participantCount(t *testing.T, roomID domain.RoomID) int {
	t.Helper()
	room, ok := f.o.Rooms.Room(roomID)
	if !ok {
		return 0
	}
	return room.Len()
}

func decodeInto[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
