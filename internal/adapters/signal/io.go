package signal

import (
	"context"
	"time"

	"github.com/dkeye/voice-signal/internal/domain"
	"github.com/dkeye/voice-signal/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writePump is the only writer of the socket. It also drives keepalive pings.
func (ctl *SignalWSController) writePump(ctx context.Context, connID domain.ConnectionID, c *WsSignalConn) {
	var ping <-chan time.Time
	if ctl.opts.PingPeriod > 0 {
		ticker := time.NewTicker(ctl.opts.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(connID)).Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(ctl.opts.WriteWait))
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("conn", string(connID)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("writePump write error")
				return
			}
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("writePump ping failed")
				return
			}
		}
	}
}

// readPump handles events in arrival order and runs disconnect cleanup on exit.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, connID domain.ConnectionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(connID)).Msg("readPump closing")
		cancel()
		ctl.Orch.Disconnect(connID)
		c.Close()
	}()

	if ctl.opts.PongWait > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
		})
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(connID)).Msg("readPump ctx done")
			return
		default:
			mt, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("readPump read error")
				}
				return
			}
			if mt != websocket.TextMessage {
				log.Warn().Str("module", "signal").Str("conn", string(connID)).Int("message_type", mt).Msg("non-text frame skipped")
				continue
			}
			if ctl.opts.PongWait > 0 {
				_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
			}
			ctl.handleSignal(connID, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(connID domain.ConnectionID, c *WsSignalConn, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad frame")
		return
	}

	switch ev := msg.Event.(type) {
	case protocol.JoinRoom:
		ctl.Orch.Join(connID, ev.RoomID, ev.UserID, ev.IsSpeaker, ev.DisplayName)
	case protocol.LeaveRoom:
		ctl.Orch.Leave(connID, ev.RoomID, ev.UserID)
	case protocol.Signal:
		ctl.Orch.Relay(connID, ev.Data)
	case protocol.StreamStateUpdate:
		ctl.Orch.UpdateStreamState(connID, ev.RoomID, ev.HasAudio, ev.HasVideo)
	case protocol.ActiveSpeaker:
		ctl.Orch.ReportSpeakingLevel(connID, ev.RoomID, ev.Level)
	case protocol.Ping:
		ctl.handlePing(c, msg.Ack)
	default:
		log.Warn().Str("module", "signal").Str("event", msg.Event.Name()).Msg("unhandled event")
	}
}
