package signal

import (
	"github.com/dkeye/voice-signal/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handlePing acknowledges with no payload. A ping without an ack id is a no-op.
func (ctl *SignalWSController) handlePing(conn *WsSignalConn, ack *int64) {
	if ack == nil {
		return
	}
	if err := conn.TrySend(protocol.EncodeAck(*ack)); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("ping ack")
	}
}
