package core

//go:generate mockgen -destination=mocks/signal_mock.go -package=mocks . SignalConnection

import "errors"

// Frame is one encoded outbound message.
type Frame []byte

var (
	ErrBackpressure     = errors.New("backpressure")
	ErrConnectionClosed = errors.New("connection closed")
)

// SignalConnection abstracts the event-channel transport of one connection.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend never blocks. It returns ErrBackpressure when the queue is full.
	TrySend(Frame) error
	Close()
}
