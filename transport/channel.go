// Package transport carries serialized input messages between simulations.
//
// Delivery is best-effort: frames may be lost or reordered and the core
// never retries a send. The redundancy built into every input message is
// the only loss mitigation.
package transport

import "errors"

var (
	ErrChannelClosed = errors.New("channel is closed")
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
)

// MaxFrameSize bounds a single serialized input message on the wire.
const MaxFrameSize = 64 * 1024

// Channel is the unreliable, unordered message pipe consumed by the input
// manager. Send hands a frame to the network without waiting for delivery.
// Recv yields frames as they arrive; the channel is closed when the
// underlying connection goes away.
type Channel interface {
	Send(frame []byte) error
	Recv() <-chan []byte
	Close() error
}
