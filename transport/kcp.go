package transport

import (
	"encoding/binary"
	"io"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	kcp "github.com/xtaci/kcp-go/v5"
)

// KCPChannel is a Channel over a KCP session. KCP runs on UDP, which gives
// the input protocol the loss-prone, low-latency pipe it is designed for;
// the session is tuned for latency over throughput.
//
// Frames are length-prefixed with a 4-byte big-endian header since KCP in
// stream mode has no message boundaries.
type KCPChannel struct {
	sess      *kcp.UDPSession
	sessionID uuid.UUID
	frames    chan []byte
	done      chan struct{}
	log       zerolog.Logger
}

// DialKCP connects to a remote listener and starts the receive loop.
func DialKCP(addr string, log zerolog.Logger) (*KCPChannel, error) {
	sess, err := kcp.DialWithOptions(addr, nil, 0, 0)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to dial kcp %q", addr)
	}
	return NewKCPChannel(sess, log), nil
}

// NewKCPChannel wraps an established session (dialed or accepted) in a
// Channel and starts its receive loop.
func NewKCPChannel(sess *kcp.UDPSession, log zerolog.Logger) *KCPChannel {
	sess.SetStreamMode(true)
	// turbo-ish settings: fast retransmit, no congestion window
	sess.SetNoDelay(1, 10, 2, 1)
	sessionID := uuid.New()
	ch := &KCPChannel{
		sess:      sess,
		sessionID: sessionID,
		frames:    make(chan []byte, 256),
		done:      make(chan struct{}),
		log:       log.With().Str("session_id", sessionID.String()).Logger(),
	}
	go ch.receiveLoop()
	return ch
}

// SessionID identifies this channel instance in logs.
func (c *KCPChannel) SessionID() uuid.UUID {
	return c.sessionID
}

// Send writes one length-prefixed frame to the session.
func (c *KCPChannel) Send(frame []byte) error {
	if len(frame) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(frame)))
	if _, err := c.sess.Write(header[:]); err != nil {
		return eris.Wrap(err, "failed to write frame header")
	}
	if _, err := c.sess.Write(frame); err != nil {
		return eris.Wrap(err, "failed to write frame payload")
	}
	return nil
}

// Recv returns the stream of received frames. The channel is closed when
// the session ends.
func (c *KCPChannel) Recv() <-chan []byte {
	return c.frames
}

// Close tears down the session and stops the receive loop.
func (c *KCPChannel) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	close(c.done)
	return c.sess.Close()
}

func (c *KCPChannel) receiveLoop() {
	defer close(c.frames)
	for {
		var header [4]byte
		if _, err := io.ReadFull(c.sess, header[:]); err != nil {
			c.logReadEnd(err)
			return
		}
		size := binary.BigEndian.Uint32(header[:])
		if size > MaxFrameSize {
			c.log.Error().Uint32("size", size).Msg("dropping oversized frame, closing session")
			_ = c.Close()
			return
		}
		frame := make([]byte, size)
		if _, err := io.ReadFull(c.sess, frame); err != nil {
			c.logReadEnd(err)
			return
		}
		select {
		case c.frames <- frame:
		case <-c.done:
			return
		default:
			// receiver is not keeping up; the frame is treated as lost
			c.log.Debug().Msg("receive queue full, dropping frame")
		}
	}
}

func (c *KCPChannel) logReadEnd(err error) {
	select {
	case <-c.done:
		// expected after Close
	default:
		c.log.Debug().Err(err).Msg("kcp session read ended")
	}
}
