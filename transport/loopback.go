package transport

// Loopback is an in-process Channel that delivers sent frames straight to
// its own receive queue. A drop function can be installed to simulate
// packet loss deterministically, which is how the redundancy properties of
// the input protocol are exercised in tests.
type Loopback struct {
	frames chan []byte
	drop   func(seq int) bool
	seq    int
	closed bool
}

// NewLoopback returns a loopback channel buffering up to capacity frames.
func NewLoopback(capacity int) *Loopback {
	return &Loopback{frames: make(chan []byte, capacity)}
}

// DropFunc installs a predicate deciding, per send sequence number
// (starting at 0), whether the frame is silently discarded.
func (l *Loopback) DropFunc(drop func(seq int) bool) {
	l.drop = drop
}

// Send queues the frame for local receipt unless the drop predicate
// discards it. A full queue also drops the frame: the channel is
// best-effort, not backpressured.
func (l *Loopback) Send(frame []byte) error {
	if l.closed {
		return ErrChannelClosed
	}
	if len(frame) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	seq := l.seq
	l.seq++
	if l.drop != nil && l.drop(seq) {
		return nil
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	select {
	case l.frames <- cp:
	default:
	}
	return nil
}

// Recv returns the local receive queue.
func (l *Loopback) Recv() <-chan []byte {
	return l.frames
}

// Close shuts the channel. Subsequent sends fail with ErrChannelClosed.
func (l *Loopback) Close() error {
	if !l.closed {
		l.closed = true
		close(l.frames)
	}
	return nil
}
