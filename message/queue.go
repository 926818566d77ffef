package message

import "github.com/lattice-gg/netinput/types"

// Queue holds messages that have been assembled this frame but not yet
// handed to the channel. Assembly runs right after the fixed-step phase,
// before any clock resync for the frame has been applied; transmission runs
// after. Queued messages therefore still belong to this side of the resync
// boundary and must have their tick labels corrected by ShiftEndTicks
// before they go out. Messages already in flight are never touched: their
// labels were correct for the clock state at send time.
//
// The queue is filled once and drained once per frame and is empty in
// between. It is only ever accessed from the frame's linear phase sequence,
// so it needs no locking.
type Queue[A any] struct {
	messages []*InputMessage[A]
}

// NewQueue returns an empty queue.
func NewQueue[A any]() *Queue[A] {
	return &Queue[A]{}
}

// Push appends an assembled message.
func (q *Queue[A]) Push(msg *InputMessage[A]) {
	q.messages = append(q.messages, msg)
}

// Len returns the number of queued messages.
func (q *Queue[A]) Len() int {
	return len(q.messages)
}

// Drain removes and returns every queued message in push order.
func (q *Queue[A]) Drain() []*InputMessage[A] {
	msgs := q.messages
	q.messages = nil
	return msgs
}

// ShiftEndTicks relabels every queued message after a clock resync.
func (q *Queue[A]) ShiftEndTicks(shift types.Tick) {
	for _, msg := range q.messages {
		msg.EndTick += shift
	}
}
