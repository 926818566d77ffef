// Package inputbuffer stores per-entity input history indexed by tick.
//
// The history is what makes client-side prediction work: the fixed-step
// simulation reads the input for the tick it is executing, the rollback
// driver re-reads older ticks when it replays, and the outbound message
// codec pulls a trailing window of states to resend redundantly.
package inputbuffer

import (
	"errors"

	"github.com/lattice-gg/netinput/types"
)

// ErrHistoryExpired is returned when a tick older than the buffer's start
// tick is queried. Callers must treat this as "input unknown, use a safe
// default", never as fatal.
var ErrHistoryExpired = errors.New("input history expired")

// DefaultHorizon caps how many ticks of history a buffer retains. Old
// entries are kept as long as possible because rollback replays may still
// need them.
const DefaultHorizon = 100

// ActionState is a snapshot of an input payload for exactly one tick.
// A nil Value means "no input pressed", which is distinct from a tick for
// which no message ever arrived.
type ActionState[A any] struct {
	Value *A `json:"value,omitempty"`
}

// IsEmpty reports whether the snapshot carries no input.
func (s ActionState[A]) IsEmpty() bool {
	return s.Value == nil
}

// Buffer is an ordered mapping from tick to action state, represented as a
// bounded deque plus the tick of element zero. Ticks are contiguous: a gap
// between writes is filled by repeating the nearest earlier known state, so
// a read inside the retained range never misses.
//
// A buffer is exclusively owned by one entity record and is mutated either
// by local capture (controlled entities) or by the inbound reconciler
// (remote predicted entities), never both.
type Buffer[A any] struct {
	startTick *types.Tick
	states    []ActionState[A]
	horizon   int
}

// New returns an empty buffer retaining at most horizon ticks of history.
// A horizon <= 0 falls back to DefaultHorizon.
func New[A any](horizon int) *Buffer[A] {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Buffer[A]{horizon: horizon}
}

// StartTick returns the tick of the oldest retained entry.
func (b *Buffer[A]) StartTick() (types.Tick, bool) {
	if b.startTick == nil {
		return 0, false
	}
	return *b.startTick, true
}

// EndTick returns the tick of the newest retained entry.
func (b *Buffer[A]) EndTick() (types.Tick, bool) {
	if b.startTick == nil {
		return 0, false
	}
	return *b.startTick + types.Tick(len(b.states)-1), true
}

// Len returns the number of retained ticks.
func (b *Buffer[A]) Len() int {
	return len(b.states)
}

// Set inserts or overwrites the state at the given tick. Writing past the
// current end extends the buffer, repeating the latest known state across
// any intermediate ticks. Writing past the horizon evicts the oldest
// entries and advances the start tick. Writing before the start tick fails
// with ErrHistoryExpired.
func (b *Buffer[A]) Set(tick types.Tick, state ActionState[A]) error {
	if b.startTick == nil {
		start := tick
		b.startTick = &start
		b.states = append(b.states, state)
		return nil
	}
	if tick < *b.startTick {
		return ErrHistoryExpired
	}
	end := *b.startTick + types.Tick(len(b.states)-1)
	if tick <= end {
		b.states[tick-*b.startTick] = state
		return nil
	}
	// Fill the gap with the latest known state so reads stay contiguous.
	last := b.states[len(b.states)-1]
	for t := end + 1; t < tick; t++ {
		b.states = append(b.states, last)
	}
	b.states = append(b.states, state)
	b.evict()
	return nil
}

func (b *Buffer[A]) evict() {
	if len(b.states) <= b.horizon {
		return
	}
	overflow := len(b.states) - b.horizon
	b.states = append(b.states[:0], b.states[overflow:]...)
	start := *b.startTick + types.Tick(overflow)
	b.startTick = &start
}

// Get returns the state at the given tick. For ticks at or after the start
// tick the read never misses: ticks past the newest entry return the newest
// state (fill-forward). Ticks before the start tick, or any read on an
// empty buffer, fail with ErrHistoryExpired.
func (b *Buffer[A]) Get(tick types.Tick) (ActionState[A], error) {
	var zero ActionState[A]
	if b.startTick == nil || tick < *b.startTick {
		return zero, ErrHistoryExpired
	}
	idx := int(tick - *b.startTick)
	if idx >= len(b.states) {
		return b.states[len(b.states)-1], nil
	}
	return b.states[idx], nil
}

// GetLast returns the newest retained state, or the zero snapshot if the
// buffer is empty.
func (b *Buffer[A]) GetLast() ActionState[A] {
	if len(b.states) == 0 {
		var zero ActionState[A]
		return zero
	}
	return b.states[len(b.states)-1]
}

// UpdateFromMessage merges a redundant run received over the network. The
// run covers ticks [endTick-len(states)+1, endTick], oldest first. Only
// ticks strictly newer than the local end tick are accepted: anything the
// buffer already covers is kept as-is, so stale network data can never
// regress locally known values. Equal-tick conflicts keep the existing
// entry; that is a policy choice, not an accident.
func (b *Buffer[A]) UpdateFromMessage(endTick types.Tick, states []ActionState[A]) {
	runStart := endTick - types.Tick(len(states)-1)
	for i, state := range states {
		tick := runStart + types.Tick(i)
		if end, ok := b.EndTick(); ok && tick <= end {
			continue
		}
		// The run only moves forward from here, so Set cannot fail.
		_ = b.Set(tick, state)
	}
}

// ShiftStartTick relabels the retained range after a clock resync. The
// stored states are untouched; only the tick they are addressed by moves.
// Shifting an empty buffer is a no-op.
func (b *Buffer[A]) ShiftStartTick(shift types.Tick) {
	if b.startTick == nil {
		return
	}
	start := *b.startTick + shift
	b.startTick = &start
}
