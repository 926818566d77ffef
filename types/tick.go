package types

// Tick is a counter of fixed-duration simulation steps. It normally only
// moves forward, one step per fixed update, but a clock resynchronization
// may snap it backwards or forwards by an arbitrary amount.
type Tick int64

// Delta returns the signed number of steps from other to t.
func (t Tick) Delta(other Tick) int64 {
	return int64(t - other)
}

// TickSnap describes a discontinuous correction of the local tick counter,
// emitted by the clock-sync collaborator when it detects drift against the
// authoritative clock.
type TickSnap struct {
	Old Tick
	New Tick
}

// Shift is the amount every buffered tick label must move to stay
// consistent with the corrected clock.
func (s TickSnap) Shift() Tick {
	return s.New - s.Old
}
