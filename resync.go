package netinput

import "github.com/lattice-gg/netinput/types"

// ApplyTickSnap realigns buffered tick labels after the clock-sync
// collaborator snapped the local tick counter. Every live input buffer has
// its start tick shifted by the snap delta, and every message still
// awaiting transmission this frame has its end tick shifted identically.
//
// It must run after this frame's assembly and before its transmission.
// Messages already sent are deliberately untouched: their labels were
// correct for the clock state at the moment they left.
func (m *Manager[A]) ApplyTickSnap(snap types.TickSnap) {
	shift := snap.Shift()
	for _, rec := range m.inputs {
		rec.buffer.ShiftStartTick(shift)
	}
	m.queue.ShiftEndTicks(shift)
	m.log.Debug().
		Int64("old_tick", int64(snap.Old)).
		Int64("new_tick", int64(snap.New)).
		Int64("shift", int64(shift)).
		Msg("tick snap applied to input buffers and queued messages")
}
