package netinput

import (
	"github.com/lattice-gg/netinput/message"
	"github.com/lattice-gg/netinput/types"
)

// PrepareInputMessage assembles one outbound message covering the window
// that ends at currentTick plus the configured input delay, and queues it
// for transmission. It runs once per frame, right after the fixed-step
// phase and before any clock resync for the frame is applied.
//
// Entities whose addressing cannot be resolved yet are skipped silently;
// that is the expected state while a handshake completes, not a failure.
// A message is queued even when every entity was skipped, because an empty
// window still tells the receiver "no inputs existed for these ticks" as
// opposed to "the packet never arrived".
//
// While the host is replaying past ticks the method does nothing: the
// windows covering those ticks have already been sent.
func (m *Manager[A]) PrepareInputMessage(currentTick types.Tick) *message.InputMessage[A] {
	if m.rollback != nil && m.rollback.InRollback() {
		m.log.Trace().Int64("tick", int64(currentTick)).Msg("in rollback, skipping input message assembly")
		return nil
	}
	endTick := currentTick + types.Tick(m.cfg.InputDelayTicks)
	numTick := m.cfg.NumTick()

	msg := message.New[A](endTick)
	for _, id := range m.controlledIDs {
		target, ok := m.resolveTarget(id)
		if !ok {
			m.log.Trace().
				Uint64("entity_id", uint64(id)).
				Msg("entity addressing unresolved, excluding from input message")
			continue
		}
		msg.AddInputs(numTick, target, m.inputs[id].buffer)
	}
	m.queue.Push(msg)
	return msg
}

// resolveTarget maps a controlled entity to the identifier the remote end
// understands.
//
// Pre-predicted entities are addressed by their local identifier, but only
// once the server has acknowledged them; until then their inputs are not
// sendable. Everything else is addressed by the remote identifier of its
// confirmed counterpart: the entity itself if it is confirmed, or its
// confirmed origin if it is a local prediction of a replicated entity.
func (m *Manager[A]) resolveTarget(id types.EntityID) (message.InputTarget, bool) {
	if m.registry.IsPrePredicted(id) {
		if !m.registry.IsAcknowledged(id) {
			return message.InputTarget{}, false
		}
		return message.PrePredicted(id), true
	}
	confirmed := id
	if origin, ok := m.registry.ConfirmedOf(id); ok {
		confirmed = origin
	}
	if remote, ok := m.entityMap.GetRemote(confirmed); ok {
		return message.Entity(remote), true
	}
	return message.InputTarget{}, false
}
