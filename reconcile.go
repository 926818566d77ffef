package netinput

import (
	"github.com/lattice-gg/netinput/inputbuffer"
	"github.com/lattice-gg/netinput/message"
	"github.com/lattice-gg/netinput/types"
)

// ReceiveInputMessages drains every frame the channel has received so far
// and reconciles the decoded messages. It runs before the next fixed-step
// phase so freshly written history is visible to simulation and rollback.
// It is a no-op unless input rebroadcasting is enabled.
func (m *Manager[A]) ReceiveInputMessages() {
	if !m.cfg.RebroadcastInputs || m.channel == nil {
		return
	}
	for {
		select {
		case frame, ok := <-m.channel.Recv():
			if !ok {
				return
			}
			msg, err := message.Decode[A](frame, m.entityMap.GetLocal)
			if err != nil {
				m.log.Error().Err(err).Msg("failed to decode input message")
				continue
			}
			m.ReceiveRemoteInputs(msg)
		default:
			return
		}
	}
}

// ReceiveRemoteInputs applies a rebroadcast input message from another
// client into the corresponding predicted entities' buffers, so their
// next ticks can be predicted with real inputs instead of guesses.
//
// Entries addressed by remote identifier are translated through the
// identity map; pre-predicted entries already carry locally meaningful
// identifiers from decode-time remapping. An entry that resolves to no
// known entity is logged and dropped without affecting its siblings.
// The first message ever received for an entity creates its buffer and a
// default action state holder, so a freshly observed remote entity starts
// accumulating history with no prior setup.
func (m *Manager[A]) ReceiveRemoteInputs(msg *message.InputMessage[A]) {
	if !m.cfg.RebroadcastInputs {
		m.log.Trace().Msg("input rebroadcast disabled, ignoring remote input message")
		return
	}
	for _, entry := range msg.Entries {
		local, ok := m.resolveInbound(entry.Target)
		if !ok {
			m.log.Error().
				Uint64("target_id", uint64(entry.Target.ID)).
				Str("target_kind", string(entry.Target.Kind)).
				Int64("end_tick", int64(msg.EndTick)).
				Msg("received input message for unrecognized entity")
			continue
		}
		predicted, ok := m.registry.PredictedOf(local)
		if !ok {
			m.log.Error().
				Uint64("entity_id", uint64(local)).
				Int64("end_tick", int64(msg.EndTick)).
				Msg("received input message for entity with no predicted counterpart")
			continue
		}
		rec, ok := m.inputs[predicted]
		if !ok {
			rec = m.record(predicted, false)
			rec.state = inputbuffer.ActionState[A]{}
		}
		rec.buffer.UpdateFromMessage(msg.EndTick, entry.States)
	}
}

func (m *Manager[A]) resolveInbound(target message.InputTarget) (types.EntityID, bool) {
	switch target.Kind {
	case message.TargetKindEntity:
		return m.entityMap.GetLocal(target.ID)
	case message.TargetKindPrePredicted:
		return target.ID, true
	default:
		return 0, false
	}
}
