// Package message defines the redundant input message exchanged between
// simulations, and the per-frame queue that decouples message assembly from
// transmission.
//
// Every message resends a trailing window of input history so the receiver
// can tolerate lost packets: with a redundancy factor of R, any one of R
// consecutive messages is enough to reconstruct the full input timeline.
package message

import (
	"github.com/lattice-gg/netinput/codec"
	"github.com/lattice-gg/netinput/inputbuffer"
	"github.com/lattice-gg/netinput/types"
)

// TargetKind discriminates how the entity ID in an InputTarget is to be
// interpreted by the receiver.
type TargetKind string

const (
	// TargetKindEntity addresses an entity by the identifier the remote
	// end assigned to it. The sender translated through its identity map.
	TargetKindEntity TargetKind = "entity"

	// TargetKindPrePredicted addresses a pre-predicted entity by the
	// sender's local identifier. The receiver resolves it using the spawn
	// handshake state it already holds; the sender's identity map is not
	// involved.
	TargetKindPrePredicted TargetKind = "pre_predicted"
)

// InputTarget tells the receiver which entity a run of input states belongs to.
type InputTarget struct {
	Kind TargetKind     `json:"kind"`
	ID   types.EntityID `json:"id"`
}

// Entity addresses a replication-confirmed entity by its remote identifier.
func Entity(remote types.EntityID) InputTarget {
	return InputTarget{Kind: TargetKindEntity, ID: remote}
}

// PrePredicted addresses a pre-predicted entity by the sender's local identifier.
func PrePredicted(local types.EntityID) InputTarget {
	return InputTarget{Kind: TargetKindPrePredicted, ID: local}
}

// PerTargetData is one entity's slice of an input message: the target it
// addresses plus the redundant run of states, oldest to newest, covering
// [EndTick-len(States)+1, EndTick].
type PerTargetData[A any] struct {
	Target InputTarget                  `json:"target"`
	States []inputbuffer.ActionState[A] `json:"states"`
}

// InputMessage is one outbound unit of input history covering all of the
// sender's addressable controlled entities for one tick window.
//
// A message with zero entries is still sent: the absence of inputs at a
// tick is itself information to the receiver, distinguishing "no input
// pressed" from "packet never arrived".
type InputMessage[A any] struct {
	// EndTick is the latest tick covered by every entry's run.
	EndTick types.Tick `json:"endTick"`

	// InterpolationDelay is attached at send time when lag compensation
	// is enabled, so the server can rewind hit detection by the delay the
	// client was rendering at.
	InterpolationDelay *float32 `json:"interpolationDelay,omitempty"`

	Entries []PerTargetData[A] `json:"entries"`
}

// New returns an empty message covering the window that ends at endTick.
func New[A any](endTick types.Tick) *InputMessage[A] {
	return &InputMessage[A]{EndTick: endTick}
}

// AddInputs appends one entry for target, pulling a run of numTick states
// ending at the message's EndTick from the entity's buffer. Ticks the
// buffer cannot answer for (expired or never written) are encoded as the
// empty snapshot.
func (m *InputMessage[A]) AddInputs(numTick int, target InputTarget, buf *inputbuffer.Buffer[A]) {
	states := make([]inputbuffer.ActionState[A], 0, numTick)
	start := m.EndTick - types.Tick(numTick-1)
	for t := start; t <= m.EndTick; t++ {
		state, err := buf.Get(t)
		if err != nil {
			state = inputbuffer.ActionState[A]{}
		}
		states = append(states, state)
	}
	m.Entries = append(m.Entries, PerTargetData[A]{Target: target, States: states})
}

// IsEmpty reports whether the message carries no entity entries.
func (m *InputMessage[A]) IsEmpty() bool {
	return len(m.Entries) == 0
}

// Encode serializes the message for the channel.
func (m *InputMessage[A]) Encode() ([]byte, error) {
	return codec.Encode(m)
}

// EntityMapperFunc translates an entity identifier across the replication
// boundary. The boolean reports whether a translation exists.
type EntityMapperFunc func(types.EntityID) (types.EntityID, bool)

// EntityMappable is implemented by action payloads that embed entity
// references. Decode calls it on every decoded state so references point
// at entities that are meaningful on the receiving side.
type EntityMappable interface {
	MapEntities(mapper EntityMapperFunc)
}

// Decode deserializes a received message. If mapper is non-nil it is used
// to remap pre-predicted target identifiers into the receiver's entity
// space, and is offered to every decoded action state that implements
// EntityMappable. Targets the mapper cannot translate are kept as decoded;
// the reconciler reports them later when it fails to resolve them.
func Decode[A any](bz []byte, mapper EntityMapperFunc) (*InputMessage[A], error) {
	msg, err := codec.Decode[InputMessage[A]](bz)
	if err != nil {
		return nil, err
	}
	if mapper == nil {
		return &msg, nil
	}
	for i := range msg.Entries {
		entry := &msg.Entries[i]
		if entry.Target.Kind == TargetKindPrePredicted {
			if local, ok := mapper(entry.Target.ID); ok {
				entry.Target.ID = local
			}
		}
		for j := range entry.States {
			if entry.States[j].Value == nil {
				continue
			}
			if mappable, ok := any(entry.States[j].Value).(EntityMappable); ok {
				mappable.MapEntities(mapper)
			}
		}
	}
	return &msg, nil
}
