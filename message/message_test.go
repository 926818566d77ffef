package message_test

import (
	"testing"

	"github.com/lattice-gg/netinput/assert"
	"github.com/lattice-gg/netinput/inputbuffer"
	"github.com/lattice-gg/netinput/message"
	"github.com/lattice-gg/netinput/types"
)

type castAction struct {
	Spell  string
	Target types.EntityID
}

func (a *castAction) MapEntities(mapper message.EntityMapperFunc) {
	if mapped, ok := mapper(a.Target); ok {
		a.Target = mapped
	}
}

func cast(spell string, target types.EntityID) inputbuffer.ActionState[castAction] {
	return inputbuffer.ActionState[castAction]{Value: &castAction{Spell: spell, Target: target}}
}

func TestAddInputsPullsTrailingWindow(t *testing.T) {
	buf := inputbuffer.New[castAction](64)
	assert.NilError(t, buf.Set(8, cast("fire", 1)))
	assert.NilError(t, buf.Set(10, cast("ice", 1)))

	msg := message.New[castAction](10)
	msg.AddInputs(4, message.Entity(42), buf)

	assert.Len(t, msg.Entries, 1)
	entry := msg.Entries[0]
	assert.Equal(t, entry.Target, message.Entity(42))
	assert.Len(t, entry.States, 4)

	// tick 7 predates the buffer and is encoded as the empty snapshot
	assert.True(t, entry.States[0].IsEmpty())
	assert.Equal(t, entry.States[1].Value.Spell, "fire")
	// tick 9 fill-forwards from tick 8
	assert.Equal(t, entry.States[2].Value.Spell, "fire")
	assert.Equal(t, entry.States[3].Value.Spell, "ice")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	buf := inputbuffer.New[castAction](64)
	assert.NilError(t, buf.Set(5, cast("bolt", 7)))

	msg := message.New[castAction](5)
	msg.AddInputs(2, message.Entity(42), buf)
	delay := float32(0.125)
	msg.InterpolationDelay = &delay

	bz, err := msg.Encode()
	assert.NilError(t, err)

	decoded, err := message.Decode[castAction](bz, nil)
	assert.NilError(t, err)
	assert.Equal(t, decoded.EndTick, types.Tick(5))
	assert.NotNil(t, decoded.InterpolationDelay)
	assert.Equal(t, *decoded.InterpolationDelay, float32(0.125))
	assert.Len(t, decoded.Entries, 1)
	assert.Equal(t, decoded.Entries[0].States[1].Value.Spell, "bolt")
}

func TestDecodeRemapsPrePredictedTargets(t *testing.T) {
	buf := inputbuffer.New[castAction](64)
	assert.NilError(t, buf.Set(3, cast("hex", 100)))

	msg := message.New[castAction](3)
	msg.AddInputs(1, message.PrePredicted(9), buf)
	msg.AddInputs(1, message.Entity(42), buf)

	bz, err := msg.Encode()
	assert.NilError(t, err)

	mapping := map[types.EntityID]types.EntityID{9: 77, 100: 200}
	decoded, err := message.Decode[castAction](bz, func(id types.EntityID) (types.EntityID, bool) {
		mapped, ok := mapping[id]
		return mapped, ok
	})
	assert.NilError(t, err)

	// pre-predicted targets are remapped into the receiver's space...
	assert.Equal(t, decoded.Entries[0].Target, message.PrePredicted(77))
	// ...plain entity targets are left for the reconciler's identity map
	assert.Equal(t, decoded.Entries[1].Target, message.Entity(42))
	// ...and entity references embedded in the action payload are remapped
	assert.Equal(t, decoded.Entries[0].States[0].Value.Target, types.EntityID(200))
}

func TestEmptyMessageStillEncodes(t *testing.T) {
	msg := message.New[castAction](12)
	assert.True(t, msg.IsEmpty())

	bz, err := msg.Encode()
	assert.NilError(t, err)

	decoded, err := message.Decode[castAction](bz, nil)
	assert.NilError(t, err)
	assert.Equal(t, decoded.EndTick, types.Tick(12))
	assert.True(t, decoded.IsEmpty())
}

func TestQueueDrainAndShift(t *testing.T) {
	q := message.NewQueue[castAction]()
	q.Push(message.New[castAction](12))
	q.Push(message.New[castAction](13))
	assert.Equal(t, q.Len(), 2)

	q.ShiftEndTicks(5)
	msgs := q.Drain()
	assert.Len(t, msgs, 2)
	assert.Equal(t, msgs[0].EndTick, types.Tick(17))
	assert.Equal(t, msgs[1].EndTick, types.Tick(18))
	assert.Equal(t, q.Len(), 0)

	// drained messages are gone; the next frame starts empty
	assert.Len(t, q.Drain(), 0)
}
