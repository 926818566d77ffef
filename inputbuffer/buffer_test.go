package inputbuffer_test

import (
	"testing"

	"github.com/lattice-gg/netinput/assert"
	"github.com/lattice-gg/netinput/inputbuffer"
	"github.com/lattice-gg/netinput/types"
)

type moveAction struct {
	X, Y float64
	Jump bool
}

func state(x float64) inputbuffer.ActionState[moveAction] {
	return inputbuffer.ActionState[moveAction]{Value: &moveAction{X: x}}
}

func TestFillForward(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	assert.NilError(t, buf.Set(5, state(1)))
	assert.NilError(t, buf.Set(7, state(2)))

	// tick 6 was never written; the nearest earlier state is repeated.
	got, err := buf.Get(6)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 1.0)

	// reads past the newest entry return the newest state.
	got, err = buf.Get(8)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 2.0)

	got, err = buf.Get(100)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 2.0)
}

func TestGetBeforeStartTickFails(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	assert.NilError(t, buf.Set(5, state(1)))

	_, err := buf.Get(4)
	assert.ErrorIs(t, err, inputbuffer.ErrHistoryExpired)

	empty := inputbuffer.New[moveAction](64)
	_, err = empty.Get(0)
	assert.ErrorIs(t, err, inputbuffer.ErrHistoryExpired)
}

func TestSetBeforeStartTickFails(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	assert.NilError(t, buf.Set(10, state(1)))
	assert.ErrorIs(t, buf.Set(9, state(2)), inputbuffer.ErrHistoryExpired)
}

func TestOverwriteWithinRange(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	assert.NilError(t, buf.Set(5, state(1)))
	assert.NilError(t, buf.Set(8, state(2)))
	assert.NilError(t, buf.Set(6, state(3)))

	got, err := buf.Get(6)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 3.0)
	assert.Equal(t, buf.Len(), 4)
}

func TestHorizonEviction(t *testing.T) {
	buf := inputbuffer.New[moveAction](4)
	for tick := types.Tick(0); tick < 10; tick++ {
		assert.NilError(t, buf.Set(tick, state(float64(tick))))
	}

	start, ok := buf.StartTick()
	assert.True(t, ok)
	assert.Equal(t, start, types.Tick(6))
	assert.Equal(t, buf.Len(), 4)

	_, err := buf.Get(5)
	assert.ErrorIs(t, err, inputbuffer.ErrHistoryExpired)

	got, err := buf.Get(6)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 6.0)
}

func TestHorizonExample(t *testing.T) {
	// Worked example: horizon 64, writes at 5 and 7 only.
	buf := inputbuffer.New[moveAction](64)
	a, b := state(1), state(2)
	assert.NilError(t, buf.Set(5, a))
	assert.NilError(t, buf.Set(7, b))

	got, err := buf.Get(6)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, a.Value.X)
	got, err = buf.Get(8)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, b.Value.X)

	// advance far enough that the start tick moves past 4
	for tick := types.Tick(8); tick <= 5+64; tick++ {
		assert.NilError(t, buf.Set(tick, state(9)))
	}
	_, err = buf.Get(4)
	assert.ErrorIs(t, err, inputbuffer.ErrHistoryExpired)
}

func TestNoInputIsDistinctFromMissing(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	assert.NilError(t, buf.Set(3, inputbuffer.ActionState[moveAction]{}))

	got, err := buf.Get(3)
	assert.NilError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestUpdateFromMessageAppendsNewerTicks(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	assert.NilError(t, buf.Set(10, state(1)))

	buf.UpdateFromMessage(13, []inputbuffer.ActionState[moveAction]{
		state(5), state(6), state(7), state(8), // ticks 10..13
	})

	// tick 10 is already locally known and must not be regressed.
	got, err := buf.Get(10)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 1.0)

	for tick, want := range map[types.Tick]float64{11: 6, 12: 7, 13: 8} {
		got, err := buf.Get(tick)
		assert.NilError(t, err)
		assert.Equal(t, got.Value.X, want, "tick %d", tick)
	}

	end, ok := buf.EndTick()
	assert.True(t, ok)
	assert.Equal(t, end, types.Tick(13))
}

func TestUpdateFromMessageOnEmptyBuffer(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	buf.UpdateFromMessage(5, []inputbuffer.ActionState[moveAction]{
		state(1), state(2), state(3), // ticks 3..5
	})

	start, ok := buf.StartTick()
	assert.True(t, ok)
	assert.Equal(t, start, types.Tick(3))
	got, err := buf.Get(4)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 2.0)
}

func TestUpdateFromMessageEntirelyStale(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	assert.NilError(t, buf.Set(20, state(1)))

	buf.UpdateFromMessage(18, []inputbuffer.ActionState[moveAction]{
		state(7), state(8), // ticks 17..18
	})

	assert.Equal(t, buf.Len(), 1)
	got, err := buf.Get(20)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 1.0)
}

func TestShiftStartTick(t *testing.T) {
	buf := inputbuffer.New[moveAction](64)
	assert.NilError(t, buf.Set(10, state(1)))
	assert.NilError(t, buf.Set(12, state(2)))

	buf.ShiftStartTick(5)
	start, ok := buf.StartTick()
	assert.True(t, ok)
	assert.Equal(t, start, types.Tick(15))

	got, err := buf.Get(17)
	assert.NilError(t, err)
	assert.Equal(t, got.Value.X, 2.0)
	_, err = buf.Get(12)
	assert.ErrorIs(t, err, inputbuffer.ErrHistoryExpired)

	// negative shifts from a backwards snap are just as valid
	buf.ShiftStartTick(-10)
	start, _ = buf.StartTick()
	assert.Equal(t, start, types.Tick(5))

	// shifting an empty buffer does nothing
	empty := inputbuffer.New[moveAction](64)
	empty.ShiftStartTick(3)
	_, ok = empty.StartTick()
	assert.False(t, ok)
}
