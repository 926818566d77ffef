package identity_test

import (
	"testing"

	"github.com/lattice-gg/netinput/assert"
	"github.com/lattice-gg/netinput/identity"
	"github.com/lattice-gg/netinput/types"
)

func TestMapRoundTrip(t *testing.T) {
	m := identity.NewMap()
	m.Insert(1, 100)
	m.Insert(2, 200)

	remote, ok := m.GetRemote(1)
	assert.True(t, ok)
	assert.Equal(t, remote, types.EntityID(100))

	local, ok := m.GetLocal(200)
	assert.True(t, ok)
	assert.Equal(t, local, types.EntityID(2))

	_, ok = m.GetRemote(3)
	assert.False(t, ok)
	_, ok = m.GetLocal(300)
	assert.False(t, ok)

	m.Remove(1)
	_, ok = m.GetRemote(1)
	assert.False(t, ok)
	_, ok = m.GetLocal(100)
	assert.False(t, ok)
}

func TestRegistryPredictionLinks(t *testing.T) {
	r := identity.NewRegistry()
	r.LinkPrediction(10, 11)

	predicted, ok := r.PredictedOf(10)
	assert.True(t, ok)
	assert.Equal(t, predicted, types.EntityID(11))

	confirmed, ok := r.ConfirmedOf(11)
	assert.True(t, ok)
	assert.Equal(t, confirmed, types.EntityID(10))

	_, ok = r.PredictedOf(11)
	assert.False(t, ok)
}

func TestRegistryPrePredictedAcknowledgement(t *testing.T) {
	r := identity.NewRegistry()
	assert.False(t, r.IsPrePredicted(5))

	r.MarkPrePredicted(5)
	assert.True(t, r.IsPrePredicted(5))
	assert.False(t, r.IsAcknowledged(5))

	// acknowledging an unknown entity is a no-op, not a registration
	r.AcknowledgePrePredicted(6)
	assert.False(t, r.IsPrePredicted(6))

	r.AcknowledgePrePredicted(5)
	assert.True(t, r.IsAcknowledged(5))

	// marking again must not reset the acknowledgement
	r.MarkPrePredicted(5)
	assert.True(t, r.IsAcknowledged(5))
}

func TestRegistryForget(t *testing.T) {
	r := identity.NewRegistry()
	r.LinkPrediction(10, 11)
	r.MarkPrePredicted(11)

	r.Forget(11)
	_, ok := r.PredictedOf(10)
	assert.False(t, ok)
	_, ok = r.ConfirmedOf(11)
	assert.False(t, ok)
	assert.False(t, r.IsPrePredicted(11))

	r.LinkPrediction(20, 21)
	r.Forget(20)
	_, ok = r.ConfirmedOf(21)
	assert.False(t, ok)
}
