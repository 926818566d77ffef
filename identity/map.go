// Package identity tracks how entity identifiers relate across the
// replication boundary: which remote ID a local entity is known by, and
// which local records are confirmed, predicted, or pre-predicted copies of
// one another.
package identity

import "github.com/lattice-gg/netinput/types"

// Map is the bidirectional local <-> remote entity identifier table filled
// in by the replication layer. Lookups that have no translation report
// false; they never fail harder than that, because an entity that has not
// finished replicating is an expected transient state.
type Map struct {
	localToRemote map[types.EntityID]types.EntityID
	remoteToLocal map[types.EntityID]types.EntityID
}

// NewMap returns an empty identity map.
func NewMap() *Map {
	return &Map{
		localToRemote: make(map[types.EntityID]types.EntityID),
		remoteToLocal: make(map[types.EntityID]types.EntityID),
	}
}

// Insert records that the local entity is known remotely by remote.
func (m *Map) Insert(local, remote types.EntityID) {
	m.localToRemote[local] = remote
	m.remoteToLocal[remote] = local
}

// GetRemote returns the remote identifier for a local entity.
func (m *Map) GetRemote(local types.EntityID) (types.EntityID, bool) {
	remote, ok := m.localToRemote[local]
	return remote, ok
}

// GetLocal returns the local identifier for a remote entity.
func (m *Map) GetLocal(remote types.EntityID) (types.EntityID, bool) {
	local, ok := m.remoteToLocal[remote]
	return local, ok
}

// Remove drops the translation for a local entity, if any.
func (m *Map) Remove(local types.EntityID) {
	if remote, ok := m.localToRemote[local]; ok {
		delete(m.remoteToLocal, remote)
		delete(m.localToRemote, local)
	}
}
