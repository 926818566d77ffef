package identity

import "github.com/lattice-gg/netinput/types"

// Registry stores the prediction relations between entity records as
// explicit lookup tables keyed by stable identifiers: which predicted
// record shadows which confirmed record, which entities were spawned
// pre-predicted, and whether the server has acknowledged them yet.
type Registry struct {
	confirmedToPredicted map[types.EntityID]types.EntityID
	predictedToConfirmed map[types.EntityID]types.EntityID

	// prePredicted maps a pre-predicted entity to whether the server has
	// acknowledged it as the predicted copy of a confirmed entity.
	prePredicted map[types.EntityID]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		confirmedToPredicted: make(map[types.EntityID]types.EntityID),
		predictedToConfirmed: make(map[types.EntityID]types.EntityID),
		prePredicted:         make(map[types.EntityID]bool),
	}
}

// LinkPrediction records that predicted is the local predicted copy of the
// confirmed entity.
func (r *Registry) LinkPrediction(confirmed, predicted types.EntityID) {
	r.confirmedToPredicted[confirmed] = predicted
	r.predictedToConfirmed[predicted] = confirmed
}

// PredictedOf returns the predicted counterpart of a confirmed entity.
func (r *Registry) PredictedOf(confirmed types.EntityID) (types.EntityID, bool) {
	predicted, ok := r.confirmedToPredicted[confirmed]
	return predicted, ok
}

// ConfirmedOf returns the confirmed origin of a predicted entity.
func (r *Registry) ConfirmedOf(predicted types.EntityID) (types.EntityID, bool) {
	confirmed, ok := r.predictedToConfirmed[predicted]
	return confirmed, ok
}

// MarkPrePredicted records that the entity was spawned locally ahead of the
// server, expecting to be adopted as a predicted copy later.
func (r *Registry) MarkPrePredicted(id types.EntityID) {
	if _, ok := r.prePredicted[id]; !ok {
		r.prePredicted[id] = false
	}
}

// AcknowledgePrePredicted flips the acknowledgement flag once the server
// has confirmed the pre-predicted entity. Inputs for the entity become
// sendable from the next assembly cycle onward.
func (r *Registry) AcknowledgePrePredicted(id types.EntityID) {
	if _, ok := r.prePredicted[id]; ok {
		r.prePredicted[id] = true
	}
}

// IsPrePredicted reports whether the entity was spawned pre-predicted.
func (r *Registry) IsPrePredicted(id types.EntityID) bool {
	_, ok := r.prePredicted[id]
	return ok
}

// IsAcknowledged reports whether a pre-predicted entity has been confirmed
// by the server. Entities that were never pre-predicted report false.
func (r *Registry) IsAcknowledged(id types.EntityID) bool {
	return r.prePredicted[id]
}

// Forget drops every relation involving the entity. Called when the entity
// is destroyed.
func (r *Registry) Forget(id types.EntityID) {
	if predicted, ok := r.confirmedToPredicted[id]; ok {
		delete(r.predictedToConfirmed, predicted)
		delete(r.confirmedToPredicted, id)
	}
	if confirmed, ok := r.predictedToConfirmed[id]; ok {
		delete(r.confirmedToPredicted, confirmed)
		delete(r.predictedToConfirmed, id)
	}
	delete(r.prePredicted, id)
}
