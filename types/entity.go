package types

// EntityID is the stable identifier of an entity record. Local and remote
// simulations assign IDs independently; the identity map translates between
// the two spaces.
type EntityID uint64
