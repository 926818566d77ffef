package netinput

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lattice-gg/netinput/identity"
	"github.com/lattice-gg/netinput/inputbuffer"
	"github.com/lattice-gg/netinput/message"
	"github.com/lattice-gg/netinput/transport"
	"github.com/lattice-gg/netinput/types"
)

// Manager owns the input state of one client: a tick-indexed buffer per
// entity, the identity and prediction tables, and the per-frame queue of
// assembled messages. A is the user's action payload type.
//
// All methods are meant to be called from the host's single-threaded frame
// loop; the Manager does no locking of its own.
type Manager[A any] struct {
	cfg      Config
	log      zerolog.Logger
	channel  transport.Channel
	rollback RollbackChecker
	delay    InterpolationDelayProvider

	entityMap *identity.Map
	registry  *identity.Registry

	// inputs holds one record per entity with buffered input history,
	// local or remote. controlledIDs preserves registration order so
	// outbound messages list entities deterministically.
	inputs        map[types.EntityID]*entityInput[A]
	controlledIDs []types.EntityID

	queue *message.Queue[A]
}

// entityInput is the per-entity record: the buffered history plus the
// frame-current action state holder the fixed-step systems read.
type entityInput[A any] struct {
	buffer     *inputbuffer.Buffer[A]
	state      inputbuffer.ActionState[A]
	controlled bool
}

// NewManager builds a Manager from the environment configuration and the
// given options.
func NewManager[A any](opts ...Option) (*Manager[A], error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	s := settings{cfg: cfg}
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.Logger
	if s.logger != nil {
		logger = *s.logger
	}
	return &Manager[A]{
		cfg:       s.cfg,
		log:       logger.With().Str("subsystem", "netinput").Logger(),
		channel:   s.channel,
		rollback:  s.rollback,
		delay:     s.delay,
		entityMap: identity.NewMap(),
		registry:  identity.NewRegistry(),
		inputs:    make(map[types.EntityID]*entityInput[A]),
		queue:     message.NewQueue[A](),
	}, nil
}

// Config returns the manager's effective configuration.
func (m *Manager[A]) Config() Config {
	return m.cfg
}

// EntityMap returns the local <-> remote identifier table. The replication
// layer fills it in as entities are confirmed.
func (m *Manager[A]) EntityMap() *identity.Map {
	return m.entityMap
}

// Registry returns the prediction relation tables.
func (m *Manager[A]) Registry() *identity.Registry {
	return m.registry
}

// RegisterControlled creates an input record for a locally controlled
// entity. Registering an existing entity is a no-op.
func (m *Manager[A]) RegisterControlled(id types.EntityID) {
	m.record(id, true)
}

// RegisterPrePredicted creates an input record for an entity spawned
// locally ahead of the server. Its inputs stay out of outbound messages
// until AcknowledgePrePredicted is called for it.
func (m *Manager[A]) RegisterPrePredicted(id types.EntityID) {
	m.record(id, true)
	m.registry.MarkPrePredicted(id)
}

// AcknowledgePrePredicted records that the server confirmed the
// pre-predicted entity. Its inputs appear in messages from the next
// assembly cycle onward.
func (m *Manager[A]) AcknowledgePrePredicted(id types.EntityID) {
	m.registry.AcknowledgePrePredicted(id)
}

// LinkPrediction records that predicted is the local predicted copy of the
// confirmed entity.
func (m *Manager[A]) LinkPrediction(confirmed, predicted types.EntityID) {
	m.registry.LinkPrediction(confirmed, predicted)
}

// RemoveEntity destroys the entity's input record and every identity
// relation involving it.
func (m *Manager[A]) RemoveEntity(id types.EntityID) {
	if rec, ok := m.inputs[id]; ok {
		delete(m.inputs, id)
		if rec.controlled {
			for i, cid := range m.controlledIDs {
				if cid == id {
					m.controlledIDs = append(m.controlledIDs[:i], m.controlledIDs[i+1:]...)
					break
				}
			}
		}
	}
	m.registry.Forget(id)
	m.entityMap.Remove(id)
}

func (m *Manager[A]) record(id types.EntityID, controlled bool) *entityInput[A] {
	if rec, ok := m.inputs[id]; ok {
		return rec
	}
	rec := &entityInput[A]{
		buffer:     inputbuffer.New[A](m.cfg.BufferHorizon),
		controlled: controlled,
	}
	m.inputs[id] = rec
	if controlled {
		m.controlledIDs = append(m.controlledIDs, id)
	}
	return rec
}

// CaptureInput stores the action generated this tick for a controlled
// entity, creating its record on first capture. A nil action means "no
// input pressed" for the tick, which is still worth recording. Writing a
// tick older than the retained history fails with
// inputbuffer.ErrHistoryExpired.
func (m *Manager[A]) CaptureInput(id types.EntityID, tick types.Tick, action *A) error {
	rec := m.record(id, true)
	state := inputbuffer.ActionState[A]{Value: action}
	if err := rec.buffer.Set(tick, state); err != nil {
		return err
	}
	rec.state = state
	return nil
}

// Input returns the buffered state for a tick. The rollback driver uses
// this to replay past ticks; a tick older than the retained history fails
// with inputbuffer.ErrHistoryExpired and the caller must fall back to a
// safe default.
func (m *Manager[A]) Input(id types.EntityID, tick types.Tick) (inputbuffer.ActionState[A], error) {
	rec, ok := m.inputs[id]
	if !ok {
		var zero inputbuffer.ActionState[A]
		return zero, ErrUnknownEntity
	}
	return rec.buffer.Get(tick)
}

// Buffer returns an entity's input buffer, if it has one.
func (m *Manager[A]) Buffer(id types.EntityID) (*inputbuffer.Buffer[A], bool) {
	rec, ok := m.inputs[id]
	if !ok {
		return nil, false
	}
	return rec.buffer, true
}

// CurrentState returns the entity's frame-current action state holder.
func (m *Manager[A]) CurrentState(id types.EntityID) (inputbuffer.ActionState[A], bool) {
	rec, ok := m.inputs[id]
	if !ok {
		var zero inputbuffer.ActionState[A]
		return zero, false
	}
	return rec.state, true
}

// PendingMessages returns how many assembled messages await transmission.
func (m *Manager[A]) PendingMessages() int {
	return m.queue.Len()
}
