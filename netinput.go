// Package netinput is the client-side predictive-input subsystem of a
// fixed-step networked simulation.
//
// It buffers locally captured inputs per controlled entity, packages them
// into redundant messages that survive packet loss, resolves how each
// entity is addressed across the replication boundary, reconciles
// rebroadcast inputs from other clients into predicted entities, and
// relabels buffered history when the shared clock is resynchronized.
//
// The package performs no I/O of its own and owns no goroutines. The host
// drives it through one method per frame phase, in this order:
//
//	capture        -> CaptureInput (once per controlled entity per tick)
//	simulate       -> host fixed-step systems, any rollback replay
//	reconcile      -> ReceiveInputMessages (before the next simulate)
//	assemble       -> PrepareInputMessage (skipped during rollback)
//	resync         -> ApplyTickSnap (if the clock-sync emitted a snap)
//	transmit       -> SendInputMessages
//
// Assembly before resync and resync before transmit is load-bearing: a
// tick snap must correct the labels of messages assembled this frame
// before they reach the wire, while messages already in flight keep the
// labels that were correct when they were sent.
package netinput

import "errors"

// ErrUnknownEntity is returned when an operation names an entity that has
// no input record.
var ErrUnknownEntity = errors.New("unknown entity")

// RollbackChecker reports whether the host is currently replaying past
// ticks. Message assembly is suppressed during a replay so that windows
// already sent are not emitted again.
type RollbackChecker interface {
	InRollback() bool
}

// InterpolationDelayProvider supplies the interpolation delay the client
// is currently rendering remote entities at. When lag compensation is
// enabled, the delay is attached to every outbound message at send time,
// after any clock adjustment for the frame has been applied.
type InterpolationDelayProvider interface {
	InterpolationDelay() float32
}
