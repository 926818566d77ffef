package netinput

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lattice-gg/netinput/transport"
)

// Option augments how a Manager is constructed.
type Option func(*settings)

type settings struct {
	cfg      Config
	logger   *zerolog.Logger
	channel  transport.Channel
	rollback RollbackChecker
	delay    InterpolationDelayProvider
}

// WithConfig replaces the environment-loaded configuration entirely.
// Later options still apply on top of it.
func WithConfig(cfg Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithRedundancyFactor sets how many times over the minimum window input
// history is resent. The default is 3.
func WithRedundancyFactor(factor int) Option {
	return func(s *settings) { s.cfg.RedundancyFactor = factor }
}

// WithRebroadcastInputs enables reconciliation of other clients' inputs
// rebroadcast by the server.
func WithRebroadcastInputs() Option {
	return func(s *settings) { s.cfg.RebroadcastInputs = true }
}

// WithLagCompensation enables attaching the interpolation delay supplied
// by provider to every outbound message.
func WithLagCompensation(provider InterpolationDelayProvider) Option {
	return func(s *settings) {
		s.cfg.LagCompensation = true
		s.delay = provider
	}
}

// WithInputDelayTicks targets outbound messages that many ticks ahead of
// the current tick.
func WithInputDelayTicks(ticks int) Option {
	return func(s *settings) { s.cfg.InputDelayTicks = ticks }
}

// WithSendInterval sets how often messages are transmitted. The redundancy
// window is derived from it.
func WithSendInterval(interval time.Duration) Option {
	return func(s *settings) { s.cfg.SendInterval = interval }
}

// WithTickDuration sets the fixed simulation step length.
func WithTickDuration(d time.Duration) Option {
	return func(s *settings) { s.cfg.TickDuration = d }
}

// WithBufferHorizon caps per-entity input history at that many ticks.
func WithBufferHorizon(horizon int) Option {
	return func(s *settings) { s.cfg.BufferHorizon = horizon }
}

// WithChannel sets the transport the manager sends on and receives from.
func WithChannel(ch transport.Channel) Option {
	return func(s *settings) { s.channel = ch }
}

// WithRollbackChecker lets the manager skip message assembly while the
// host is replaying past ticks.
func WithRollbackChecker(rc RollbackChecker) Option {
	return func(s *settings) { s.rollback = rc }
}

// WithLogger replaces the default logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) { s.logger = &logger }
}
