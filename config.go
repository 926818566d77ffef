package netinput

import (
	"time"

	envconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"

	"github.com/lattice-gg/netinput/inputbuffer"
)

// Config holds the recognized options of the input subsystem.
type Config struct {
	// RedundancyFactor multiplies the minimum redundancy window. Every
	// outbound message carries enough trailing ticks of history that the
	// loss of RedundancyFactor-1 consecutive messages leaves no gap on
	// the receiver.
	RedundancyFactor int

	// RebroadcastInputs enables reconciliation of input messages the
	// server rebroadcasts from other clients, so their entities can be
	// predicted locally.
	RebroadcastInputs bool

	// LagCompensation attaches the current interpolation delay to every
	// outbound message.
	LagCompensation bool

	// InputDelayTicks offsets the tick a message targets ahead of the
	// current tick, trading local responsiveness for the input reaching
	// the server before it is needed.
	InputDelayTicks int

	// SendInterval is how often assembled messages are transmitted.
	SendInterval time.Duration

	// TickDuration is the fixed simulation step length.
	TickDuration time.Duration

	// BufferHorizon caps how many ticks of history each entity retains.
	BufferHorizon int
}

// DefaultConfig returns the defaults used when the environment sets nothing.
func DefaultConfig() Config {
	return Config{
		RedundancyFactor: 3,
		SendInterval:     100 * time.Millisecond,
		TickDuration:     16 * time.Millisecond,
		BufferHorizon:    inputbuffer.DefaultHorizon,
	}
}

// envOverrides mirrors Config for environment loading. Durations are in
// milliseconds.
type envOverrides struct {
	RedundancyFactor  int  `config:"NETINPUT_REDUNDANCY_FACTOR"`
	RebroadcastInputs bool `config:"NETINPUT_REBROADCAST_INPUTS"`
	LagCompensation   bool `config:"NETINPUT_LAG_COMPENSATION"`
	InputDelayTicks   int  `config:"NETINPUT_INPUT_DELAY_TICKS"`
	SendIntervalMs    int  `config:"NETINPUT_SEND_INTERVAL_MS"`
	TickDurationMs    int  `config:"NETINPUT_TICK_DURATION_MS"`
	BufferHorizon     int  `config:"NETINPUT_BUFFER_HORIZON"`
}

// LoadConfig returns DefaultConfig overridden by any NETINPUT_* environment
// variables that are set.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	var env envOverrides
	if err := envconfig.FromEnv().To(&env); err != nil {
		return cfg, eris.Wrap(err, "failed to load config from environment")
	}
	if env.RedundancyFactor > 0 {
		cfg.RedundancyFactor = env.RedundancyFactor
	}
	if env.RebroadcastInputs {
		cfg.RebroadcastInputs = true
	}
	if env.LagCompensation {
		cfg.LagCompensation = true
	}
	if env.InputDelayTicks > 0 {
		cfg.InputDelayTicks = env.InputDelayTicks
	}
	if env.SendIntervalMs > 0 {
		cfg.SendInterval = time.Duration(env.SendIntervalMs) * time.Millisecond
	}
	if env.TickDurationMs > 0 {
		cfg.TickDuration = time.Duration(env.TickDurationMs) * time.Millisecond
	}
	if env.BufferHorizon > 0 {
		cfg.BufferHorizon = env.BufferHorizon
	}
	return cfg, nil
}

// Validate rejects configurations the protocol cannot run with.
func (c Config) Validate() error {
	if c.RedundancyFactor < 1 {
		return eris.Errorf("redundancy factor must be >= 1, got %d", c.RedundancyFactor)
	}
	if c.TickDuration <= 0 {
		return eris.Errorf("tick duration must be positive, got %s", c.TickDuration)
	}
	if c.SendInterval <= 0 {
		return eris.Errorf("send interval must be positive, got %s", c.SendInterval)
	}
	if c.InputDelayTicks < 0 {
		return eris.Errorf("input delay ticks must be >= 0, got %d", c.InputDelayTicks)
	}
	return nil
}

// NumTick is the redundancy window: the number of trailing ticks of input
// resent in every message.
func (c Config) NumTick() int {
	perInterval := int(c.SendInterval.Nanoseconds()/c.TickDuration.Nanoseconds()) + 1
	return perInterval * c.RedundancyFactor
}
