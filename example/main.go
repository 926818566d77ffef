// Demo of the input pipeline over a lossy wire: a relay rebroadcasts every
// client's input messages to the other clients, and each client predicts
// the peer entity from the rebroadcast history.
//
// Run a relay, then two clients:
//
//	go run . -relay -addr 127.0.0.1:9999
//	go run . -addr 127.0.0.1:9999 -entity 1
//	go run . -addr 127.0.0.1:9999 -entity 2
package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	kcp "github.com/xtaci/kcp-go/v5"

	"github.com/lattice-gg/netinput"
	"github.com/lattice-gg/netinput/transport"
	"github.com/lattice-gg/netinput/types"
)

type action struct {
	X, Y float64
}

func main() {
	relay := flag.Bool("relay", false, "run the relay instead of a client")
	addr := flag.String("addr", "127.0.0.1:9999", "relay address")
	entity := flag.Uint64("entity", 1, "entity id this client controls (1 or 2)")
	ticks := flag.Int("ticks", 300, "ticks to simulate before exiting")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *relay {
		runRelay(*addr, logger)
		return
	}
	runClient(*addr, types.EntityID(*entity), *ticks, logger)
}

// runRelay accepts sessions and forwards every frame to all other sessions.
func runRelay(addr string, logger zerolog.Logger) {
	listener, err := kcp.ListenWithOptions(addr, nil, 0, 0)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to listen")
	}
	logger.Info().Str("addr", addr).Msg("relay listening")

	var channels []*transport.KCPChannel
	joined := make(chan *transport.KCPChannel)
	frames := make(chan relayFrame, 256)

	go func() {
		for {
			sess, err := listener.AcceptKCP()
			if err != nil {
				return
			}
			joined <- transport.NewKCPChannel(sess, logger)
		}
	}()

	for {
		select {
		case ch := <-joined:
			logger.Info().Str("session_id", ch.SessionID().String()).Msg("client joined")
			channels = append(channels, ch)
			go func(ch *transport.KCPChannel) {
				for frame := range ch.Recv() {
					frames <- relayFrame{from: ch, payload: frame}
				}
			}(ch)
		case f := <-frames:
			for _, ch := range channels {
				if ch == f.from {
					continue
				}
				if err := ch.Send(f.payload); err != nil {
					logger.Error().Err(err).Msg("relay send failed")
				}
			}
		}
	}
}

type relayFrame struct {
	from    *transport.KCPChannel
	payload []byte
}

// runClient captures synthetic inputs on a fixed tick, ships them through
// the relay, and reconciles whatever the relay rebroadcasts from the peer.
func runClient(addr string, local types.EntityID, ticks int, logger zerolog.Logger) {
	ch, err := transport.DialKCP(addr, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to dial relay")
	}
	defer ch.Close()

	mgr, err := netinput.NewManager[action](
		netinput.WithChannel(ch),
		netinput.WithRebroadcastInputs(),
		netinput.WithLogger(logger),
		netinput.WithTickDuration(16*time.Millisecond),
		netinput.WithSendInterval(48*time.Millisecond),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build manager")
	}

	// in a real client the replication layer fills these in; the demo
	// hardcodes a two-player world where entity IDs are shared
	peer := types.EntityID(3 - uint64(local))
	mgr.RegisterControlled(local)
	mgr.EntityMap().Insert(local, local)
	mgr.EntityMap().Insert(peer, peer)
	// predict the peer on a shadow record
	predicted := peer + 100
	mgr.LinkPrediction(peer, predicted)

	tickDuration := mgr.Config().TickDuration
	for tick := types.Tick(0); tick < types.Tick(ticks); tick++ {
		mgr.ReceiveInputMessages()

		in := action{X: rand.Float64()*2 - 1, Y: rand.Float64()*2 - 1}
		if err := mgr.CaptureInput(local, tick, &in); err != nil {
			logger.Error().Err(err).Msg("capture failed")
		}

		mgr.PrepareInputMessage(tick)
		mgr.SendInputMessages()

		if state, err := mgr.Input(predicted, tick); err == nil && !state.IsEmpty() {
			logger.Info().
				Int64("tick", int64(tick)).
				Float64("peer_x", state.Value.X).
				Msg("predicting peer from rebroadcast input")
		}
		time.Sleep(tickDuration)
	}
}
