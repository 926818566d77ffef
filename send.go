package netinput

// SendInputMessages drains the frame's assembled messages into the
// channel. It runs last in the frame, after any tick snap has been applied,
// so every message leaves with labels consistent with the corrected clock.
//
// When lag compensation is enabled the current interpolation delay is
// attached here rather than at assembly time, because the delay is only
// correct after the frame's clock-sync adjustments have run.
//
// Send failures are logged and the message is dropped, never requeued:
// the redundancy carried by the following messages already covers the loss.
func (m *Manager[A]) SendInputMessages() {
	for _, msg := range m.queue.Drain() {
		if m.cfg.LagCompensation && m.delay != nil {
			delay := m.delay.InterpolationDelay()
			msg.InterpolationDelay = &delay
		}
		if m.channel == nil {
			m.log.Trace().Int64("end_tick", int64(msg.EndTick)).Msg("no channel configured, dropping input message")
			continue
		}
		frame, err := msg.Encode()
		if err != nil {
			m.log.Error().Err(err).Int64("end_tick", int64(msg.EndTick)).Msg("failed to encode input message")
			continue
		}
		if err := m.channel.Send(frame); err != nil {
			m.log.Error().Err(err).Int64("end_tick", int64(msg.EndTick)).Msg("failed to send input message")
		}
	}
}
