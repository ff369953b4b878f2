package config

import (
	"fmt"
	"time"
)

// RealtimeConfig holds websocket broadcaster configuration.
type RealtimeConfig struct {
	// SessionGrace is how long a dropped connection's room state is kept
	// so a quick reconnect can resume without re-subscription.
	SessionGrace time.Duration
	// WriteWait is the maximum duration for writing one message to a peer.
	WriteWait time.Duration
	// PongWait is the maximum duration to wait for a pong from a peer.
	PongWait time.Duration
	// SendBuffer is the per-connection outbound message buffer size.
	SendBuffer int
}

// LoadRealtimeConfigFromEnv loads realtime configuration from environment variables.
func LoadRealtimeConfigFromEnv() RealtimeConfig {
	return RealtimeConfig{
		SessionGrace: GetEnvDuration("REALTIME_SESSION_GRACE", 90*time.Second),
		WriteWait:    GetEnvDuration("REALTIME_WRITE_WAIT", 10*time.Second),
		PongWait:     GetEnvDuration("REALTIME_PONG_WAIT", 60*time.Second),
		SendBuffer:   GetEnvInt("REALTIME_SEND_BUFFER", 256),
	}
}

// PingPeriod returns the interval between outbound pings.
// Must be shorter than PongWait so the peer has time to answer.
func (c RealtimeConfig) PingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}

// Validate validates realtime configuration.
func (c RealtimeConfig) Validate() error {
	if c.SessionGrace < 0 {
		return fmt.Errorf("REALTIME_SESSION_GRACE must be non-negative")
	}
	if c.WriteWait <= 0 {
		return fmt.Errorf("REALTIME_WRITE_WAIT must be greater than 0")
	}
	if c.PongWait <= 0 {
		return fmt.Errorf("REALTIME_PONG_WAIT must be greater than 0")
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("REALTIME_SEND_BUFFER must be greater than 0")
	}
	return nil
}
