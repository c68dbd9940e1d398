package domain

import (
	"context"
	"encoding/json"
)

// ConnectionState is the bridge connection lifecycle state.
type ConnectionState int

const (
	// StateStopped is the initial state and the result of every Stop.
	StateStopped ConnectionState = iota
	// StateStarting covers the spawn/connect/liveness sequence.
	StateStarting
	// StateRunning is the only state in which calls reach the transport.
	StateRunning
	// StateError means a transport-level failure broke the channel.
	StateError
)

func (s ConnectionState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// TransportMode selects how the bridge reaches the backend.
type TransportMode string

const (
	// ModeSubprocess spawns the backend as a child process and talks over
	// its standard input/output.
	ModeSubprocess TransportMode = "subprocess"
	// ModeNetwork connects to a long-lived backend over TCP.
	ModeNetwork TransportMode = "network"
)

// MethodPing is the synthetic liveness method; any non-error result counts
// as alive.
const MethodPing = "system.ping"

// BridgeCaller is the uniform blocking call surface the rest of the
// application uses, regardless of which transport is active.
type BridgeCaller interface {
	// Call dispatches one request and blocks for its response. It fails with
	// ErrNotRunning when the connection state is not Running.
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
	// State reports the current connection state. Pure read, safe to poll.
	State() ConnectionState
}
