package backend

import (
	"encoding/json"
	"time"
)

// Default bounds for blocking transport operations.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultReadTimeout    = 60 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
)

// Transport carries framed RPC messages to the backend. Both implementations
// serialize one in-flight call at a time; there is no multiplexing. Calls
// block until a response, a timeout, or an I/O failure.
type Transport interface {
	// Call writes one request line and blocks for its correlated response.
	Call(method string, params any) (json.RawMessage, error)
	// Ping issues the fixed liveness method so the supervisor's connect
	// sequence stays transport-agnostic.
	Ping() (json.RawMessage, error)
	// Disconnect releases the underlying handles. Idempotent.
	Disconnect() error
	// IsConnected reports whether handles are installed.
	IsConnected() bool
}
