package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Category sentinels for the bridge layer. Classification happens via
// errors.Is, so adapters wrap these rather than inventing new kinds.
var (
	// ErrTransportIO marks a pipe or socket read/write failure.
	ErrTransportIO = fmt.Errorf("transport i/o failure")
	// ErrTimeout marks a connect or read that exceeded its bound.
	ErrTimeout = fmt.Errorf("operation timed out")
	// ErrNotConnected marks a call on a transport with no handles installed.
	ErrNotConnected = fmt.Errorf("not connected")
	// ErrNotRunning marks a call while the bridge state is not Running.
	ErrNotRunning = fmt.Errorf("bridge not running")
	// ErrInvalidResponse marks malformed JSON, a missing result/error pair,
	// or a response id that does not match the outstanding request.
	ErrInvalidResponse = fmt.Errorf("invalid response")
	// ErrStartFailed wraps any failure during the spawn/connect/ping sequence.
	ErrStartFailed = fmt.Errorf("failed to start bridge")
	// ErrInvalidState marks configuration attempted while the bridge is active.
	ErrInvalidState = fmt.Errorf("operation requires stopped bridge")
)

// RPCError is a structured application error returned by the backend.
// The backend understood the call and rejected it; the channel stays healthy.
type RPCError struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC error codes, mirrored from the backend.
const (
	RPCParseError     = -32700
	RPCInvalidRequest = -32600
	RPCMethodNotFound = -32601
	RPCInvalidParams  = -32602
	RPCInternalError  = -32603
)

// BridgeError wraps a sentinel error with operation context.
type BridgeError struct {
	Op     string // operation name (e.g., "Bridge.Start")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *BridgeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *BridgeError) Unwrap() error { return e.Err }

// NewBridgeError creates a new BridgeError.
func NewBridgeError(op string, err error, detail string) *BridgeError {
	return &BridgeError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ChannelFatal reports whether err indicates the RPC channel itself is
// unusable, as opposed to the backend merely rejecting one call. The
// supervisor demotes connection state on channel-fatal errors only.
//
// A transport-level not-connected during a supposedly Running call means the
// supervisor and transport disagree about the channel, so it counts as fatal.
func ChannelFatal(err error) bool {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return false
	}
	return errors.Is(err, ErrTransportIO) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrNotConnected)
}
