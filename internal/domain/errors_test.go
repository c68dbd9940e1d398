package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestBridgeErrorFormat(t *testing.T) {
	err := NewBridgeError("Bridge.Start", ErrStartFailed, "python3 not found")
	want := "Bridge.Start: python3 not found: failed to start bridge"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestBridgeErrorFormatNoDetail(t *testing.T) {
	err := NewBridgeError("TCPClient.Call", ErrNotConnected, "")
	want := "TCPClient.Call: not connected"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestBridgeErrorUnwrap(t *testing.T) {
	err := NewBridgeError("StdioClient.Call", ErrTimeout, "60s elapsed")
	if !errors.Is(err, ErrTimeout) {
		t.Error("errors.Is should match ErrTimeout")
	}
}

func TestWrapOp(t *testing.T) {
	if WrapOp("Bridge.Start", nil) != nil {
		t.Error("WrapOp(nil) should be nil")
	}
	err := WrapOp("Bridge.Start", fmt.Errorf("%w: spawn failed", ErrStartFailed))
	if !errors.Is(err, ErrStartFailed) {
		t.Error("wrapped sentinel should survive WrapOp")
	}
}

func TestRPCErrorFormat(t *testing.T) {
	err := &RPCError{Code: RPCMethodNotFound, Message: "method not found"}
	want := "rpc error -32601: method not found"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestChannelFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport io", NewBridgeError("op", ErrTransportIO, ""), true},
		{"timeout", NewBridgeError("op", ErrTimeout, ""), true},
		{"invalid response", NewBridgeError("op", ErrInvalidResponse, ""), true},
		{"not connected", NewBridgeError("op", ErrNotConnected, ""), true},
		{"rpc error", &RPCError{Code: RPCInternalError, Message: "boom"}, false},
		{"wrapped rpc error", fmt.Errorf("call: %w", &RPCError{Code: 1, Message: "x"}), false},
		{"not running", NewBridgeError("op", ErrNotRunning, ""), false},
		{"plain error", errors.New("unrelated"), false},
		{"wrapped sentinel", fmt.Errorf("outer: %w", ErrTimeout), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChannelFatal(tt.err); got != tt.want {
				t.Errorf("ChannelFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConnectionStateString(t *testing.T) {
	states := map[ConnectionState]string{
		StateStopped:  "stopped",
		StateStarting: "starting",
		StateRunning:  "running",
		StateError:    "error",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
