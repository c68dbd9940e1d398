package backend

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"devflow-shell/internal/domain"
)

// Timeouts bound the network transport's blocking operations. Zero fields
// select the package defaults.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
	Write   time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Connect <= 0 {
		t.Connect = DefaultConnectTimeout
	}
	if t.Read <= 0 {
		t.Read = DefaultReadTimeout
	}
	if t.Write <= 0 {
		t.Write = DefaultWriteTimeout
	}
	return t
}

// TCPClient performs calls over a TCP socket, typically to a backend running
// in a container, a WSL2 distro, or a remote host. Same call contract as
// StdioClient, with deadline-based read/write bounds.
type TCPClient struct {
	mu      sync.Mutex // guards conn/reader
	conn    net.Conn
	reader  *bufio.Reader
	writeMu sync.Mutex
	readMu  sync.Mutex

	requestID atomic.Uint64
	timeouts  Timeouts
	logger    *slog.Logger
}

// NewTCPClient creates a disconnected TCP client.
func NewTCPClient(timeouts Timeouts, logger *slog.Logger) *TCPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &TCPClient{timeouts: timeouts.withDefaults(), logger: logger}
}

// Connect resolves and opens the socket with the configured connect timeout
// and disables Nagle buffering for low per-call latency.
func (c *TCPClient) Connect(host string, port int) error {
	const op = "TCPClient.Connect"
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", addr, c.timeouts.Connect)
	if err != nil {
		if isTimeout(err) {
			return domain.NewBridgeError(op, domain.ErrTimeout, "connect "+addr+": "+err.Error())
		}
		return domain.NewBridgeError(op, domain.ErrTransportIO, "connect "+addr+": "+err.Error())
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			conn.Close()
			return domain.NewBridgeError(op, domain.ErrTransportIO, "set nodelay: "+err.Error())
		}
	}

	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.mu.Unlock()
	if old != nil {
		old.Close()
	}

	c.logger.Info("connected to backend", "addr", addr)
	return nil
}

// Disconnect closes and drops the socket. Idempotent.
func (c *TCPClient) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.reader = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

// IsConnected reports whether a socket is installed.
func (c *TCPClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Call implements Transport. A read exceeding the read timeout yields
// domain.ErrTimeout rather than a generic I/O error, so the supervisor can
// treat an unresponsive backend like a dead one.
func (c *TCPClient) Call(method string, params any) (json.RawMessage, error) {
	const op = "TCPClient.Call"

	c.mu.Lock()
	conn, reader := c.conn, c.reader
	c.mu.Unlock()
	if conn == nil {
		return nil, domain.NewBridgeError(op, domain.ErrNotConnected, "")
	}

	id := c.requestID.Add(1)
	payload, err := EncodeRequest(method, params, id)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("rpc request", "method", method, "id", id)

	c.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(c.timeouts.Write))
	_, werr := conn.Write(payload)
	c.writeMu.Unlock()
	if werr != nil {
		if isTimeout(werr) {
			return nil, domain.NewBridgeError(op, domain.ErrTimeout, "write: "+werr.Error())
		}
		return nil, domain.NewBridgeError(op, domain.ErrTransportIO, "write: "+werr.Error())
	}

	c.readMu.Lock()
	conn.SetReadDeadline(time.Now().Add(c.timeouts.Read))
	line, rerr := reader.ReadBytes('\n')
	c.readMu.Unlock()
	if rerr != nil {
		if isTimeout(rerr) {
			return nil, domain.NewBridgeError(op, domain.ErrTimeout,
				fmt.Sprintf("no response to %s within %s", method, c.timeouts.Read))
		}
		return nil, domain.NewBridgeError(op, domain.ErrTransportIO, "read: "+rerr.Error())
	}

	resp, err := DecodeResponse(line)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("rpc response", "method", method, "id", id)
	return correlate(op, resp, id)
}

// Ping issues the liveness call.
func (c *TCPClient) Ping() (json.RawMessage, error) {
	return c.Call(domain.MethodPing, nil)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
