package backend

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"devflow-shell/internal/domain"
)

// readResult is one line (or terminal read error) from the reader goroutine.
type readResult struct {
	line []byte
	err  error
}

// stdioConn holds the handles of one connection so Disconnect invalidates
// them atomically with respect to in-flight calls.
type stdioConn struct {
	stdin io.WriteCloser
	lines chan readResult
	done  chan struct{}
}

// StdioClient performs calls over a child process's standard input/output:
// write one request line, flush, block for one response line. A reader
// goroutine pumps stdout lines into a channel so the response wait can be
// bounded; a wedged backend therefore yields domain.ErrTimeout instead of
// hanging the caller forever.
type StdioClient struct {
	mu      sync.Mutex // guards conn
	conn    *stdioConn
	writeMu sync.Mutex
	readMu  sync.Mutex

	requestID   atomic.Uint64
	readTimeout time.Duration
	logger      *slog.Logger
}

// NewStdioClient creates a disconnected stdio client. A readTimeout of zero
// selects DefaultReadTimeout.
func NewStdioClient(readTimeout time.Duration, logger *slog.Logger) *StdioClient {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StdioClient{readTimeout: readTimeout, logger: logger}
}

// Connect installs the child's pipe handles and starts the reader goroutine.
// Any previous connection is dropped first.
func (c *StdioClient) Connect(stdin io.WriteCloser, stdout io.Reader) {
	conn := &stdioConn{
		stdin: stdin,
		lines: make(chan readResult),
		done:  make(chan struct{}),
	}
	go readLines(stdout, conn)

	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.mu.Unlock()
	if old != nil {
		close(old.done)
	}
}

// readLines feeds stdout lines to the connection until read failure or
// disconnect. The pipe is closed by the supervisor killing the child, which
// unblocks the final read.
func readLines(stdout io.Reader, conn *stdioConn) {
	r := bufio.NewReader(stdout)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			select {
			case conn.lines <- readResult{err: err}:
			case <-conn.done:
			}
			return
		}
		select {
		case conn.lines <- readResult{line: line}:
		case <-conn.done:
			return
		}
	}
}

// Disconnect drops the pipe handles. Subsequent calls fail with
// domain.ErrNotConnected. Idempotent.
func (c *StdioClient) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	close(conn.done)
	return conn.stdin.Close()
}

// IsConnected reports whether pipe handles are installed.
func (c *StdioClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Call implements Transport.
func (c *StdioClient) Call(method string, params any) (json.RawMessage, error) {
	const op = "StdioClient.Call"

	c.mu.Lock()
	conn := c.conn
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
	_, werr := conn.stdin.Write(payload)
	c.writeMu.Unlock()
	if werr != nil {
		return nil, domain.NewBridgeError(op, domain.ErrTransportIO, "write: "+werr.Error())
	}

	c.readMu.Lock()
	defer c.readMu.Unlock()

	timer := time.NewTimer(c.readTimeout)
	defer timer.Stop()

	select {
	case res := <-conn.lines:
		if res.err != nil {
			return nil, domain.NewBridgeError(op, domain.ErrTransportIO, "read: "+res.err.Error())
		}
		resp, err := DecodeResponse(res.line)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("rpc response", "method", method, "id", id)
		return correlate(op, resp, id)
	case <-conn.done:
		return nil, domain.NewBridgeError(op, domain.ErrNotConnected, "disconnected while waiting for response")
	case <-timer.C:
		return nil, domain.NewBridgeError(op, domain.ErrTimeout,
			"no response to "+method+" within "+c.readTimeout.String())
	}
}

// Ping issues the liveness call.
func (c *StdioClient) Ping() (json.RawMessage, error) {
	return c.Call(domain.MethodPing, nil)
}
