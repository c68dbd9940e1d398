// Package bridge supervises the RPC channel to the DevFlow backend: it
// selects a transport from the configured mode, owns the transport's
// lifecycle (including the child process in subprocess mode), and exposes
// one blocking call surface to the rest of the application.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"devflow-shell/internal/adapter/backend"
	"devflow-shell/internal/domain"
	"devflow-shell/internal/infra/tracer"
)

// DefaultModule is the Python module executed in subprocess mode.
const DefaultModule = "bridge.main"

// DefaultPort is the backend's TCP port in network mode.
const DefaultPort = 9876

// defaultStderrMax bounds the stderr capture buffer.
const defaultStderrMax = 256 * 1024

// Config selects the transport mode and its endpoint. It is accepted only
// while the bridge is stopped; switching mode on a live connection is
// rejected rather than left undefined.
type Config struct {
	Mode domain.TransportMode

	// Subprocess mode.
	PythonPath string // interpreter; empty picks python3 (python on Windows)
	Module     string // module run via -m; empty picks DefaultModule
	WorkingDir string

	// Network mode.
	Host string // empty picks 127.0.0.1
	Port int    // zero picks DefaultPort

	// Bounds. Zero fields select the backend package defaults.
	Timeouts backend.Timeouts
}

// Manager is the connection supervisor. A zero-value Manager is not usable;
// construct with NewManager. The manager exclusively owns the active
// transport handle and child process between Start and Stop.
type Manager struct {
	opMu sync.Mutex // serializes Start/Stop/Configure

	mu        sync.Mutex // guards the fields below
	state     domain.ConnectionState
	cfg       Config
	transport backend.Transport
	cmd       *exec.Cmd
	stderr    *ringBuffer

	logger *slog.Logger

	// Test seams: newCommand builds the child command, newTransport
	// overrides transport construction entirely when non-nil.
	newCommand   func(interpreter, module string) *exec.Cmd
	newTransport func() (backend.Transport, error)
}

var _ domain.BridgeCaller = (*Manager)(nil)

// NewManager creates a stopped supervisor with the given configuration.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		state:  domain.StateStopped,
		cfg:    cfg,
		logger: logger,
		newCommand: func(interpreter, module string) *exec.Cmd {
			// -u forces unbuffered output so response lines are not held
			// back by the child's stdio buffering.
			return exec.Command(interpreter, "-u", "-m", module)
		},
	}
}

// Configure replaces the transport configuration. Only legal while stopped.
func (m *Manager) Configure(cfg Config) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateStopped {
		return domain.NewBridgeError("Bridge.Configure", domain.ErrInvalidState,
			"state is "+m.state.String())
	}
	m.cfg = cfg
	return nil
}

// State reports the current connection state. Pure read, safe to poll.
func (m *Manager) State() domain.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// StderrTail returns the most recent captured stderr output from the child
// process (subprocess mode only). Diagnostic, may be empty.
func (m *Manager) StderrTail() string {
	m.mu.Lock()
	buf := m.stderr
	m.mu.Unlock()
	if buf == nil {
		return ""
	}
	return buf.String()
}

func (m *Manager) setState(s domain.ConnectionState) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Start establishes the configured transport and verifies liveness with a
// ping before declaring the connection usable. No-op when already running.
// On any failure the partially established channel is torn down, the state
// becomes Error, and the returned error wraps domain.ErrStartFailed.
func (m *Manager) Start(ctx context.Context) error {
	const op = "Bridge.Start"

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.State() == domain.StateRunning {
		return nil
	}
	m.setState(domain.StateStarting)

	_, span := tracer.StartSpan(ctx, "bridge.start")
	defer span.End()

	m.mu.Lock()
	cfg := m.cfg
	m.mu.Unlock()

	var (
		t      backend.Transport
		cmd    *exec.Cmd
		stderr *ringBuffer
		err    error
	)
	switch {
	case m.newTransport != nil:
		t, err = m.newTransport()
	case cfg.Mode == domain.ModeSubprocess:
		t, cmd, stderr, err = m.startSubprocess(cfg)
	case cfg.Mode == domain.ModeNetwork:
		t, err = m.dialNetwork(cfg)
	default:
		err = fmt.Errorf("unknown transport mode %q", cfg.Mode)
	}
	if err != nil {
		m.setState(domain.StateError)
		tracer.RecordError(span, err)
		return domain.WrapOp(op, fmt.Errorf("%w: %w", domain.ErrStartFailed, err))
	}

	m.mu.Lock()
	m.transport = t
	m.cmd = cmd
	m.stderr = stderr
	m.mu.Unlock()

	// The one active liveness check: a transport that connects but never
	// answers the protocol must not produce a false Running.
	if _, err := t.Ping(); err != nil {
		m.logger.Error("bridge ping failed", "error", err)
		m.teardown()
		m.setState(domain.StateError)
		tracer.RecordError(span, err)
		return domain.WrapOp(op, fmt.Errorf("%w: ping: %w", domain.ErrStartFailed, err))
	}

	m.setState(domain.StateRunning)
	tracer.SetOK(span)
	m.logger.Info("bridge running", "mode", cfg.Mode)
	return nil
}

func (m *Manager) startSubprocess(cfg Config) (backend.Transport, *exec.Cmd, *ringBuffer, error) {
	interpreter := cfg.PythonPath
	if interpreter == "" {
		interpreter = "python3"
		if runtime.GOOS == "windows" {
			interpreter = "python"
		}
	}
	module := cfg.Module
	if module == "" {
		module = DefaultModule
	}

	cmd := m.newCommand(interpreter, module)
	if cfg.WorkingDir != "" {
		cmd.Dir = cfg.WorkingDir
	}
	stderr := newRingBuffer(defaultStderrMax)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}

	m.logger.Info("spawning backend", "interpreter", interpreter, "module", module, "dir", cfg.WorkingDir)
	if err := cmd.Start(); err != nil {
		return nil, nil, nil, fmt.Errorf("spawn %s: %w", interpreter, err)
	}

	client := backend.NewStdioClient(cfg.Timeouts.Read, m.logger)
	client.Connect(stdin, stdout)
	return client, cmd, stderr, nil
}

func (m *Manager) dialNetwork(cfg Config) (backend.Transport, error) {
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	client := backend.NewTCPClient(cfg.Timeouts, m.logger)
	if err := client.Connect(host, port); err != nil {
		return nil, err
	}
	return client, nil
}

// Call dispatches one request to the active transport. It fails immediately
// with domain.ErrNotRunning outside the Running state, with no transport
// I/O, no retry, and no implicit reconnect. A channel-fatal failure demotes
// the state to Error before propagating, so the next caller fails fast.
// Structured backend errors propagate verbatim and leave the channel up.
func (m *Manager) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	const op = "Bridge.Call"

	m.mu.Lock()
	if m.state != domain.StateRunning {
		state := m.state
		m.mu.Unlock()
		return nil, domain.NewBridgeError(op, domain.ErrNotRunning, "state is "+state.String())
	}
	t := m.transport
	m.mu.Unlock()

	_, span := tracer.StartSpan(ctx, "bridge.call",
		trace.WithAttributes(attribute.String("rpc.method", method)))
	defer span.End()

	result, err := t.Call(method, params)
	if err != nil {
		tracer.RecordError(span, err)
		if domain.ChannelFatal(err) {
			m.logger.Error("bridge channel failure", "method", method, "error", err)
			m.setState(domain.StateError)
		}
		return nil, err
	}
	tracer.SetOK(span)
	return result, nil
}

// Ping issues the liveness call through the normal Call path.
func (m *Manager) Ping(ctx context.Context) (json.RawMessage, error) {
	return m.Call(ctx, domain.MethodPing, nil)
}

// Stop tears down the active transport and, in subprocess mode, terminates
// and reaps the child process. Always transitions to Stopped; safe to call
// repeatedly and on a never-started manager.
func (m *Manager) Stop() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.teardown()
	m.setState(domain.StateStopped)
	m.logger.Info("bridge stopped")
}

// teardown releases whatever is currently established. Callers set the
// resulting state.
func (m *Manager) teardown() {
	m.mu.Lock()
	t := m.transport
	cmd := m.cmd
	m.transport = nil
	m.cmd = nil
	m.stderr = nil
	m.mu.Unlock()

	if t != nil {
		t.Disconnect()
	}
	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
		cmd.Wait()
	}
}

// Close stops the bridge. It exists so construction sites can defer
// deterministic cleanup and never leak a child process or socket.
func (m *Manager) Close() error {
	m.Stop()
	return nil
}
