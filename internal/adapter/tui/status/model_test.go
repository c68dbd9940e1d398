package status

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"devflow-shell/internal/domain"
	"devflow-shell/internal/infra/config"
)

type fakeBridge struct {
	mu      sync.Mutex
	state   domain.ConnectionState
	started bool
	stopped bool
}

func (f *fakeBridge) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	f.state = domain.StateRunning
	return nil
}

func (f *fakeBridge) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.state = domain.StateStopped
}

func (f *fakeBridge) Ping(context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != domain.StateRunning {
		return nil, errors.New("not running")
	}
	return json.RawMessage(`"pong"`), nil
}

func (f *fakeBridge) Call(context.Context, string, any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != domain.StateRunning {
		return nil, errors.New("not running")
	}
	return json.RawMessage(`"1.4.0"`), nil
}

func (f *fakeBridge) State() domain.ConnectionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartKeyLaunchesCommand(t *testing.T) {
	fb := &fakeBridge{}
	m := New(fb, config.LocalPython("/usr/bin/python3"))

	updated, cmd := m.Update(keyMsg("s"))
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("expected an async start command")
	}
	if !m.starting {
		t.Error("model should show the starting spinner")
	}
}

func TestInitAutoStarts(t *testing.T) {
	m := New(&fakeBridge{}, config.LocalPython(""))
	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected init commands")
	}
	if !m.starting {
		t.Error("auto-start backend should begin starting on init")
	}
}

func TestInitWithoutAutoStart(t *testing.T) {
	m := New(&fakeBridge{}, config.BackendConfig{Type: config.BackendLocalPython})
	if cmd := m.Init(); cmd == nil {
		t.Fatal("detection should still run on init")
	}
	if m.starting {
		t.Error("bridge should stay stopped without auto-start")
	}
}

func TestStartKeyIgnoredWhileRunning(t *testing.T) {
	fb := &fakeBridge{state: domain.StateRunning}
	m := New(fb, config.LocalPython(""))

	_, cmd := m.Update(keyMsg("s"))
	if cmd != nil {
		t.Error("start while running should do nothing")
	}
}

func TestStartResultClearsSpinner(t *testing.T) {
	fb := &fakeBridge{}
	m := New(fb, config.LocalPython(""))
	m.starting = true

	updated, _ := m.Update(startResultMsg{})
	m = updated.(*Model)
	if m.starting {
		t.Error("spinner should clear once start resolves")
	}
}

func TestStartSuccessFetchesVersion(t *testing.T) {
	fb := &fakeBridge{state: domain.StateRunning}
	m := New(fb, config.LocalPython(""))
	m.starting = true

	updated, cmd := m.Update(startResultMsg{})
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("expected a version fetch after a successful start")
	}
	updated, _ = m.Update(cmd())
	m = updated.(*Model)
	if m.backendVersion != "1.4.0" {
		t.Errorf("backendVersion = %q, want 1.4.0", m.backendVersion)
	}
	m.width, m.height = 80, 24
	if !strings.Contains(m.View(), "v1.4.0") {
		t.Error("view should show the backend version")
	}
}

func TestStartFailureLogged(t *testing.T) {
	fb := &fakeBridge{}
	m := New(fb, config.LocalPython(""))
	m.starting = true

	updated, _ := m.Update(startResultMsg{Err: errors.New("python3 not found")})
	m = updated.(*Model)
	if len(m.activity) == 0 || !strings.Contains(m.activity[len(m.activity)-1].text, "python3 not found") {
		t.Error("start failure should land in the activity log")
	}
}

func TestPingSkippedWhenNotRunning(t *testing.T) {
	fb := &fakeBridge{}
	m := New(fb, config.LocalPython(""))

	_, cmd := m.Update(keyMsg("p"))
	if cmd != nil {
		t.Error("ping on a stopped bridge should not issue a command")
	}
}

func TestQuitKey(t *testing.T) {
	m := New(&fakeBridge{}, config.LocalPython(""))
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewShowsBackendEndpoint(t *testing.T) {
	m := New(&fakeBridge{}, config.Remote("10.0.0.5", 4000))
	m.width, m.height = 80, 24

	view := m.View()
	if !strings.Contains(view, "10.0.0.5:4000") {
		t.Errorf("view should show the endpoint:\n%s", view)
	}
	if !strings.Contains(view, "stopped") {
		t.Errorf("view should show the state:\n%s", view)
	}
}

func TestActivityLogBounded(t *testing.T) {
	m := New(&fakeBridge{}, config.LocalPython(""))
	for i := 0; i < maxActivity*2; i++ {
		m.log("entry")
	}
	if len(m.activity) != maxActivity {
		t.Errorf("activity length = %d, want %d", len(m.activity), maxActivity)
	}
}
