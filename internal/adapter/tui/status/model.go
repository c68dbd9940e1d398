package status

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"devflow-shell/internal/adapter/detect"
	"devflow-shell/internal/domain"
	"devflow-shell/internal/infra/config"
	"devflow-shell/internal/usecase/ops"
)

var _ tea.Model = (*Model)(nil)

const maxActivity = 50

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	stoppedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type activityEntry struct {
	at   time.Time
	text string
}

// Model is the root Bubble Tea model for the status dashboard.
type Model struct {
	bridge  Bridge
	ops     *ops.Service
	backend config.BackendConfig

	spinner  spinner.Model
	starting bool

	lastPing       time.Duration
	lastPingAt     time.Time
	backendVersion string
	report         *detect.Report
	activity       []activityEntry

	width  int
	height int
}

// New builds the dashboard over a bridge and its backend config.
func New(bridge Bridge, backend config.BackendConfig) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &Model{bridge: bridge, ops: ops.NewService(bridge, nil), backend: backend, spinner: sp}
}

// Init kicks off host detection so the prerequisite summary fills in, and
// starts the bridge right away when the backend is configured to auto-start.
func (m *Model) Init() tea.Cmd {
	if m.backend.AutoStart {
		m.starting = true
		m.log("starting bridge")
		return tea.Batch(m.spinner.Tick, startCmd(m.bridge), detectCmd())
	}
	return detectCmd()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startResultMsg:
		m.starting = false
		if msg.Err != nil {
			m.log("start failed: " + msg.Err.Error())
			return m, nil
		}
		m.log("bridge running")
		return m, versionCmd(m.ops)

	case stopResultMsg:
		m.backendVersion = ""
		m.log("bridge stopped")
		return m, nil

	case versionResultMsg:
		if !msg.Resp.Success {
			return m, nil
		}
		var v string
		if err := json.Unmarshal(msg.Resp.Data, &v); err == nil && v != "" {
			m.backendVersion = v
			m.log("backend " + v)
		}
		return m, nil

	case pingResultMsg:
		if msg.Err != nil {
			m.log("ping failed: " + msg.Err.Error())
		} else {
			m.lastPing = msg.RTT
			m.lastPingAt = time.Now()
			m.log(fmt.Sprintf("ping %s", msg.RTT.Round(time.Millisecond)))
		}
		return m, nil

	case detectResultMsg:
		m.report = &msg.Report
		m.log("detection complete")
		return m, nil

	case spinner.TickMsg:
		if !m.starting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		if m.starting || m.bridge.State() == domain.StateRunning {
			return m, nil
		}
		m.starting = true
		m.log("starting bridge")
		return m, tea.Batch(m.spinner.Tick, startCmd(m.bridge))
	case "x":
		m.log("stopping bridge")
		return m, stopCmd(m.bridge)
	case "p":
		if m.bridge.State() != domain.StateRunning {
			m.log("ping skipped: bridge not running")
			return m, nil
		}
		return m, pingCmd(m.bridge)
	case "d":
		m.log("re-running detection")
		return m, detectCmd()
	}
	return m, nil
}

func (m *Model) log(text string) {
	m.activity = append(m.activity, activityEntry{at: time.Now(), text: text})
	if len(m.activity) > maxActivity {
		m.activity = m.activity[len(m.activity)-maxActivity:]
	}
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("devflow") + "\n\n")

	b.WriteString(labelStyle.Render("  State:   ") + m.stateView() + "\n")
	b.WriteString(labelStyle.Render("  Backend: ") + m.backendView() + "\n")
	b.WriteString(labelStyle.Render("  Ping:    ") + m.pingView() + "\n")
	b.WriteString("\n")

	if m.report != nil {
		b.WriteString(labelStyle.Render("  Host:    ") + summarize(*m.report) + "\n\n")
	}

	b.WriteString(m.activityView())
	b.WriteString("\n" + hintStyle.Render("  s start · x stop · p ping · d detect · q quit"))
	return b.String()
}

func (m *Model) stateView() string {
	if m.starting {
		return m.spinner.View() + " starting"
	}
	switch st := m.bridge.State(); st {
	case domain.StateRunning:
		return runningStyle.Render(st.String())
	case domain.StateError:
		return errorStyle.Render(st.String())
	default:
		return stoppedStyle.Render(st.String())
	}
}

func (m *Model) backendView() string {
	var endpoint string
	if m.backend.Mode() == domain.ModeSubprocess {
		endpoint = m.backend.PythonPath
		if endpoint == "" {
			endpoint = "python3"
		}
	} else {
		endpoint = m.backend.TCPHost() + ":" + strconv.Itoa(m.backend.TCPPort())
	}
	view := fmt.Sprintf("%s (%s)", m.backend.Type, endpoint)
	if m.backendVersion != "" {
		view += " " + dimStyle.Render("v"+m.backendVersion)
	}
	return view
}

func (m *Model) pingView() string {
	if m.lastPingAt.IsZero() {
		return dimStyle.Render("—")
	}
	return fmt.Sprintf("%s (%s ago)",
		m.lastPing.Round(time.Millisecond),
		time.Since(m.lastPingAt).Round(time.Second))
}

func (m *Model) activityView() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("  Activity") + "\n")

	visible := m.activity
	max := m.height - 12
	if max < 3 {
		max = 3
	}
	if len(visible) > max {
		visible = visible[len(visible)-max:]
	}
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("    (nothing yet)") + "\n")
		return b.String()
	}
	for _, e := range visible {
		b.WriteString(dimStyle.Render("    "+e.at.Format("15:04:05")) + "  " + e.text + "\n")
	}
	return b.String()
}

func summarize(r detect.Report) string {
	var parts []string
	withBackend := 0
	for _, p := range r.Pythons {
		if p.DevflowInstalled {
			withBackend++
		}
	}
	parts = append(parts, fmt.Sprintf("python ×%d (%d with backend)", len(r.Pythons), withBackend))
	if r.Docker {
		parts = append(parts, "docker")
	}
	if n := len(r.WSLDistros); n > 0 {
		parts = append(parts, fmt.Sprintf("wsl ×%d", n))
	}
	if r.TCPDefault {
		parts = append(parts, fmt.Sprintf("service on :%d", config.DefaultTCPPort))
	}
	return strings.Join(parts, ", ")
}
