package status

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"devflow-shell/internal/adapter/detect"
	"devflow-shell/internal/domain"
	"devflow-shell/internal/usecase/ops"
)

// Bridge is the slice of the connection supervisor the dashboard drives.
// Start, Stop, and Ping all block on transport I/O, so every one of them
// runs inside a tea.Cmd goroutine rather than in Update.
type Bridge interface {
	domain.BridgeCaller
	Start(ctx context.Context) error
	Stop()
	Ping(ctx context.Context) (json.RawMessage, error)
}

func startCmd(b Bridge) tea.Cmd {
	return func() tea.Msg {
		return startResultMsg{Err: b.Start(context.Background())}
	}
}

func stopCmd(b Bridge) tea.Cmd {
	return func() tea.Msg {
		b.Stop()
		return stopResultMsg{}
	}
}

func pingCmd(b Bridge) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		_, err := b.Ping(context.Background())
		return pingResultMsg{RTT: time.Since(start), Err: err}
	}
}

func versionCmd(svc *ops.Service) tea.Cmd {
	return func() tea.Msg {
		return versionResultMsg{Resp: svc.BackendVersion(context.Background())}
	}
}

func detectCmd() tea.Cmd {
	return func() tea.Msg {
		return detectResultMsg{Report: detect.DetectAll(context.Background())}
	}
}
