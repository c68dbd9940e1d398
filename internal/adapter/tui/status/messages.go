// Package status implements the Bubble Tea status dashboard for the shell:
// connection state, backend endpoint, ping latency, detection results, and
// a scrolling activity log.
package status

import (
	"time"

	"devflow-shell/internal/adapter/detect"
	"devflow-shell/internal/usecase/ops"
)

// startResultMsg carries the outcome of an asynchronous bridge start.
type startResultMsg struct {
	Err error
}

// stopResultMsg signals that the bridge has been stopped.
type stopResultMsg struct{}

// pingResultMsg carries a ping round-trip or its failure.
type pingResultMsg struct {
	RTT time.Duration
	Err error
}

// versionResultMsg carries the backend's reported version.
type versionResultMsg struct {
	Resp ops.CommandResponse
}

// detectResultMsg carries a fresh host detection report.
type detectResultMsg struct {
	Report detect.Report
}
