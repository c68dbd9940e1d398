package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"devflow-shell/internal/adapter/detect"
	"devflow-shell/internal/infra/config"
)

// CheckStatus represents the result of a prerequisite check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// CheckResult holds the outcome of a single check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // optional fix suggestion
}

// Check is a named prerequisite check function.
type Check struct {
	Name string
	Fn   func(report detect.Report, backend config.BackendConfig) CheckResult
}

// runDoctor probes the host once, then reports every check against the
// shared report. Exit is non-zero when any check fails.
func runDoctor() error {
	backend, err := resolveBackend()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	report := detect.DetectAll(ctx)

	checks := []Check{
		{Name: "Shell config", Fn: checkShellConfig},
		{Name: "Backend choice", Fn: checkBackendChoice},
		{Name: "Python", Fn: checkPython},
		{Name: "Docker", Fn: checkDocker},
		{Name: "Backend connectivity", Fn: checkConnectivity},
	}

	fmt.Println("devflow doctor")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	var pass, warn, fail int
	for _, check := range checks {
		result := check.Fn(report, backend)
		result.Name = check.Name

		fmt.Printf("  %s %s: %s\n", statusIcon(result.Status), result.Name, result.Message)
		if result.Fix != "" {
			fmt.Printf("      Fix: %s\n", result.Fix)
		}

		switch result.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("Results: %d passed, %d warnings, %d failed\n", pass, warn, fail)

	if fail > 0 {
		fmt.Println("\nFix the FAIL issues above before running devflow.")
		return fmt.Errorf("%d check(s) failed", fail)
	}
	if warn > 0 {
		fmt.Println("\ndevflow should work, but consider addressing the warnings.")
	} else {
		fmt.Println("\nAll checks passed! devflow is ready to run.")
	}
	return nil
}

func statusIcon(s CheckStatus) string {
	switch s {
	case StatusPass:
		return "[PASS]"
	case StatusWarn:
		return "[WARN]"
	case StatusFail:
		return "[FAIL]"
	default:
		return "[????]"
	}
}

func checkShellConfig(_ detect.Report, _ config.BackendConfig) CheckResult {
	path := configPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("no config at %s — built-in defaults apply", path),
		}
	}
	if _, err := config.Load(path); err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("config parse error: %v", err),
			Fix:     fmt.Sprintf("Check YAML syntax in %s", path),
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("config loaded from %s", path),
	}
}

func checkBackendChoice(_ detect.Report, backend config.BackendConfig) CheckResult {
	global := config.LoadGlobalBackend()
	if !global.Configured {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("no backend configured — defaulting to %s", backend.Type),
			Fix:     "Pick a backend suggested below and persist it in ~/.devflow/backend.json",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("configured backend: %s", backend.Type),
	}
}

func checkPython(report detect.Report, backend config.BackendConfig) CheckResult {
	if backend.Type != config.BackendLocalPython {
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("backend is %s — local Python not required", backend.Type),
		}
	}

	if len(report.Pythons) == 0 {
		return CheckResult{
			Status:  StatusFail,
			Message: "no Python interpreter found on PATH",
			Fix:     "Install Python 3 and the devflow backend package",
		}
	}

	for _, p := range report.Pythons {
		if p.DevflowInstalled {
			return CheckResult{
				Status:  StatusPass,
				Message: fmt.Sprintf("%s (%s) with backend package", p.Path, p.Version),
			}
		}
	}

	return CheckResult{
		Status:  StatusFail,
		Message: fmt.Sprintf("Python found (%s) but backend package missing", report.Pythons[0].Path),
		Fix:     "pip install devflow",
	}
}

func checkDocker(report detect.Report, backend config.BackendConfig) CheckResult {
	if backend.Type != config.BackendDocker {
		if report.Docker {
			return CheckResult{Status: StatusPass, Message: "docker available (unused)"}
		}
		return CheckResult{Status: StatusPass, Message: "docker not required for this backend"}
	}

	if !report.Docker {
		return CheckResult{
			Status:  StatusFail,
			Message: "docker backend configured but no daemon reachable",
			Fix:     "Start Docker, or switch backend type",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	name := backend.ContainerName
	if detect.CheckDockerContainer(ctx, name) {
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("container %q running", name),
		}
	}
	return CheckResult{
		Status:  StatusWarn,
		Message: fmt.Sprintf("docker up but container %q not running", name),
		Fix:     fmt.Sprintf("docker start %s", name),
	}
}

func checkConnectivity(report detect.Report, backend config.BackendConfig) CheckResult {
	if backend.Type == config.BackendLocalPython {
		return CheckResult{
			Status:  StatusPass,
			Message: "subprocess backend — connectivity checked at start",
		}
	}

	host, port := backend.TCPHost(), backend.TCPPort()
	if !detect.TestTCPConnection(host, port, 5*time.Second) {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("nothing listening on %s:%d", host, port),
			Fix:     "Start the backend service, or fix host/port in the backend config",
		}
	}

	rtt, err := detect.TestBackendConnection(host, port)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s:%d accepts connections but ping failed: %v", host, port, err),
			Fix:     "Check that the service on that port is a devflow backend",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("backend reachable at %s:%d (ping %s)", host, port, rtt.Round(time.Millisecond)),
	}
}
