// Package detect probes the host for usable DevFlow backends: Python
// interpreters with the backend package installed, Docker containers,
// WSL2 distros, and reachable TCP endpoints.
package detect

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"devflow-shell/internal/adapter/backend"
	"devflow-shell/internal/infra/config"
)

const probeTimeout = 5 * time.Second

// PythonInstall describes a discovered interpreter.
type PythonInstall struct {
	Path             string
	Version          string
	DevflowInstalled bool
}

// DetectPython finds Python interpreters on PATH and checks each for the
// backend package. The first entry with DevflowInstalled is the best pick.
func DetectPython(ctx context.Context) []PythonInstall {
	names := []string{"python3", "python"}
	if runtime.GOOS == "windows" {
		names = []string{"python", "python3", "py"}
	}

	seen := make(map[string]bool)
	var installs []PythonInstall
	for _, name := range names {
		path, err := exec.LookPath(name)
		if err != nil || seen[path] {
			continue
		}
		seen[path] = true

		version, err := pythonVersion(ctx, path)
		if err != nil {
			continue
		}
		installs = append(installs, PythonInstall{
			Path:             path,
			Version:          version,
			DevflowInstalled: CheckDevflowInstalled(ctx, path),
		})
	}
	return installs
}

func pythonVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("run %s --version: %w", path, err)
	}
	return strings.TrimSpace(strings.TrimPrefix(string(out), "Python ")), nil
}

// CheckDevflowInstalled reports whether the interpreter can import the
// backend package.
func CheckDevflowInstalled(ctx context.Context, pythonPath string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, pythonPath, "-c", "import bridge")
	return cmd.Run() == nil
}

// DetectDocker reports whether a Docker daemon is reachable.
func DetectDocker(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// CheckDockerContainer reports whether a container with the given name is
// running.
func CheckDockerContainer(ctx context.Context, name string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "docker", "ps",
		"--filter", "name="+name, "--format", "{{.Names}}").Output()
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}

// TestTCPConnection reports whether host:port accepts a TCP connection.
func TestTCPConnection(host string, port int, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = probeTimeout
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// TestBackendConnection connects to a network backend and pings it over the
// wire protocol. It returns the round-trip time of the ping.
func TestBackendConnection(host string, port int) (time.Duration, error) {
	client := backend.NewTCPClient(backend.Timeouts{}, nil)
	if err := client.Connect(host, port); err != nil {
		return 0, err
	}
	defer client.Disconnect()

	start := time.Now()
	if _, err := client.Ping(); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// Report is the aggregate result of probing the host.
type Report struct {
	Pythons    []PythonInstall
	Docker     bool
	WSLDistros []string
	TCPDefault bool // backend already listening on the default port
}

// DetectAll runs every probe. Probes that do not apply to the platform
// come back empty rather than erroring.
func DetectAll(ctx context.Context) Report {
	return Report{
		Pythons:    DetectPython(ctx),
		Docker:     DetectDocker(ctx),
		WSLDistros: DetectWSL(ctx),
		TCPDefault: TestTCPConnection("127.0.0.1", config.DefaultTCPPort, 2*time.Second),
	}
}

// Suggest picks the best backend config from a report: a local Python with
// the backend installed wins, then a running default-port service, then
// Docker, then WSL2.
func (r Report) Suggest() (config.BackendConfig, bool) {
	for _, p := range r.Pythons {
		if p.DevflowInstalled {
			return config.LocalPython(p.Path), true
		}
	}
	if r.TCPDefault {
		return config.Remote("127.0.0.1", config.DefaultTCPPort), true
	}
	if r.Docker {
		return config.Docker(""), true
	}
	if len(r.WSLDistros) > 0 {
		return config.WSL2(r.WSLDistros[0]), true
	}
	return config.BackendConfig{}, false
}
