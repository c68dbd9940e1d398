package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"devflow-shell/internal/domain"
)

// BackendType identifies how the DevFlow backend is hosted.
type BackendType string

const (
	// BackendLocalPython runs the backend as a local child process.
	BackendLocalPython BackendType = "local_python"
	// BackendDocker reaches a backend container over TCP.
	BackendDocker BackendType = "docker"
	// BackendWSL2 reaches a backend inside a WSL2 distro over TCP.
	BackendWSL2 BackendType = "wsl2"
	// BackendRemote reaches a backend on another host over TCP.
	BackendRemote BackendType = "remote"
)

// DefaultTCPPort is the backend's default service port.
const DefaultTCPPort = 9876

// BackendConfig describes one backend endpoint.
type BackendConfig struct {
	Type          BackendType `json:"backend_type"            yaml:"type"`
	PythonPath    string      `json:"python_path,omitempty"   yaml:"python_path,omitempty"`
	ContainerName string      `json:"container_name,omitempty" yaml:"container_name,omitempty"`
	WSLDistro     string      `json:"wsl_distro,omitempty"    yaml:"wsl_distro,omitempty"`
	RemoteHost    string      `json:"remote_host,omitempty"   yaml:"host,omitempty"`
	RemotePort    int         `json:"remote_port,omitempty"   yaml:"port,omitempty"`
	AutoStart     bool        `json:"auto_start"              yaml:"auto_start,omitempty"`
}

// LocalPython returns a subprocess-mode backend config.
func LocalPython(pythonPath string) BackendConfig {
	return BackendConfig{Type: BackendLocalPython, PythonPath: pythonPath, AutoStart: true}
}

// Docker returns a Docker-container backend config.
func Docker(containerName string) BackendConfig {
	if containerName == "" {
		containerName = "devflow-backend"
	}
	return BackendConfig{
		Type:          BackendDocker,
		ContainerName: containerName,
		RemoteHost:    "127.0.0.1",
		RemotePort:    DefaultTCPPort,
		AutoStart:     true,
	}
}

// WSL2 returns a WSL2-distro backend config.
func WSL2(distro string) BackendConfig {
	if distro == "" {
		distro = "Ubuntu"
	}
	return BackendConfig{
		Type:       BackendWSL2,
		WSLDistro:  distro,
		RemoteHost: "127.0.0.1",
		RemotePort: DefaultTCPPort,
		AutoStart:  true,
	}
}

// Remote returns a remote-host backend config.
func Remote(host string, port int) BackendConfig {
	return BackendConfig{Type: BackendRemote, RemoteHost: host, RemotePort: port}
}

// TCPHost returns the TCP host for network-mode backends.
func (c BackendConfig) TCPHost() string {
	if c.RemoteHost == "" {
		return "127.0.0.1"
	}
	return c.RemoteHost
}

// TCPPort returns the TCP port for network-mode backends.
func (c BackendConfig) TCPPort() int {
	if c.RemotePort == 0 {
		return DefaultTCPPort
	}
	return c.RemotePort
}

// Mode maps the backend type to a bridge transport mode. Only a local Python
// backend talks over stdio; everything else is a network service.
func (c BackendConfig) Mode() domain.TransportMode {
	if c.Type == BackendLocalPython || c.Type == "" {
		return domain.ModeSubprocess
	}
	return domain.ModeNetwork
}

// GlobalBackendConfig is persisted at ~/.devflow/backend.json.
type GlobalBackendConfig struct {
	DefaultBackend *BackendConfig `json:"default_backend,omitempty"`
	Configured     bool           `json:"configured"`
}

// BackendConfigPath returns the global backend config location.
func BackendConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "backend.json"), nil
}

// LoadGlobalBackend reads the persisted backend choice. A missing or corrupt
// file yields the zero value: not configured, local Python defaults apply.
func LoadGlobalBackend() GlobalBackendConfig {
	var cfg GlobalBackendConfig
	path, err := BackendConfigPath()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return GlobalBackendConfig{}
	}
	return cfg
}

// Save writes the global backend config, creating ~/.devflow if needed.
func (g GlobalBackendConfig) Save() error {
	path, err := BackendConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backend config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write backend config: %w", err)
	}
	return nil
}

// SetConfigured records backend as the configured default.
func (g *GlobalBackendConfig) SetConfigured(backend BackendConfig) {
	g.DefaultBackend = &backend
	g.Configured = true
}

// ProjectBackendConfig is a per-project override from the `backend:` block
// of <project>/devflow.yml. Zero fields leave the global value in place.
type ProjectBackendConfig struct {
	Type          BackendType `yaml:"type,omitempty"`
	ContainerName string      `yaml:"container_name,omitempty"`
	WSLDistro     string      `yaml:"wsl_distro,omitempty"`
	Host          string      `yaml:"host,omitempty"`
	Port          int         `yaml:"port,omitempty"`
}

// projectFile is the subset of devflow.yml the shell reads; the rest of the
// file belongs to the backend.
type projectFile struct {
	Backend *ProjectBackendConfig `yaml:"backend"`
}

// LoadProjectBackend reads the backend override from a project directory.
// Missing file or missing block yields nil without error.
func LoadProjectBackend(projectDir string) (*ProjectBackendConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectDir, "devflow.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read devflow.yml: %w", err)
	}
	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse devflow.yml: %w", err)
	}
	return pf.Backend, nil
}

// MergeWith overlays the project override onto the global backend config.
func (p ProjectBackendConfig) MergeWith(global BackendConfig) BackendConfig {
	result := global
	if p.Type != "" {
		result.Type = p.Type
	}
	if p.ContainerName != "" {
		result.ContainerName = p.ContainerName
	}
	if p.WSLDistro != "" {
		result.WSLDistro = p.WSLDistro
	}
	if p.Host != "" {
		result.RemoteHost = p.Host
	}
	if p.Port != 0 {
		result.RemotePort = p.Port
	}
	return result
}
