package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devflow-shell/internal/domain"
)

func TestBackendConstructors(t *testing.T) {
	lp := LocalPython("/usr/bin/python3")
	assert.Equal(t, BackendLocalPython, lp.Type)
	assert.Equal(t, domain.ModeSubprocess, lp.Mode())

	d := Docker("")
	assert.Equal(t, "devflow-backend", d.ContainerName)
	assert.Equal(t, domain.ModeNetwork, d.Mode())
	assert.Equal(t, DefaultTCPPort, d.TCPPort())

	w := WSL2("")
	assert.Equal(t, "Ubuntu", w.WSLDistro)

	r := Remote("build-01.internal", 4000)
	assert.Equal(t, "build-01.internal", r.TCPHost())
	assert.Equal(t, 4000, r.TCPPort())
}

func TestTCPDefaults(t *testing.T) {
	var c BackendConfig
	assert.Equal(t, "127.0.0.1", c.TCPHost())
	assert.Equal(t, DefaultTCPPort, c.TCPPort())
	// Zero type counts as a local Python backend.
	assert.Equal(t, domain.ModeSubprocess, c.Mode())
}

func TestGlobalBackendRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var g GlobalBackendConfig
	g.SetConfigured(Remote("10.0.0.5", 9876))
	require.NoError(t, g.Save())

	loaded := LoadGlobalBackend()
	assert.True(t, loaded.Configured)
	require.NotNil(t, loaded.DefaultBackend)
	assert.Equal(t, BackendRemote, loaded.DefaultBackend.Type)
	assert.Equal(t, "10.0.0.5", loaded.DefaultBackend.RemoteHost)
}

func TestLoadGlobalBackendMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	g := LoadGlobalBackend()
	assert.False(t, g.Configured)
	assert.Nil(t, g.DefaultBackend)
}

func TestLoadGlobalBackendCorrupt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backend.json"), []byte("{corrupt"), 0o600))

	g := LoadGlobalBackend()
	assert.False(t, g.Configured, "corrupt file falls back to the zero value")
}

func TestLoadProjectBackend(t *testing.T) {
	dir := t.TempDir()
	yml := `
preset: rails
backend:
  type: remote
  host: ci.example.com
  port: 4000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "devflow.yml"), []byte(yml), 0o600))

	override, err := LoadProjectBackend(dir)
	require.NoError(t, err)
	require.NotNil(t, override)
	assert.Equal(t, BackendRemote, override.Type)
	assert.Equal(t, "ci.example.com", override.Host)
	assert.Equal(t, 4000, override.Port)
}

func TestLoadProjectBackendMissingFile(t *testing.T) {
	override, err := LoadProjectBackend(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, override)
}

func TestLoadProjectBackendNoBlock(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "devflow.yml"), []byte("preset: rails\n"), 0o600))

	override, err := LoadProjectBackend(dir)
	require.NoError(t, err)
	assert.Nil(t, override)
}

func TestProjectOverrideMerge(t *testing.T) {
	global := Docker("devflow-backend")

	merged := (ProjectBackendConfig{Host: "192.168.1.50", Port: 4000}).MergeWith(global)
	assert.Equal(t, BackendDocker, merged.Type, "unset fields keep the global value")
	assert.Equal(t, "192.168.1.50", merged.TCPHost())
	assert.Equal(t, 4000, merged.TCPPort())

	merged = (ProjectBackendConfig{Type: BackendWSL2, WSLDistro: "Debian"}).MergeWith(global)
	assert.Equal(t, BackendWSL2, merged.Type)
	assert.Equal(t, "Debian", merged.WSLDistro)
	assert.Equal(t, "devflow-backend", merged.ContainerName)
}
