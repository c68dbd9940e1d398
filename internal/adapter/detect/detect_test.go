package detect

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"devflow-shell/internal/infra/config"
)

func TestTestTCPConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)

	if !TestTCPConnection(host, port, time.Second) {
		t.Error("open port reported unreachable")
	}

	ln.Close()
	if TestTCPConnection(host, port, 200*time.Millisecond) {
		t.Error("closed port reported reachable")
	}
}

func TestTestBackendConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			var req struct {
				ID uint64 `json:"id"`
			}
			if json.Unmarshal(scanner.Bytes(), &req) != nil {
				return
			}
			fmt.Fprintf(conn, `{"jsonrpc":"2.0","result":"pong","id":%d}`+"\n", req.ID)
		}
	}()

	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)

	rtt, err := TestBackendConnection(host, port)
	if err != nil {
		t.Fatalf("TestBackendConnection: %v", err)
	}
	if rtt <= 0 {
		t.Errorf("rtt = %v, want > 0", rtt)
	}
}

func TestSuggestPrefersLocalPython(t *testing.T) {
	r := Report{
		Pythons: []PythonInstall{
			{Path: "/usr/bin/python3", Version: "3.12.1"},
			{Path: "/opt/python", Version: "3.11.8", DevflowInstalled: true},
		},
		Docker:     true,
		TCPDefault: true,
	}
	backend, ok := r.Suggest()
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if backend.Type != config.BackendLocalPython {
		t.Errorf("type = %s, want local_python", backend.Type)
	}
	if backend.PythonPath != "/opt/python" {
		t.Errorf("python = %s, want the install with the backend package", backend.PythonPath)
	}
}

func TestSuggestFallbackOrder(t *testing.T) {
	r := Report{TCPDefault: true, Docker: true, WSLDistros: []string{"Ubuntu"}}
	backend, ok := r.Suggest()
	if !ok || backend.Type != config.BackendRemote {
		t.Errorf("type = %s, want remote for a running default-port service", backend.Type)
	}

	r = Report{Docker: true, WSLDistros: []string{"Ubuntu"}}
	backend, _ = r.Suggest()
	if backend.Type != config.BackendDocker {
		t.Errorf("type = %s, want docker", backend.Type)
	}

	r = Report{WSLDistros: []string{"Debian"}}
	backend, _ = r.Suggest()
	if backend.Type != config.BackendWSL2 || backend.WSLDistro != "Debian" {
		t.Errorf("got %+v, want wsl2/Debian", backend)
	}

	if _, ok := (Report{}).Suggest(); ok {
		t.Error("empty report should yield no suggestion")
	}
}
