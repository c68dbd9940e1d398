package main

import (
	"strings"
	"testing"

	"devflow-shell/internal/adapter/detect"
	"devflow-shell/internal/infra/config"
)

func TestStatusIcon(t *testing.T) {
	if got := statusIcon(StatusPass); got != "[PASS]" {
		t.Errorf("got %q", got)
	}
	if got := statusIcon(StatusWarn); got != "[WARN]" {
		t.Errorf("got %q", got)
	}
	if got := statusIcon(StatusFail); got != "[FAIL]" {
		t.Errorf("got %q", got)
	}
	if got := statusIcon(CheckStatus("bogus")); got != "[????]" {
		t.Errorf("got %q", got)
	}
}

func TestCheckPythonNotRequired(t *testing.T) {
	result := checkPython(detect.Report{}, config.Docker(""))
	if result.Status != StatusPass {
		t.Errorf("status = %s, want PASS for non-python backend", result.Status)
	}
}

func TestCheckPythonMissingInterpreter(t *testing.T) {
	result := checkPython(detect.Report{}, config.LocalPython(""))
	if result.Status != StatusFail {
		t.Errorf("status = %s, want FAIL with no interpreter", result.Status)
	}
	if result.Fix == "" {
		t.Error("expected a fix suggestion")
	}
}

func TestCheckPythonBackendPackageMissing(t *testing.T) {
	report := detect.Report{Pythons: []detect.PythonInstall{
		{Path: "/usr/bin/python3", Version: "3.12.1"},
	}}
	result := checkPython(report, config.LocalPython(""))
	if result.Status != StatusFail {
		t.Errorf("status = %s, want FAIL without the backend package", result.Status)
	}
}

func TestCheckPythonReady(t *testing.T) {
	report := detect.Report{Pythons: []detect.PythonInstall{
		{Path: "/usr/bin/python3", Version: "3.12.1", DevflowInstalled: true},
	}}
	result := checkPython(report, config.LocalPython(""))
	if result.Status != StatusPass {
		t.Errorf("status = %s, want PASS", result.Status)
	}
	if !strings.Contains(result.Message, "/usr/bin/python3") {
		t.Errorf("message %q should name the interpreter", result.Message)
	}
}

func TestCheckDockerNotConfigured(t *testing.T) {
	result := checkDocker(detect.Report{}, config.LocalPython(""))
	if result.Status != StatusPass {
		t.Errorf("status = %s, want PASS when docker is not the backend", result.Status)
	}
}

func TestCheckDockerDaemonDown(t *testing.T) {
	result := checkDocker(detect.Report{Docker: false}, config.Docker(""))
	if result.Status != StatusFail {
		t.Errorf("status = %s, want FAIL when daemon unreachable", result.Status)
	}
}

func TestCheckConnectivitySubprocess(t *testing.T) {
	result := checkConnectivity(detect.Report{}, config.LocalPython(""))
	if result.Status != StatusPass {
		t.Errorf("status = %s, want PASS for subprocess backend", result.Status)
	}
}

func TestCheckBackendChoiceUnconfigured(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	result := checkBackendChoice(detect.Report{}, config.LocalPython(""))
	if result.Status != StatusWarn {
		t.Errorf("status = %s, want WARN when nothing persisted", result.Status)
	}
}
