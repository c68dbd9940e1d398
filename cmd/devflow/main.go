package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"devflow-shell/internal/adapter/tui/status"
	"devflow-shell/internal/domain"
	"devflow-shell/internal/infra/config"
	"devflow-shell/internal/infra/logger"
	"devflow-shell/internal/infra/tracer"
	"devflow-shell/internal/usecase/bridge"
)

var version = "dev" // set via -ldflags at release time

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		case "version", "--version":
			fmt.Println("devflow " + version)
			return
		}
	}

	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch os.Args[1] {
	case "doctor":
		if err := runDoctor(); err != nil {
			fmt.Fprintf(os.Stderr, "doctor: %v\n", err)
			os.Exit(1)
		}
	case "call":
		if err := runCall(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "call: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'devflow --help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`devflow - desktop shell for the DevFlow backend

USAGE:
    devflow [COMMAND] [FLAGS]

COMMANDS:
    doctor      Check backend prerequisites and connectivity
    call        Issue a single backend command and print the result
                Usage: devflow call <method> [json-params]
    version     Print the shell version

    (no command) - Run the status dashboard

FLAGS:
    -h, --help         Show this help message
    --config PATH      Shell config file (default: ~/.devflow/shell.yml)
    --project PATH     Project directory for backend overrides

EXAMPLES:
    devflow                              # dashboard against the configured backend
    devflow doctor                       # what backends does this machine have?
    devflow call system.info             # one-shot command
    devflow call projects.status '{"path":"/src/app"}'`)
}

func configPath() string {
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	if p := os.Getenv("DEVFLOW_CONFIG"); p != "" {
		return p
	}
	return config.DefaultPath()
}

func projectDir() string {
	for i, arg := range os.Args {
		if arg == "--project" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--project=") {
			return strings.TrimPrefix(arg, "--project=")
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// resolveBackend merges the persisted global backend choice with any
// project override from devflow.yml. An unconfigured machine falls back
// to a local Python backend.
func resolveBackend() (config.BackendConfig, error) {
	global := config.LoadGlobalBackend()
	backend := config.LocalPython("")
	if global.DefaultBackend != nil {
		backend = *global.DefaultBackend
	}

	override, err := config.LoadProjectBackend(projectDir())
	if err != nil {
		return config.BackendConfig{}, err
	}
	if override != nil {
		backend = override.MergeWith(backend)
	}
	return backend, nil
}

func bridgeConfig(bc config.BackendConfig) bridge.Config {
	cfg := bridge.Config{Mode: bc.Mode()}
	if cfg.Mode == domain.ModeSubprocess {
		cfg.PythonPath = bc.PythonPath
	} else {
		cfg.Host = bc.TCPHost()
		cfg.Port = bc.TCPPort()
	}
	return cfg
}

func run() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	backendCfg, err := resolveBackend()
	if err != nil {
		return fmt.Errorf("backend config: %w", err)
	}

	mgr := bridge.NewManager(bridgeConfig(backendCfg), log)
	defer mgr.Close()

	log.Info("devflow starting",
		"version", version,
		"backend", backendCfg.Type,
		"mode", backendCfg.Mode(),
	)

	model := status.New(mgr, backendCfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// runCall starts the bridge, issues one command, prints the raw result
// JSON, and stops. Meant for scripting and debugging.
func runCall(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: devflow call <method> [json-params]")
	}
	method := args[0]

	var params any
	if len(args) >= 2 {
		if !json.Valid([]byte(args[1])) {
			return fmt.Errorf("params is not valid JSON")
		}
		params = json.RawMessage(args[1])
	}

	backendCfg, err := resolveBackend()
	if err != nil {
		return fmt.Errorf("backend config: %w", err)
	}

	log := logger.Discard()
	mgr := bridge.NewManager(bridgeConfig(backendCfg), log)
	defer mgr.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := mgr.Start(ctx); err != nil {
		if tail := mgr.StderrTail(); tail != "" {
			fmt.Fprintln(os.Stderr, tail)
		}
		return err
	}

	result, err := mgr.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if result == nil {
		result = json.RawMessage("null")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result, "", "  "); err != nil {
		fmt.Println(string(result))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
