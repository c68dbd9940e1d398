// Package ops forwards shell commands to the backend. Every method is pure
// plumbing: marshal params, call the bridge, hand the result back verbatim
// wrapped in a CommandResponse. Interpretation of the payloads belongs to
// the backend and the UI, not here.
package ops

import (
	"context"
	"encoding/json"
	"log/slog"

	"devflow-shell/internal/domain"
)

// CommandResponse is the uniform envelope the UI consumes.
type CommandResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Service exposes the backend's command catalog over a bridge.
type Service struct {
	bridge domain.BridgeCaller
	logger *slog.Logger
}

// NewService wraps a bridge caller.
func NewService(bridge domain.BridgeCaller, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{bridge: bridge, logger: logger}
}

// call is the single funnel: every bridge error, whatever its kind, becomes
// a failed response with the error text. No branching on error class here;
// channel health is the supervisor's concern.
func (s *Service) call(ctx context.Context, method string, params any) CommandResponse {
	data, err := s.bridge.Call(ctx, method, params)
	if err != nil {
		s.logger.Debug("command failed", "method", method, "error", err)
		return CommandResponse{Error: err.Error()}
	}
	return CommandResponse{Success: true, Data: data}
}

type params map[string]any
