package ops

import "context"

func (s *Service) DevStatus(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "dev.status", params{"path": path})
}

// DevStart brings the project's dev stack up; services narrows it when set.
func (s *Service) DevStart(ctx context.Context, path string, services []string) CommandResponse {
	p := params{"path": path}
	if len(services) > 0 {
		p["services"] = services
	}
	return s.call(ctx, "dev.start", p)
}

func (s *Service) DevStop(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "dev.stop", params{"path": path})
}

func (s *Service) DevRestart(ctx context.Context, path, service string) CommandResponse {
	return s.call(ctx, "dev.restart", params{"path": path, "service": service})
}

func (s *Service) DevLogs(ctx context.Context, path, service string, lines int) CommandResponse {
	p := params{"path": path, "lines": lines}
	if service != "" {
		p["service"] = service
	}
	return s.call(ctx, "dev.logs", p)
}

func (s *Service) DevExec(ctx context.Context, path, service, command string) CommandResponse {
	return s.call(ctx, "dev.exec", params{"path": path, "service": service, "command": command})
}

func (s *Service) DevReset(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "dev.reset", params{"path": path})
}

func (s *Service) DevSetup(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "dev.setup", params{"path": path})
}
